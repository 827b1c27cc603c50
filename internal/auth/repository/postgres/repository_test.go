package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventloyal/auth-service/internal/auth/domain"
	repo "github.com/eventloyal/auth-service/internal/auth/repository/postgres"
	autherror "github.com/eventloyal/auth-service/internal/errors"
)

var userColumns = []string{
	"id", "email", "name", "password_hash", "role",
	"referral_code", "hashed_refresh_token", "created_at", "updated_at",
}

func newUser() *domain.User {
	now := time.Now()
	return &domain.User{
		ID:           "11111111-1111-1111-1111-111111111111",
		Email:        "ann@x.com",
		Name:         "Ann Lee",
		PasswordHash: "bcrypt-hash",
		Role:         domain.RoleCustomer,
		ReferralCode: "REF-ANN01",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestFindByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()
	email := "ann@x.com"

	t.Run("success", func(t *testing.T) {
		hash := "stored-refresh-hash"
		mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
			WithArgs(email).
			WillReturnRows(pgxmock.NewRows(userColumns).
				AddRow("user-1", email, "Ann Lee", "bcrypt-hash", "CUSTOMER",
					"REF-ANN01", &hash, time.Now(), time.Now()))

		user, err := r.FindByEmail(ctx, email)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "user-1", user.ID)
		assert.Equal(t, domain.RoleCustomer, user.Role)
		require.NotNil(t, user.HashedRefreshToken)
		assert.Equal(t, hash, *user.HashedRefreshToken)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
			WithArgs(email).
			WillReturnError(pgx.ErrNoRows)

		user, err := r.FindByEmail(ctx, email)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
			WithArgs(email).
			WillReturnError(fmt.Errorf("db error"))

		_, err := r.FindByEmail(ctx, email)
		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByReferralCode(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()
	code := "REF-ANN01"

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE referral_code").
			WithArgs(code).
			WillReturnRows(pgxmock.NewRows(userColumns).
				AddRow("user-1", "ann@x.com", "Ann Lee", "bcrypt-hash", "CUSTOMER",
					code, nil, time.Now(), time.Now()))

		user, err := r.FindByReferralCode(ctx, code)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, code, user.ReferralCode)
		assert.Nil(t, user.HashedRefreshToken)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE referral_code").
			WithArgs(code).
			WillReturnError(pgx.ErrNoRows)

		user, err := r.FindByReferralCode(ctx, code)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow("user-1", "ann@x.com", "Ann Lee", "bcrypt-hash", "ADMIN",
				"REF-ANN01", nil, time.Now(), time.Now()))

	user, err := r.FindByID(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, domain.RoleAdmin, user.Role)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithReferralCredit(t *testing.T) {
	ctx := context.Background()

	t.Run("without referrer only inserts the user", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		r := repo.NewPostgresRepository(mock)
		user := newUser()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Email, user.Name, user.PasswordHash, "CUSTOMER",
				user.ReferralCode, user.CreatedAt, user.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		err = r.CreateWithReferralCredit(ctx, user, nil, 10000)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("with referrer credits the ledger in the same transaction", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		r := repo.NewPostgresRepository(mock)
		user := newUser()
		referrerID := "22222222-2222-2222-2222-222222222222"

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Email, user.Name, user.PasswordHash, "CUSTOMER",
				user.ReferralCode, user.CreatedAt, user.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec("INSERT INTO points").
			WithArgs(pgxmock.AnyArg(), referrerID, int64(10000)).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		err = r.CreateWithReferralCredit(ctx, user, &referrerID, 10000)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("credit failure rolls back the user insert", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		r := repo.NewPostgresRepository(mock)
		user := newUser()
		referrerID := "22222222-2222-2222-2222-222222222222"

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Email, user.Name, user.PasswordHash, "CUSTOMER",
				user.ReferralCode, user.CreatedAt, user.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec("INSERT INTO points").
			WithArgs(pgxmock.AnyArg(), referrerID, int64(10000)).
			WillReturnError(fmt.Errorf("mid-transaction failure"))
		mock.ExpectRollback()

		err = r.CreateWithReferralCredit(ctx, user, &referrerID, 10000)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing referrer row maps to referral error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		r := repo.NewPostgresRepository(mock)
		user := newUser()
		referrerID := "22222222-2222-2222-2222-222222222222"

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Email, user.Name, user.PasswordHash, "CUSTOMER",
				user.ReferralCode, user.CreatedAt, user.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec("INSERT INTO points").
			WithArgs(pgxmock.AnyArg(), referrerID, int64(10000)).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})
		mock.ExpectRollback()

		err = r.CreateWithReferralCredit(ctx, user, &referrerID, 10000)
		assert.ErrorIs(t, err, autherror.ErrInvalidReferral)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email maps to domain error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		r := repo.NewPostgresRepository(mock)
		user := newUser()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Email, user.Name, user.PasswordHash, "CUSTOMER",
				user.ReferralCode, user.CreatedAt, user.UpdatedAt).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"})
		mock.ExpectRollback()

		err = r.CreateWithReferralCredit(ctx, user, nil, 10000)
		assert.ErrorIs(t, err, autherror.ErrEmailAlreadyInUse)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSetRefreshTokenHash(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	t.Run("stores a hash", func(t *testing.T) {
		hash := "bcrypt-of-digest"
		mock.ExpectExec("UPDATE users SET hashed_refresh_token").
			WithArgs("user-1", &hash).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, r.SetRefreshTokenHash(ctx, "user-1", &hash))
	})

	t.Run("clears the hash on logout", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET hashed_refresh_token").
			WithArgs("user-1", (*string)(nil)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, r.SetRefreshTokenHash(ctx, "user-1", (*string)(nil)))
	})

	t.Run("database error", func(t *testing.T) {
		hash := "bcrypt-of-digest"
		mock.ExpectExec("UPDATE users SET hashed_refresh_token").
			WithArgs("user-1", &hash).
			WillReturnError(fmt.Errorf("db error"))

		assert.Error(t, r.SetRefreshTokenHash(ctx, "user-1", &hash))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
