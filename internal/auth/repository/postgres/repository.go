package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/eventloyal/auth-service/internal/auth/domain"
	autherror "github.com/eventloyal/auth-service/internal/errors"
)

// PgxIface is the slice of pgxpool.Pool the repository needs. pgxmock
// satisfies it in tests.
type PgxIface interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	db PgxIface
}

func NewPostgresRepository(db PgxIface) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, email, name, password_hash, role, referral_code, hashed_refresh_token, created_at, updated_at`

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1;`
	return r.findOne(ctx, query, email)
}

func (r *PostgresRepository) FindByReferralCode(ctx context.Context, code string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE referral_code = $1 LIMIT 1;`
	return r.findOne(ctx, query, code)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1;`
	return r.findOne(ctx, query, id)
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	row := r.db.QueryRow(ctx, query, arg)

	var user domain.User
	var role string
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &role,
		&user.ReferralCode, &user.HashedRefreshToken, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	user.Role = domain.Role(role)

	return &user, nil
}

// CreateWithReferralCredit inserts the user and credits the referrer's point
// ledger inside one transaction. The ON CONFLICT increment runs under row
// locking, so concurrent registrations against the same referrer never lose
// an update.
func (r *PostgresRepository) CreateWithReferralCredit(ctx context.Context, user *domain.User, referrerID *string, bonus int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, email, name, password_hash, role, referral_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, user.ID, user.Email, user.Name, user.PasswordHash, string(user.Role), user.ReferralCode, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return mapCreateError(err)
	}

	if referrerID != nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO points (id, user_id, total, created_at, updated_at)
			VALUES ($1, $2, $3, now(), now())
			ON CONFLICT (user_id)
			DO UPDATE SET total = points.total + EXCLUDED.total, updated_at = now()
		`, uuid.NewString(), *referrerID, bonus)
		if err != nil {
			return mapCreateError(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit registration: %w", err)
	}

	return nil
}

func (r *PostgresRepository) SetRefreshTokenHash(ctx context.Context, userID string, hash *string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET hashed_refresh_token = $2, updated_at = now() WHERE id = $1
	`, userID, hash)
	if err != nil {
		return fmt.Errorf("failed to update refresh token hash: %w", err)
	}

	return nil
}

// mapCreateError translates constraint violations into domain errors: a
// duplicate email means the address is taken, a broken points FK means the
// referrer row vanished before commit.
func mapCreateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			if pgErr.ConstraintName == "users_email_key" {
				return autherror.ErrEmailAlreadyInUse
			}
		case pgerrcode.ForeignKeyViolation:
			return autherror.ErrInvalidReferral
		}
	}

	return fmt.Errorf("failed to create user: %w", err)
}

var _ domain.UserRepository = (*PostgresRepository)(nil)
