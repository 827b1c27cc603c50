package domain

import "context"

// UserRepository abstracts the transactional credential store. Find methods
// return (nil, nil) when no row matches.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByReferralCode(ctx context.Context, code string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	// CreateWithReferralCredit inserts the user and, when referrerID is
	// non-nil, credits bonus points to that referrer's ledger entry in the
	// same transaction. Either both writes commit or neither does.
	CreateWithReferralCredit(ctx context.Context, user *User, referrerID *string, bonus int64) error
	// SetRefreshTokenHash stores the bcrypt hash of the user's current
	// refresh token; nil clears it.
	SetRefreshTokenHash(ctx context.Context, userID string, hash *string) error
}
