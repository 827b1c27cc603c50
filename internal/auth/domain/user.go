package domain

import "time"

type Role string

const (
	RoleCustomer  Role = "CUSTOMER"
	RoleOrganizer Role = "ORGANIZER"
	RoleAdmin     Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	ReferralCode string
	// HashedRefreshToken is nil when the user has no active session.
	HashedRefreshToken *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// PointLedgerEntry holds a user's running referral-credit total.
// A user has at most one entry; it is created on their first earned
// bonus and incremented in place afterwards.
type PointLedgerEntry struct {
	ID        string
	UserID    string
	Total     int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
