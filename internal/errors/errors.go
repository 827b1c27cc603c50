package errors

import (
	"errors"
)

var (
	ErrEmailAlreadyInUse  = errors.New("email already in use")
	ErrInvalidReferral    = errors.New("referral code not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccessDenied       = errors.New("access denied")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInternal           = errors.New("internal error")
)
