package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/eventloyal/auth-service/internal/auth/service TokenGenerator

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/eventloyal/auth-service/internal/auth/domain"
	autherror "github.com/eventloyal/auth-service/internal/errors"
)

// TokenKind selects which secret and expiry policy apply to a token.
type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

type TokenGenerator interface {
	IssueAccessToken(userID, email string, role domain.Role) (string, error)
	IssueRefreshToken(userID, email string) (string, error)
	Verify(tokenString string, kind TokenKind) (*JWTCustomClaims, error)
}

// TokenService signs and verifies HS256 JWTs. Access and refresh tokens use
// independent secrets and expiries, both fixed at construction.
type TokenService struct {
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type JWTCustomClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role,omitempty"`
}

func NewTokenService(accessSecret, refreshSecret string, accessMinutes, refreshMinutes int) *TokenService {
	return &TokenService{
		AccessTokenSecret:  accessSecret,
		RefreshTokenSecret: refreshSecret,
		AccessTokenExpiry:  time.Duration(accessMinutes) * time.Minute,
		RefreshTokenExpiry: time.Duration(refreshMinutes) * time.Minute,
	}
}

// IssueAccessToken signs a short-lived token carrying the user's role for
// downstream authorization.
func (ts *TokenService) IssueAccessToken(userID, email string, role domain.Role) (string, error) {
	now := time.Now()
	claims := JWTCustomClaims{
		UserID: userID,
		Email:  email,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ts.AccessTokenSecret))
}

// IssueRefreshToken signs a longer-lived token. It deliberately omits the
// role so a later role change cannot leak into stale refresh claims.
func (ts *TokenService) IssueRefreshToken(userID, email string) (string, error) {
	now := time.Now()
	claims := JWTCustomClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.RefreshTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ts.RefreshTokenSecret))
}

// Verify parses and validates tokenString against the secret for kind.
// Signature or expiry failures surface as ErrInvalidToken.
func (ts *TokenService) Verify(tokenString string, kind TokenKind) (*JWTCustomClaims, error) {
	secret := ts.AccessTokenSecret
	if kind == RefreshToken {
		secret = ts.RefreshTokenSecret
	}

	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil || !token.Valid {
		return nil, autherror.ErrInvalidToken
	}

	return claims, nil
}

var _ TokenGenerator = (*TokenService)(nil)
