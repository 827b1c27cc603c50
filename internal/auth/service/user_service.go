package service

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/eventloyal/auth-service/internal/auth/domain UserRepository

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/eventloyal/auth-service/config"
	"github.com/eventloyal/auth-service/internal/auth/domain"
	"github.com/eventloyal/auth-service/internal/auth/dto"
	autherror "github.com/eventloyal/auth-service/internal/errors"
	"github.com/eventloyal/auth-service/pkg/constant"
)

// UserService orchestrates registration, login, token rotation and logout.
type UserService struct {
	repo         domain.UserRepository
	tokenService TokenGenerator
	codeGen      CodeGenerator
	cfg          *config.Config
}

func NewUserService(repo domain.UserRepository, tokenService TokenGenerator, codeGen CodeGenerator, cfg *config.Config) *UserService {
	return &UserService{
		repo:         repo,
		tokenService: tokenService,
		codeGen:      codeGen,
		cfg:          cfg,
	}
}

func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*dto.RegisterResponse, error) {
	existing, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, autherror.ErrEmailAlreadyInUse
	}

	// Resolve the referrer before anything is written. An unknown code is a
	// hard failure, never a silent no-op.
	var referrerID *string
	if input.ReferralCode != "" {
		referrer, err := s.repo.FindByReferralCode(ctx, input.ReferralCode)
		if err != nil {
			return nil, err
		}
		if referrer == nil {
			return nil, autherror.ErrInvalidReferral
		}
		referrerID = &referrer.ID
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	referralCode, err := s.uniqueReferralCode(ctx)
	if err != nil {
		return nil, err
	}

	role := domain.Role(input.Role)
	if role == "" {
		role = domain.RoleCustomer
	}
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", input.Role)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: string(hashedPassword),
		Role:         role,
		ReferralCode: referralCode,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateWithReferralCredit(ctx, user, referrerID, s.cfg.ReferralBonusPoints); err != nil {
		return nil, err
	}

	accessToken, refreshToken, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.RegisterResponse{
		Message:      "registration successful",
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: dto.UserOutput{
			ID:           user.ID,
			Email:        user.Email,
			Name:         user.Name,
			ReferralCode: user.ReferralCode,
			Role:         string(user.Role),
		},
	}, nil
}

func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.TokenResponse, error) {
	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}

	// Identical error for unknown email and wrong password so callers
	// cannot enumerate accounts.
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, autherror.ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// RefreshTokens rotates the caller's token pair. The presented token must
// match the stored hash; after rotation the old refresh token is permanently
// unusable even if it had not expired.
func (s *UserService) RefreshTokens(ctx context.Context, userID, refreshToken string) (*dto.TokenResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.HashedRefreshToken == nil {
		return nil, autherror.ErrAccessDenied
	}

	if !compareRefreshToken(*user.HashedRefreshToken, refreshToken) {
		return nil, autherror.ErrAccessDenied
	}

	accessToken, newRefreshToken, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

// Logout clears the stored refresh-token hash. Logging out twice is not an
// error.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	return s.repo.SetRefreshTokenHash(ctx, userID, nil)
}

// uniqueReferralCode draws codes until one is unused, failing closed after a
// fixed number of attempts instead of looping forever.
func (s *UserService) uniqueReferralCode(ctx context.Context) (string, error) {
	for i := 0; i < constant.MaxReferralCodeAttempts; i++ {
		code, err := s.codeGen.Generate()
		if err != nil {
			return "", err
		}

		taken, err := s.repo.FindByReferralCode(ctx, code)
		if err != nil {
			return "", err
		}
		if taken == nil {
			return code, nil
		}
	}

	return "", fmt.Errorf("%w: referral code generation exhausted retries", autherror.ErrInternal)
}

// issueTokenPair signs a fresh access+refresh pair and persists the hash of
// the refresh token, invalidating whatever token was stored before.
func (s *UserService) issueTokenPair(ctx context.Context, user *domain.User) (string, string, error) {
	accessToken, err := s.tokenService.IssueAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", "", err
	}

	refreshToken, err := s.tokenService.IssueRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", "", err
	}

	hash, err := hashRefreshToken(refreshToken)
	if err != nil {
		return "", "", err
	}

	if err := s.repo.SetRefreshTokenHash(ctx, user.ID, &hash); err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// hashRefreshToken bcrypts the SHA-256 digest of the token. The digest step
// keeps the input under bcrypt's 72-byte limit, which a signed JWT always
// exceeds.
func hashRefreshToken(token string) (string, error) {
	digest := sha256.Sum256([]byte(token))
	hash, err := bcrypt.GenerateFromPassword(digest[:], bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func compareRefreshToken(hash, token string) bool {
	digest := sha256.Sum256([]byte(token))
	return bcrypt.CompareHashAndPassword([]byte(hash), digest[:]) == nil
}
