package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/eventloyal/auth-service/internal/auth/dto"
	"github.com/eventloyal/auth-service/internal/auth/service"
	autherror "github.com/eventloyal/auth-service/internal/errors"
)

type AuthHandler struct {
	userService  *service.UserService
	tokenService service.TokenGenerator
	validate     *validator.Validate
}

func NewAuthHandler(userService *service.UserService, tokenService service.TokenGenerator) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		tokenService: tokenService,
		validate:     validator.New(),
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}
	if err := h.validate.Struct(input); err != nil {
		return badRequest(c, "invalid input")
	}

	resp, err := h.userService.Register(c.Context(), input)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}
	if err := h.validate.Struct(input); err != nil {
		return badRequest(c, "invalid input")
	}

	tokenPair, err := h.userService.Login(c.Context(), input)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokenPair)
}

// Refresh authenticates the presented refresh token's signature and expiry
// before the service compares it against the stored hash. The user identity
// comes from the token's own claims.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var input dto.RefreshInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}
	if err := h.validate.Struct(input); err != nil {
		return badRequest(c, "invalid input")
	}

	claims, err := h.tokenService.Verify(input.RefreshToken, service.RefreshToken)
	if err != nil {
		return writeError(c, err)
	}

	tokenPair, err := h.userService.RefreshTokens(c.Context(), claims.UserID, input.RefreshToken)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokenPair)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, err := h.bearerClaims(c)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.userService.Logout(c.Context(), claims.UserID); err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "logged out"})
}

func (h *AuthHandler) bearerClaims(c *fiber.Ctx) (*service.JWTCustomClaims, error) {
	header := c.Get(fiber.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return nil, autherror.ErrInvalidToken
	}

	return h.tokenService.Verify(token, service.AccessToken)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// writeError maps domain errors onto HTTP statuses. Anything unrecognized is
// an infrastructure fault and surfaces as a generic 500 so internals never
// leak.
func writeError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := autherror.ErrInternal.Error()

	switch {
	case errors.Is(err, autherror.ErrEmailAlreadyInUse):
		status, msg = fiber.StatusConflict, err.Error()
	case errors.Is(err, autherror.ErrInvalidReferral):
		status, msg = fiber.StatusNotFound, err.Error()
	case errors.Is(err, autherror.ErrInvalidCredentials):
		status, msg = fiber.StatusUnauthorized, autherror.ErrInvalidCredentials.Error()
	case errors.Is(err, autherror.ErrInvalidToken):
		status, msg = fiber.StatusUnauthorized, autherror.ErrInvalidToken.Error()
	case errors.Is(err, autherror.ErrAccessDenied):
		status, msg = fiber.StatusForbidden, autherror.ErrAccessDenied.Error()
	}

	return c.Status(status).JSON(fiber.Map{"error": msg})
}
