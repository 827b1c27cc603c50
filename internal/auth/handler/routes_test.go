package handler_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/eventloyal/auth-service/config"
	"github.com/eventloyal/auth-service/internal/auth/handler"
	"github.com/eventloyal/auth-service/internal/auth/service"
	"github.com/eventloyal/auth-service/internal/mocks"
)

// TestRegisterRoutes verifies that all routes are mounted.
func TestRegisterRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	mockTokens := mocks.NewMockTokenGenerator(ctrl)
	mockCodes := mocks.NewMockCodeGenerator(ctrl)
	cfg := &config.Config{BcryptCost: bcrypt.MinCost}

	userService := service.NewUserService(mockRepo, mockTokens, mockCodes, cfg)
	authHandler := handler.NewAuthHandler(userService, mockTokens)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler)

	testCases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/register"},
		{http.MethodPost, "/api/v1/login"},
		{http.MethodPost, "/api/v1/refresh"},
		{http.MethodDelete, "/api/v1/session"},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s_%s_exists", tc.method, tc.path), func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			resp, err := app.Test(req)
			require.NoError(t, err)

			// A 404 would mean the route is not mounted; the handlers
			// themselves return 400/401 for the empty request.
			assert.NotEqual(t, http.StatusNotFound, resp.StatusCode)
		})
	}
}
