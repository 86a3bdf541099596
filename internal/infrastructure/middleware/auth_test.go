package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"llmtracer/backend/internal/infrastructure/config"
	"llmtracer/backend/internal/infrastructure/middleware"
	"llmtracer/backend/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func asAppError(err error, target **apperror.AppError) bool {
	return errors.As(err, target)
}

func newAuthApp(cfg config.AuthConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var appErr *apperror.AppError
			if ok := asAppError(err, &appErr); ok {
				return c.Status(appErr.GetHttpStatus()).JSON(fiber.Map{"message": appErr.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		},
	})
	auth := middleware.NewAuthenticator(cfg)
	app.Use(auth.Handle())
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(middleware.ProjectIDLocalsKey).(string))
	})
	return app
}

func TestAuthenticator_NotRequired_UsesDefaultProject(t *testing.T) {
	app := newAuthApp(config.AuthConfig{Required: false, DefaultProjectID: "project-public"})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthenticator_Required_RejectsMissingKey(t *testing.T) {
	app := newAuthApp(config.AuthConfig{Required: true, ValidKeys: "project-abc"})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticator_Required_AcceptsValidKey(t *testing.T) {
	app := newAuthApp(config.AuthConfig{Required: true, ValidKeys: "project-abc, project-xyz"})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-API-Key", "project-abc")
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthenticator_Required_RejectsMalformedKey(t *testing.T) {
	app := newAuthApp(config.AuthConfig{Required: true, ValidKeys: "weird-key"})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-API-Key", "weird-key")
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
