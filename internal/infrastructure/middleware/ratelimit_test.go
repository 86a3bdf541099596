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

func newRateLimitedApp(cfg config.RateLimitConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				return c.Status(appErr.GetHttpStatus()).JSON(fiber.Map{"message": appErr.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		},
	})
	limiter := middleware.NewRateLimiter(cfg)
	app.Use(limiter.Handle())
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	return app
}

func TestRateLimiter_AllowsWithinWindow(t *testing.T) {
	app := newRateLimitedApp(config.RateLimitConfig{RequestsPerWindow: 2, WindowSeconds: 60})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func TestRateLimiter_RejectsOverLimit(t *testing.T) {
	app := newRateLimitedApp(config.RateLimitConfig{RequestsPerWindow: 1, WindowSeconds: 60})

	first, _ := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, first.StatusCode)

	second, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
}
