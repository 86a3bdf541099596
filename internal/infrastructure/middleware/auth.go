package middleware

import (
	"strings"

	"llmtracer/backend/internal/infrastructure/config"
	"llmtracer/backend/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// ProjectIDLocalsKey is the fiber.Locals key handlers read the authenticated
// caller's project id from.
const ProjectIDLocalsKey = "project_id"

const apiKeyHeader = "X-API-Key"

// Authenticator validates the X-API-Key header against a fixed set of keys
// shaped "project-{project_id}". When auth is not required it still runs,
// assigning every caller the project id carried by the configured default
// project key.
type Authenticator struct {
	cfg config.AuthConfig
}

func NewAuthenticator(cfg config.AuthConfig) *Authenticator {
	return &Authenticator{cfg: cfg}
}

func (a *Authenticator) Handle() fiber.Handler {
	validKeys := splitNonEmpty(a.cfg.ValidKeys, ",")

	return func(c *fiber.Ctx) error {
		if !a.cfg.Required {
			projectID, err := extractProjectID(a.cfg.DefaultProjectID)
			if err != nil {
				return err
			}
			c.Locals(ProjectIDLocalsKey, projectID)
			return c.Next()
		}

		apiKey := c.Get(apiKeyHeader)
		if apiKey == "" || !contains(validKeys, apiKey) {
			return apperror.New(
				apperror.CodeUnauthorized,
				"invalid or missing API key",
				apperror.KindPersistance,
			)
		}

		projectID, err := extractProjectID(apiKey)
		if err != nil {
			return err
		}

		c.Locals(ProjectIDLocalsKey, projectID)
		return c.Next()
	}
}

func extractProjectID(apiKey string) (string, error) {
	const prefix = "project-"
	if strings.HasPrefix(apiKey, prefix) {
		projectID := strings.TrimPrefix(apiKey, prefix)
		if projectID != "" {
			return projectID, nil
		}
	}
	return "", apperror.New(
		apperror.CodeInvalidRequest,
		"invalid API key format, expected project-{project_id}",
		apperror.KindPersistance,
	)
}

func splitNonEmpty(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
