package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type contextKey string

// APIKeyContextKey is the context key for the authenticated API key
const APIKeyContextKey contextKey = "api_key"

// APIKeyAuthMiddleware authenticates requests against a static list of API
// keys, taken from the X-API-Key header or a bearer token.
type APIKeyAuthMiddleware struct {
	keys []string
}

// NewAPIKeyAuthMiddleware creates a new APIKeyAuthMiddleware
func NewAPIKeyAuthMiddleware(keys []string) *APIKeyAuthMiddleware {
	return &APIKeyAuthMiddleware{keys: keys}
}

// Authenticate returns an Echo middleware that validates API keys
func (m *APIKeyAuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := extractKey(c)
			if key == "" {
				return unauthorized(c, "Missing API key")
			}

			if !m.isValid(key) {
				log.Debug().Msg("Rejected request with unknown API key")
				return unauthorized(c, "Invalid API key")
			}

			ctx := context.WithValue(c.Request().Context(), APIKeyContextKey, key)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

func unauthorized(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"type":     "https://brightpath.app/errors/unauthorized",
		"title":    "Unauthorized",
		"status":   http.StatusUnauthorized,
		"detail":   detail,
		"instance": c.Request().URL.Path,
	})
}

func (m *APIKeyAuthMiddleware) isValid(key string) bool {
	for _, known := range m.keys {
		if subtle.ConstantTimeCompare([]byte(known), []byte(key)) == 1 {
			return true
		}
	}
	return false
}

func extractKey(c echo.Context) string {
	if key := c.Request().Header.Get("X-API-Key"); key != "" {
		return key
	}
	authHeader := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
		return parts[1]
	}
	return ""
}

// GetAPIKey extracts the authenticated API key from the context
func GetAPIKey(c echo.Context) string {
	if key, ok := c.Request().Context().Value(APIKeyContextKey).(string); ok {
		return key
	}
	return ""
}
