package middleware

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// AuthenticatedKey marks a request that presented the configured token
const AuthenticatedKey contextKey = "authenticated"

// TokenQueryParam carries the token for clients that cannot set headers (WebSocket)
const TokenQueryParam = "token"

// TokenAuthMiddleware guards the API with a single static bearer token
type TokenAuthMiddleware struct {
	token []byte
}

// NewTokenAuthMiddleware creates a new TokenAuthMiddleware.
// An empty token disables authentication.
func NewTokenAuthMiddleware(token string) *TokenAuthMiddleware {
	return &TokenAuthMiddleware{token: []byte(token)}
}

// Enabled reports whether a token is configured
func (m *TokenAuthMiddleware) Enabled() bool {
	return len(m.token) > 0
}

// Authenticate returns an Echo middleware that validates the bearer token
func (m *TokenAuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !m.Enabled() {
				return next(c)
			}

			token, err := extractToken(c)
			if err != "" {
				return unauthorizedError(c, err)
			}

			if subtle.ConstantTimeCompare([]byte(token), m.token) != 1 {
				log.Debug().
					Str("path", c.Request().URL.Path).
					Msg("Invalid API token")
				return unauthorizedError(c, "Invalid API token")
			}

			ctx := context.WithValue(c.Request().Context(), AuthenticatedKey, true)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// extractToken reads the token from the Authorization header, falling back to the query string
func extractToken(c echo.Context) (string, string) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		if token := c.QueryParam(TokenQueryParam); token != "" {
			return token, ""
		}
		return "", "Missing authorization header"
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", "Invalid authorization header format"
	}
	return parts[1], ""
}

// IsAuthenticated checks if the request presented a valid token
func IsAuthenticated(c echo.Context) bool {
	if ok, found := c.Request().Context().Value(AuthenticatedKey).(bool); found {
		return ok
	}
	return false
}
