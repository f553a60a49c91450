// Package middleware provides the Echo adapters around the auth
// core: bearer authentication, role guards and rate limiting.
package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sudheer0071/auth-service-new/internal/auth"
)

// Context keys populated for handlers downstream of RequireAuth.
const (
	IdentityKey = "identity"
	UserIDKey   = "user_id"
	RoleKey     = "role"
)

// RequireAuth resolves the caller's identity from the bearer token
// and stores it in the request context. The full pipeline runs on
// every request: verification, revocation check, user lookup and
// affiliation enrichment. Auth failures map to 401; a directory
// outage is 503 because identity cannot be established at all.
func RequireAuth(resolver *auth.Resolver, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := resolver.Resolve(c.Request().Context(), c.Request().Header.Get("Authorization"))
			if err != nil {
				return authFailure(c, log, err)
			}
			c.Set(IdentityKey, id)
			c.Set(UserIDKey, id.UserID)
			c.Set(RoleKey, string(id.Role))
			return next(c)
		}
	}
}

// RequireRefresh is the refresh-flow variant: the bearer token must
// be a refresh token, and no affiliation data is loaded.
func RequireRefresh(resolver *auth.Resolver, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := resolver.ResolveRefresh(c.Request().Context(), c.Request().Header.Get("Authorization"))
			if err != nil {
				return authFailure(c, log, err)
			}
			c.Set(IdentityKey, id)
			c.Set(UserIDKey, id.UserID)
			c.Set(RoleKey, string(id.Role))
			return next(c)
		}
	}
}

// CurrentIdentity returns the identity stored by RequireAuth or
// RequireRefresh, or nil on an unguarded route.
func CurrentIdentity(c echo.Context) *auth.Identity {
	id, _ := c.Get(IdentityKey).(*auth.Identity)
	return id
}

func authFailure(c echo.Context, log zerolog.Logger, err error) error {
	if errors.Is(err, auth.ErrDirectoryUnavailable) {
		log.Error().Err(err).Str("path", c.Path()).Msg("identity resolution failed, directory unavailable")
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "service unavailable"})
	}
	log.Debug().Err(err).Str("path", c.Path()).Msg("request not authenticated")
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": unauthReason(err)})
}

func unauthReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		return "missing bearer token"
	case errors.Is(err, auth.ErrExpired):
		return "token expired"
	default:
		return "invalid or expired token"
	}
}
