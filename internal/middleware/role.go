package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sudheer0071/auth-service-new/internal/auth"
	"github.com/sudheer0071/auth-service-new/internal/model"
)

// RequireRole admits callers holding one of the given roles. It
// assumes RequireAuth ran earlier in the chain; without a resolved
// identity the request is rejected as unauthenticated.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return guardWith(func(id *auth.Identity) error {
		return auth.RequireRole(id, roles...)
	})
}

// RequireHospitalAdmin admits only HOSPITAL accounts whose hospital
// was resolved. A hospital-admin with no registered hospital is
// rejected even though it authenticated fine.
func RequireHospitalAdmin() echo.MiddlewareFunc {
	return guardWith(auth.RequireHospitalAdmin)
}

// RequireRoleWithHospital admits the given roles and additionally
// demands a resolved hospital from HOSPITAL accounts.
func RequireRoleWithHospital(roles ...model.Role) echo.MiddlewareFunc {
	return guardWith(func(id *auth.Identity) error {
		return auth.RequireRoleWithHospital(id, roles...)
	})
}

func guardWith(check func(*auth.Identity) error) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := CurrentIdentity(c)
			if id == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			if err := check(id); err != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"error": guardReason(err)})
			}
			return next(c)
		}
	}
}

// guardReason strips the sentinel prefix so the response carries just
// the human-readable part of the guard error.
func guardReason(err error) string {
	return strings.TrimPrefix(err.Error(), auth.ErrForbidden.Error()+": ")
}
