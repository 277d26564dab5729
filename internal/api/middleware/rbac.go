package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ms19/journal-system/internal/core/domain"
)

// RequireRole lets the request through only when the principal holds one of roles.
// It must run after Auth.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := PrincipalFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			for _, r := range roles {
				if principal.Roles.Has(r) {
					return next(c)
				}
			}
			return domain.ErrForbidden
		}
	}
}
