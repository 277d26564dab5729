package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ms19/journal-system/internal/api/middleware"
	"github.com/ms19/journal-system/internal/core/domain"
)

// ctxPrincipal extracts the principal injected by the Auth middleware.
// A missing principal means the route was wired without Auth.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return p, nil
}
