package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ms19/journal-system/internal/core/domain"
	"github.com/ms19/journal-system/internal/core/ports"
)

const (
	principalKey = "principal"
	tokenKey     = "bearer_token"
)

// Auth resolves the request principal from a Bearer token or HTTP Basic
// credentials and stores it in the echo context.
func Auth(verifier ports.CredentialVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return unauthorized(c, "missing authorization header")
			}

			scheme, credential, ok := strings.Cut(authHeader, " ")
			if !ok || credential == "" {
				return unauthorized(c, "invalid authorization header")
			}

			ctx := c.Request().Context()
			var (
				principal *domain.Principal
				err       error
			)
			switch {
			case strings.EqualFold(scheme, "bearer"):
				principal, err = verifier.VerifyToken(ctx, credential)
				if err == nil {
					c.Set(tokenKey, credential)
				}
			case strings.EqualFold(scheme, "basic"):
				username, password, ok := c.Request().BasicAuth()
				if !ok {
					return unauthorized(c, "invalid basic credentials")
				}
				principal, err = verifier.VerifyBasic(ctx, username, password)
			default:
				return unauthorized(c, "unsupported authorization scheme")
			}
			if err != nil {
				if rejected(err) {
					challenge(c)
				}
				return err
			}

			c.Set(principalKey, *principal)
			return next(c)
		}
	}
}

func challenge(c echo.Context) {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Bearer realm="journal"`)
}

func unauthorized(c echo.Context, msg string) error {
	challenge(c)
	return echo.NewHTTPError(http.StatusUnauthorized, msg)
}

// rejected reports whether err means the credentials were refused, as opposed
// to the verifier failing.
func rejected(err error) bool {
	return errors.Is(err, domain.ErrInvalidToken) ||
		errors.Is(err, domain.ErrTokenRevoked) ||
		errors.Is(err, domain.ErrInvalidCredentials)
}

// PrincipalFrom returns the principal stored by Auth.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(principalKey).(domain.Principal)
	return p, ok && p.Username != ""
}

// SetPrincipal stores p the way Auth does. Used by tests and internal callers.
func SetPrincipal(c echo.Context, p domain.Principal) {
	c.Set(principalKey, p)
}

// BearerToken returns the raw token when the request authenticated with one.
func BearerToken(c echo.Context) (string, bool) {
	t, ok := c.Get(tokenKey).(string)
	return t, ok && t != ""
}
