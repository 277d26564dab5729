package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ms19/journal-system/internal/api/middleware"
	"github.com/ms19/journal-system/internal/core/domain"
	"github.com/ms19/journal-system/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  Response{data=authResponse}
// @Failure      400   {object}  Response
// @Failure      401   {object}  Response
// @Failure      429   {object}  Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "login successful", authResponse{Token: token, User: user})
}

// Logout revokes the bearer token the request was made with.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Response
// @Failure      400  {object}  Response
// @Failure      401  {object}  Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	token, ok := middleware.BearerToken(c)
	if !ok {
		return fmt.Errorf("%w: logout requires a bearer token", domain.ErrValidation)
	}
	if err := h.authService.Logout(c.Request().Context(), token); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "logged out", nil)
}

// OAuthLogin redirects to the identity provider.
//
// @Summary      Start OAuth2 login
// @Tags         auth
// @Success      302
// @Failure      503  {object}  Response
// @Router       /oauth2/login [get]
func (h *AuthHandler) OAuthLogin(c echo.Context) error {
	url, err := h.authService.OAuthLoginURL(c.Request().Context())
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, url)
}

// OAuthCallback completes the authorization-code flow and issues a token.
//
// @Summary      OAuth2 callback
// @Tags         auth
// @Produce      json
// @Param        state  query     string  true  "State issued by /oauth2/login"
// @Param        code   query     string  true  "Authorization code"
// @Success      200    {object}  Response{data=authResponse}
// @Failure      401    {object}  Response
// @Failure      502    {object}  Response
// @Router       /oauth2/callback [get]
func (h *AuthHandler) OAuthCallback(c echo.Context) error {
	if providerErr := c.QueryParam("error"); providerErr != "" {
		return fmt.Errorf("%w: provider returned %s", domain.ErrInvalidCredentials, providerErr)
	}

	token, user, err := h.authService.OAuthCallback(c.Request().Context(), c.QueryParam("state"), c.QueryParam("code"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "login successful", authResponse{Token: token, User: user})
}
