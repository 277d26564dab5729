package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ms19/journal-system/internal/core/domain"
	"github.com/ms19/journal-system/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Register handles POST /users.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  Response{data=domain.User}
// @Failure      400   {object}  Response
// @Failure      409   {object}  Response
// @Router       /users [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.service.RegisterUser(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "user created", user)
}

// Me handles GET /users/me.
//
// @Summary      Get the caller's account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Response{data=domain.User}
// @Failure      401  {object}  Response
// @Failure      404  {object}  Response
// @Router       /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	user, err := h.service.FindByUsername(c.Request().Context(), principal.Username)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "user fetched", user)
}

// UpdateMe handles PUT /users/me. Tokens issued under the old username stop
// resolving after a rename.
//
// @Summary      Update the caller's account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  Response{data=domain.User}
// @Failure      400   {object}  Response
// @Failure      401   {object}  Response
// @Failure      404   {object}  Response
// @Failure      409   {object}  Response
// @Router       /users/me [put]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.service.UpdateProfile(c.Request().Context(), principal.Username, domain.ProfilePatch{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "user updated", user)
}

// DeleteMe handles DELETE /users/me. The caller's entries go with the account.
//
// @Summary      Delete the caller's account and entries
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Response{data=domain.User}
// @Failure      401  {object}  Response
// @Failure      404  {object}  Response
// @Router       /users/me [delete]
func (h *UserHandler) DeleteMe(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	user, err := h.service.DeleteByUsername(c.Request().Context(), principal.Username)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "user deleted", user)
}
