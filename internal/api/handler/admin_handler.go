package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ms19/journal-system/internal/core/domain"
	"github.com/ms19/journal-system/internal/core/ports"
)

// AdminHandler serves the ADMIN-only routes.
type AdminHandler struct {
	users    ports.UserService
	entries  ports.EntryService
	notifier ports.Notifier
}

func NewAdminHandler(users ports.UserService, entries ports.EntryService, notifier ports.Notifier) *AdminHandler {
	return &AdminHandler{users: users, entries: entries, notifier: notifier}
}

// ListUsers handles GET /admin/users.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        email  query     string  false  "Exact email match"
// @Success      200    {object}  Response{data=[]domain.User}
// @Failure      401    {object}  Response
// @Failure      403    {object}  Response
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.users.ListUsers(c.Request().Context(), ports.UserFilter{Email: c.QueryParam("email")})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "users fetched", users)
}

// CreateAdmin handles POST /admin/users.
//
// @Summary      Create an admin user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  Response{data=domain.User}
// @Failure      400   {object}  Response
// @Failure      403   {object}  Response
// @Failure      409   {object}  Response
// @Router       /admin/users [post]
func (h *AdminHandler) CreateAdmin(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.users.RegisterAdmin(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "admin created", user)
}

// GetEntry handles GET /admin/entries/:id. No ownership check.
//
// @Summary      Fetch any entry by id
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Entry id"
// @Success      200  {object}  Response{data=domain.JournalEntry}
// @Failure      403  {object}  Response
// @Failure      404  {object}  Response
// @Router       /admin/entries/{id} [get]
func (h *AdminHandler) GetEntry(c echo.Context) error {
	entry, err := h.entries.FindEntryByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "entry fetched", entry)
}

// SendMail handles POST /admin/mail. Delivery happens in the background.
//
// @Summary      Queue a mail
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      mailRequest  true  "Mail"
// @Success      202   {object}  Response
// @Failure      400   {object}  Response
// @Failure      403   {object}  Response
// @Router       /admin/mail [post]
func (h *AdminHandler) SendMail(c echo.Context) error {
	var req mailRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	h.notifier.Send(c.Request().Context(), domain.Mail{
		To:      req.To,
		Subject: req.Subject,
		Body:    req.Body,
	})
	return respond(c, http.StatusAccepted, "mail queued", nil)
}
