package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ms19/journal-system/internal/core/domain"
	"github.com/ms19/journal-system/internal/core/ports"
)

// EntryHandler serves the owner-scoped journal entry routes.
type EntryHandler struct {
	service ports.EntryService
}

func NewEntryHandler(service ports.EntryService) *EntryHandler {
	return &EntryHandler{service: service}
}

// Create handles POST /entries.
//
// @Summary      Create a journal entry
// @Tags         entries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createEntryRequest  true  "Entry"
// @Success      201   {object}  Response{data=domain.JournalEntry}
// @Failure      400   {object}  Response
// @Failure      401   {object}  Response
// @Failure      404   {object}  Response
// @Router       /entries [post]
func (h *EntryHandler) Create(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createEntryRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	entry, err := h.service.CreateEntry(c.Request().Context(), ports.CreateEntryInput{
		Title:   req.Title,
		Content: req.Content,
	}, principal)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "entry created", entry)
}

// List handles GET /entries.
//
// @Summary      List the caller's journal entries
// @Tags         entries
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Response{data=[]domain.JournalEntry}
// @Failure      401  {object}  Response
// @Failure      404  {object}  Response
// @Router       /entries [get]
func (h *EntryHandler) List(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	entries, err := h.service.ListEntries(c.Request().Context(), principal)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "entries fetched", entries)
}

// Get handles GET /entries/:id.
//
// @Summary      Get one of the caller's journal entries
// @Tags         entries
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Entry id"
// @Success      200  {object}  Response{data=domain.JournalEntry}
// @Failure      401  {object}  Response
// @Failure      404  {object}  Response
// @Router       /entries/{id} [get]
func (h *EntryHandler) Get(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	entry, err := h.service.GetEntry(c.Request().Context(), c.Param("id"), principal)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "entry fetched", entry)
}

// Update handles PUT /entries/:id. Absent or blank fields keep their value.
//
// @Summary      Update one of the caller's journal entries
// @Tags         entries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Entry id"
// @Param        body  body      updateEntryRequest  true  "Fields to change"
// @Success      200   {object}  Response{data=domain.JournalEntry}
// @Failure      400   {object}  Response
// @Failure      401   {object}  Response
// @Failure      404   {object}  Response
// @Router       /entries/{id} [put]
func (h *EntryHandler) Update(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req updateEntryRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	entry, err := h.service.UpdateEntry(c.Request().Context(), c.Param("id"), domain.EntryPatch{
		Title:   req.Title,
		Content: req.Content,
	}, principal)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "entry updated", entry)
}

// Delete handles DELETE /entries/:id.
//
// @Summary      Delete one of the caller's journal entries
// @Tags         entries
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Entry id"
// @Success      200  {object}  Response{data=domain.JournalEntry}
// @Failure      401  {object}  Response
// @Failure      404  {object}  Response
// @Router       /entries/{id} [delete]
func (h *EntryHandler) Delete(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	entry, err := h.service.DeleteEntry(c.Request().Context(), c.Param("id"), principal)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "entry deleted", entry)
}
