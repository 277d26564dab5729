package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ms19/journal-system/internal/core/ports"
)

type ChatHandler struct {
	model ports.ChatModel
}

func NewChatHandler(model ports.ChatModel) *ChatHandler {
	return &ChatHandler{model: model}
}

// Chat handles POST /ai/chat.
//
// @Summary      Ask the chat model
// @Tags         collaborators
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      chatRequest  true  "Prompt"
// @Success      200   {object}  Response{data=chatResponse}
// @Failure      400   {object}  Response
// @Failure      502   {object}  Response
// @Failure      503   {object}  Response
// @Router       /ai/chat [post]
func (h *ChatHandler) Chat(c echo.Context) error {
	var req chatRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	reply, err := h.model.Complete(c.Request().Context(), req.Prompt)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "reply generated", chatResponse{Reply: reply})
}
