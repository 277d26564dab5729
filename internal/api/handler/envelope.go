package handler

import (
	"github.com/labstack/echo/v4"
)

// Response is the envelope every API result is written in, success or failure.
type Response struct {
	Status  int     `json:"status"`
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Error   *string `json:"error"`
	Data    any     `json:"data"`
}

func respond(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Response{
		Status:  status,
		Success: true,
		Message: message,
		Data:    data,
	})
}

// WriteError renders a failure envelope. Data is always null.
func WriteError(c echo.Context, status int, message, cause string) error {
	return c.JSON(status, Response{
		Status:  status,
		Success: false,
		Message: message,
		Error:   &cause,
	})
}
