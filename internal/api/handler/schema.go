package handler

import "github.com/ms19/journal-system/internal/core/domain"

// --- Entries ---

type createEntryRequest struct {
	Title   string `json:"title"   validate:"max=200"`
	Content string `json:"content" validate:"max=100000"`
}

type updateEntryRequest struct {
	Title   *string `json:"title"   validate:"omitempty,max=200"`
	Content *string `json:"content" validate:"omitempty,max=100000"`
}

// --- Users ---

type registerRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=72"`
	Email    string `json:"email"    validate:"omitempty,email"`
}

type updateProfileRequest struct {
	Username *string `json:"username" validate:"omitempty,max=64"`
	Password *string `json:"password" validate:"omitempty,max=72"`
	Email    *string `json:"email"    validate:"omitempty,email"`
}

// --- Auth ---

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// --- Admin ---

type mailRequest struct {
	To      string `json:"to"      validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Body    string `json:"body"    validate:"required"`
}

// --- Collaborators ---

type greetingResponse struct {
	Greeting string                  `json:"greeting"`
	Weather  *domain.WeatherSnapshot `json:"weather,omitempty"`
}

type chatRequest struct {
	Prompt string `json:"prompt" validate:"required,max=8000"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}
