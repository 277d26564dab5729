package domain

import "errors"

var ErrForbidden = errors.New("access forbidden")
var ErrValidation = errors.New("validation failed")
var ErrInvalidToken = errors.New("invalid token")
var ErrTokenRevoked = errors.New("token revoked")

// ErrUpstream marks a failed call to an external collaborator (weather, chat, identity provider).
var ErrUpstream = errors.New("upstream service failure")

// ErrNotConfigured is returned when an optional collaborator has no settings.
var ErrNotConfigured = errors.New("feature not configured")
