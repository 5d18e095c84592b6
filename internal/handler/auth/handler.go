// Package auth exposes signup, login and the password lifecycle over
// HTTP.
package auth

import (
	"tourbase/internal/service"
)

// Handler routes credential operations to the auth service.
type Handler struct {
	authService *service.AuthService
	debug       bool
}

// NewHandler creates an auth handler. In debug mode the forgot-password
// endpoint echoes the raw reset token in the response body instead of
// relying on out-of-band delivery.
func NewHandler(authService *service.AuthService, debug bool) *Handler {
	return &Handler{
		authService: authService,
		debug:       debug,
	}
}
