// Package user exposes self-service account endpoints and the admin
// user CRUD over HTTP.
package user

import (
	"tourbase/internal/service"
)

// Handler routes account operations to the user service.
type Handler struct {
	userService *service.UserService
}

// NewHandler creates a user handler.
func NewHandler(userService *service.UserService) *Handler {
	return &Handler{
		userService: userService,
	}
}
