// Package review exposes review reads and writes, nested under tours.
package review

import (
	"tourbase/internal/service"
)

// Handler routes review operations to the review service.
type Handler struct {
	reviewService *service.ReviewService
}

// NewHandler creates a review handler.
func NewHandler(reviewService *service.ReviewService) *Handler {
	return &Handler{
		reviewService: reviewService,
	}
}
