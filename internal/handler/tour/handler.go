// Package tour exposes tour CRUD, the top-tours preset and aggregate
// statistics over HTTP.
package tour

import (
	"tourbase/internal/service"
)

// Handler routes tour operations to the tour service.
type Handler struct {
	tourService *service.TourService
}

// NewHandler creates a tour handler.
func NewHandler(tourService *service.TourService) *Handler {
	return &Handler{
		tourService: tourService,
	}
}
