package tour

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourbase/internal/handler"
	"tourbase/internal/model"
	tourModel "tourbase/internal/model/tour"
)

// CreateTour validates and persists a new tour.
func (h *Handler) CreateTour(c *gin.Context) {
	var t tourModel.Tour
	if !handler.BindJSON(c, &t) {
		return
	}

	if err := h.tourService.Create(c.Request.Context(), &t); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, model.Success(gin.H{"tour": &t}))
}
