package tour

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DeleteTour removes a tour.
func (h *Handler) DeleteTour(c *gin.Context) {
	if err := h.tourService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
