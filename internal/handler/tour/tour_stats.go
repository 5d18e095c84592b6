package tour

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourbase/internal/model"
)

// TourStats aggregates rating and price figures per difficulty.
func (h *Handler) TourStats(c *gin.Context) {
	stats, err := h.tourService.Stats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, model.Success(gin.H{"stats": stats}))
}
