package tour

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourbase/internal/model"
)

// GetTour fetches one tour with its guides and reviews resolved.
func (h *Handler) GetTour(c *gin.Context) {
	t, err := h.tourService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, model.Success(gin.H{"tour": t}))
}
