package tour

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourbase/internal/model"
)

// ListTours runs the translated query string against the tours
// collection.
func (h *Handler) ListTours(c *gin.Context) {
	tours, err := h.tourService.List(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, model.SuccessList(len(tours), gin.H{"tours": tours}))
}
