package tour

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"tourbase/internal/handler"
	"tourbase/internal/model"
)

// UpdateTour applies a partial patch to a tour.
func (h *Handler) UpdateTour(c *gin.Context) {
	patch := bson.M{}
	if !handler.BindJSON(c, &patch) {
		return
	}

	t, err := h.tourService.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, model.Success(gin.H{"tour": t}))
}
