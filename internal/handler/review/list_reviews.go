package review

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourbase/internal/model"
)

// ListReviews runs the translated query string against the reviews
// collection, scoped to a tour when reached through the nested route.
func (h *Handler) ListReviews(c *gin.Context) {
	reviews, err := h.reviewService.List(c.Request.Context(), c.Request.URL.Query(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, model.SuccessList(len(reviews), gin.H{"reviews": reviews}))
}
