package review

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tourbase/internal/handler"
	"tourbase/internal/model"
	reviewModel "tourbase/internal/model/review"
	"tourbase/internal/pkg/apperror"
	"tourbase/internal/server/middleware"
)

// CreateReviewRequest carries the review text and rating. The tour
// comes from the route, the author from the session; neither can be
// forged through the body.
type CreateReviewRequest struct {
	Review string  `json:"review"`
	Rating float64 `json:"rating"`
}

// CreateReview posts a review on the tour from the nested route,
// authored by the authenticated user.
func (h *Handler) CreateReview(c *gin.Context) {
	var req CreateReviewRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	tourID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		_ = c.Error(apperror.BadRequest("invalid ID: " + c.Param("id")))
		return
	}

	author, _ := middleware.CurrentUser(c)
	rev := &reviewModel.Review{
		Review: req.Review,
		Rating: req.Rating,
		Tour:   tourID,
		User:   author.ID,
	}

	if err := h.reviewService.Create(c.Request.Context(), rev); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, model.Success(gin.H{"review": rev}))
}
