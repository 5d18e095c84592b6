package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourbase/internal/handler"
	"tourbase/internal/model"
	"tourbase/internal/server/middleware"
)

// UpdateMeRequest carries the profile fields a user may change about
// themselves. Password changes go through /update-password.
type UpdateMeRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo"`
}

// GetMe returns the authenticated user's own account.
func (h *Handler) GetMe(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, model.Success(gin.H{"user": u}))
}

// UpdateMe changes the authenticated user's profile fields.
func (h *Handler) UpdateMe(c *gin.Context) {
	var req UpdateMeRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	u, _ := middleware.CurrentUser(c)
	updated, err := h.userService.UpdateMe(c.Request.Context(), u, req.Name, req.Email, req.Photo)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, model.Success(gin.H{"user": updated}))
}

// DeleteMe deactivates the authenticated user's account. The document
// stays in the collection but disappears from every read.
func (h *Handler) DeleteMe(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	if err := h.userService.DeactivateMe(c.Request.Context(), u); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
