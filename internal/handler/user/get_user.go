package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourbase/internal/model"
)

// GetUser fetches one user by ID.
func (h *Handler) GetUser(c *gin.Context) {
	u, err := h.userService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, model.Success(gin.H{"user": u}))
}
