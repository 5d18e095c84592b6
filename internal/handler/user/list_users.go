package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourbase/internal/model"
)

// ListUsers runs the translated query string against the users
// collection.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, model.SuccessList(len(users), gin.H{"users": users}))
}
