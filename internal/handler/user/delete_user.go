package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DeleteUser hard-deletes a user.
func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.userService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
