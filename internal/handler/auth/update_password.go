package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourbase/internal/handler"
	"tourbase/internal/model"
	"tourbase/internal/server/middleware"
)

// UpdatePasswordRequest carries a password change for a logged-in user.
type UpdatePasswordRequest struct {
	PasswordCurrent string `json:"passwordCurrent"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// UpdatePassword changes the authenticated user's password after
// checking the current one, then reissues the token.
func (h *Handler) UpdatePassword(c *gin.Context) {
	var req UpdatePasswordRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	u, _ := middleware.CurrentUser(c)
	token, err := h.authService.UpdatePassword(c.Request.Context(), u, req.PasswordCurrent, req.Password, req.PasswordConfirm)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, model.Success(gin.H{"user": u}).WithToken(token))
}
