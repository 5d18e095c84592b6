package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourbase/internal/handler"
	"tourbase/internal/model"
)

// ResetPasswordRequest carries the replacement password.
type ResetPasswordRequest struct {
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// ResetPassword consumes the raw token from the URL and sets a new
// password, logging the user straight in.
func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	u, token, err := h.authService.ResetPassword(c.Request.Context(), c.Param("token"), req.Password, req.PasswordConfirm)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, model.Success(gin.H{"user": u}).WithToken(token))
}
