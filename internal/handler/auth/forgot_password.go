package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourbase/internal/handler"
	"tourbase/internal/model"
)

// ForgotPasswordRequest identifies the account to reset.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword issues a one-time reset token. The raw token leaves
// the process for delivery; only its hash is stored.
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	token, err := h.authService.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp := &model.Response{Status: "success", Message: "token sent to email"}
	if h.debug {
		resp.Data = gin.H{"resetToken": token}
	}
	c.JSON(http.StatusOK, resp)
}
