package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourbase/internal/handler"
	"tourbase/internal/model"
)

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and returns a fresh access token.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	u, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, model.Success(gin.H{"user": u}).WithToken(token))
}
