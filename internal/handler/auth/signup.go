package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourbase/internal/handler"
	"tourbase/internal/model"
	"tourbase/internal/model/user"
)

// SignupRequest carries the fields a new account starts from. Role is
// deliberately absent; every signup starts as a plain user.
type SignupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Photo           string `json:"photo"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// Signup creates an account and logs it in.
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	u := &user.User{
		Name:            req.Name,
		Email:           req.Email,
		Photo:           req.Photo,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	}

	token, err := h.authService.Signup(c.Request.Context(), u)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, model.Success(gin.H{"user": u}).WithToken(token))
}
