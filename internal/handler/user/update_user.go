package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"tourbase/internal/handler"
	"tourbase/internal/model"
)

// UpdateUser applies an administrative patch to a user. Credential
// fields are stripped before the write.
func (h *Handler) UpdateUser(c *gin.Context) {
	patch := bson.M{}
	if !handler.BindJSON(c, &patch) {
		return
	}

	u, err := h.userService.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, model.Success(gin.H{"user": u}))
}
