// Package handler holds helpers shared by the per-resource handler
// packages.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tourbase/internal/pkg/apperror"
)

// BindJSON binds the request body and funnels failures to the error
// handler. Returns false when the caller should stop.
func BindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			_ = c.Error(err)
		} else {
			_ = c.Error(apperror.Wrap(http.StatusBadRequest, "invalid request body", err))
		}
		return false
	}
	return true
}
