package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaxBodySize caps request bodies at 10KB, rejected before parsing.
const MaxBodySize = 10 << 10

// BodyLimit bounds every request body. Reads past the cap fail with
// *http.MaxBytesError, which the error funnel maps to a 413.
func BodyLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodySize)
		}
		c.Next()
	}
}
