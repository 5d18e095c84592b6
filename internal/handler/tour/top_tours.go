package tour

import (
	"net/url"

	"github.com/gin-gonic/gin"
)

// AliasTopTours rewrites the query string to the canonical
// five-cheapest-of-the-best preset before the list handler runs.
func AliasTopTours() gin.HandlerFunc {
	return func(c *gin.Context) {
		preset := url.Values{
			"limit":  {"5"},
			"sort":   {"-ratingsAverage,price"},
			"fields": {"name,price,ratingsAverage,summary,difficulty"},
		}
		c.Request.URL.RawQuery = preset.Encode()
		c.Next()
	}
}
