package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// pollutionAllowList names the only query fields where repeated values
// are meaningful (multi-value filters). Everything else collapses to
// the last occurrence.
var pollutionAllowList = map[string]bool{
	"duration":        true,
	"ratingsQuantity": true,
	"ratingsAverage":  true,
	"maxGroupSize":    true,
	"difficulty":      true,
	"price":           true,
}

// PreventParamPollution collapses repeated query keys to their last
// occurrence unless the field is allow-listed.
func PreventParamPollution() gin.HandlerFunc {
	return func(c *gin.Context) {
		values := c.Request.URL.Query()
		changed := false

		for key, vals := range values {
			if len(vals) <= 1 {
				continue
			}
			if pollutionAllowList[baseField(key)] {
				continue
			}
			values[key] = vals[len(vals)-1:]
			changed = true
		}

		if changed {
			c.Request.URL.RawQuery = values.Encode()
		}
		c.Next()
	}
}

// baseField strips a comparison suffix: "duration[gte]" -> "duration".
func baseField(key string) string {
	if open := strings.IndexByte(key, '['); open >= 0 {
		return key[:open]
	}
	return key
}
