package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Sanitize strips operator-injection payloads (keys opening with the
// store's reserved control character or containing a path separator)
// and defuses script injection in string values, for both the query
// string and the JSON body, before any handler sees the request.
func Sanitize() gin.HandlerFunc {
	return func(c *gin.Context) {
		sanitizeQuery(c.Request)

		if hasJSONBody(c.Request) {
			if err := sanitizeBody(c.Request); err != nil {
				// Oversized bodies surface here as *http.MaxBytesError;
				// the error funnel maps them to a 413.
				_ = c.Error(err)
				c.Abort()
				return
			}
		}
		c.Next()
	}
}

func sanitizeQuery(r *http.Request) {
	values := r.URL.Query()
	changed := false

	for key, vals := range values {
		if injectionKey(key) {
			delete(values, key)
			changed = true
			continue
		}
		for i, v := range vals {
			if clean := escapeScript(v); clean != v {
				vals[i] = clean
				changed = true
			}
		}
	}

	if changed {
		r.URL.RawQuery = values.Encode()
	}
}

func sanitizeBody(r *http.Request) error {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	_ = r.Body.Close()

	if len(bytes.TrimSpace(raw)) == 0 {
		r.Body = io.NopCloser(bytes.NewReader(raw))
		return nil
	}

	// Unparseable bodies are the handler's problem; binding rejects
	// them with a proper 400.
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		r.Body = io.NopCloser(bytes.NewReader(raw))
		return nil
	}

	cleaned, err := json.Marshal(CleanValue(payload))
	if err != nil {
		r.Body = io.NopCloser(bytes.NewReader(raw))
		return nil
	}

	r.Body = io.NopCloser(bytes.NewReader(cleaned))
	r.ContentLength = int64(len(cleaned))
	return nil
}

// CleanValue recursively removes injection keys from maps and escapes
// script payloads in strings.
func CleanValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for key, inner := range val {
			if injectionKey(key) {
				delete(val, key)
				continue
			}
			val[key] = CleanValue(inner)
		}
		return val
	case []any:
		for i, inner := range val {
			val[i] = CleanValue(inner)
		}
		return val
	case string:
		return escapeScript(val)
	default:
		return v
	}
}

// injectionKey reports whether a key could smuggle a store operator.
func injectionKey(key string) bool {
	return strings.HasPrefix(key, "$") || strings.Contains(key, ".")
}

var scriptEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

func escapeScript(s string) string {
	return scriptEscaper.Replace(s)
}

func hasJSONBody(r *http.Request) bool {
	if r.Body == nil || r.Body == http.NoBody {
		return false
	}
	ct := r.Header.Get("Content-Type")
	return strings.Contains(ct, "application/json")
}
