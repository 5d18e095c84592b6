package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tourbase/internal/model"
	"tourbase/internal/model/user"
)

// currentUserKey is the gin context key for the resolved actor.
const currentUserKey = "current_user"

// Authenticator resolves the actor behind an access token.
type Authenticator interface {
	CurrentUser(ctx context.Context, token string) (*user.User, error)
}

// Protect is the authentication stage of the access gate: it resolves
// the caller's identity from the Bearer token and rejects requests
// whose token is absent, invalid, or predates a password change.
func Protect(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				model.Fail(http.StatusUnauthorized, "you are not logged in, please log in to get access"))
			return
		}

		u, err := auth.CurrentUser(c.Request.Context(), token)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(currentUserKey, u)
		c.Next()
	}
}

// RestrictTo is the authorization stage: it permits only actors whose
// role is in the given set. Must run after Protect.
func RestrictTo(roles ...user.Role) gin.HandlerFunc {
	allowed := make(map[user.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok || !allowed[u.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden,
				model.Fail(http.StatusForbidden, "you do not have permission to perform this action"))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the actor resolved by Protect.
func CurrentUser(c *gin.Context) (*user.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*user.User)
	return u, ok
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
