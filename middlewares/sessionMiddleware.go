package middlewares

import (
	"strings"

	"bitbucket.org/balancepmi/balance_backend/models"
	"bitbucket.org/balancepmi/balance_backend/utils"
	"github.com/gin-gonic/gin"
)

// SessionMiddleware resolves the session token from the session_token cookie
// or, failing that, an Authorization bearer header. Requests with a missing
// or invalid token proceed unauthenticated; route handlers decide whether
// the endpoint requires a user.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		userID, err := models.ResolveSession(c.Request.Context(), token)
		if err != nil {
			c.Next()
			return
		}

		ctx := utils.SetTokenInContext(c.Request.Context(), token)
		ctx = utils.SetUserIdInContext(ctx, userID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie("session_token"); err == nil && cookie != "" {
		return cookie
	}
	auth := c.Request.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
