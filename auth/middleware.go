package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserIDKey is where the middleware stores the authenticated user id in
// the gin context.
const UserIDKey = "user_id"

// Middleware validates the Bearer token on incoming requests and
// injects the caller's identity for downstream handlers. Routes behind
// it never see an unauthenticated request.
func Middleware(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token is missing"})
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims, err := tokens.Validate(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

// ActorID returns the authenticated user id set by Middleware.
func ActorID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
