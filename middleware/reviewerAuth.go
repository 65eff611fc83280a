package middleware

import (
	"net/http"
	"strings"

	"appointly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReviewerAuthMiddleware requires an HS256 bearer token signed with secret.
// An empty secret lets every request through.
func ReviewerAuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(secret) == 0 {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		reviewerID, err := utils.ExtractIDFromToken(secret, tokenString)
		if err != nil {
			zap.L().Warn("Rejected reviewer token", zap.String("ip", getClientIP(c)), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized reviewer access"})
			return
		}

		c.Set("reviewerID", reviewerID)
		c.Next()
	}
}
