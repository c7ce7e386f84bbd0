package middleware

import (
	"net/http"
	"strings"

	"github.com/folio-dev/folio/pkg/jwt"
	"github.com/folio-dev/folio/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MetricsAuthMiddleware protects the metrics endpoint with a static bearer
// token. An empty token leaves the endpoint open.
func MetricsAuthMiddleware(validToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if validToken == "" {
			c.Next()
			return
		}

		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" || !jwt.TimingSafeCompare(token, validToken) {
			logger.Warn("Invalid metrics token",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing metrics token"})
			c.Abort()
			return
		}

		c.Next()
	}
}
