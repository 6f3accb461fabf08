package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// MetricsAuthMiddleware protects the metrics endpoint with a Bearer token.
// With no token configured the endpoint is open.
func MetricsAuthMiddleware(token string) gin.HandlerFunc {
	if token == "" {
		return func(c *gin.Context) { c.Next() }
	}
	return bearerAuth(token, "Metrics")
}

// AdminAuthMiddleware protects the admin API with a Bearer token. With no
// token configured every admin request is rejected.
func AdminAuthMiddleware(token string) gin.HandlerFunc {
	if token == "" {
		return func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":             "forbidden",
				"error_description": "Admin API is disabled",
			})
		}
	}
	return bearerAuth(token, "Admin")
}

func bearerAuth(token, realm string) gin.HandlerFunc {
	challenge := `Bearer realm="` + realm + `"`

	return func(c *gin.Context) {
		provided, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Header("WWW-Authenticate", challenge)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":             "unauthenticated",
				"error_description": "Bearer token required",
			})
			return
		}

		// Constant-time comparison to prevent timing attacks
		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			c.Header("WWW-Authenticate", challenge)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":             "unauthenticated",
				"error_description": "Invalid token",
			})
			return
		}

		c.Next()
	}
}

// bearerToken extracts the credential of a "Bearer <token>" header
func bearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(header, "Bearer "), true
}
