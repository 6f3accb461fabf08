package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/core"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/gateway"

	"github.com/gin-gonic/gin"
)

const callerKey = "caller"

// IdentityMiddleware resolves the caller of each request. A user id header is
// trusted only once the gateway proof verifies; a Bearer token is taken as a
// grant session token. Requests with neither continue with no caller.
func IdentityMiddleware(auth *gateway.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetHeader(auth.UserIDHeader); userID != "" {
			if err := auth.Verify(c.Request); err != nil {
				log.Printf("[Identity] Rejected %s header from %s: %v", auth.UserIDHeader, c.ClientIP(), err)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":             "unauthenticated",
					"error_description": "Identity assertion could not be verified",
				})
				return
			}
			c.Set(callerKey, core.Caller(core.RegisteredUser{UserID: userID}))
			c.Next()
			return
		}

		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if token = strings.TrimSpace(token); token != "" {
				c.Set(callerKey, core.Caller(core.GrantHolder{Token: token}))
			}
		}
		c.Next()
	}
}

// GetCaller returns the caller resolved by IdentityMiddleware, or nil
func GetCaller(c *gin.Context) core.Caller {
	v, ok := c.Get(callerKey)
	if !ok {
		return nil
	}
	caller, _ := v.(core.Caller)
	return caller
}
