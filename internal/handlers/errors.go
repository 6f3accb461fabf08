package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/core"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

// respondError writes the JSON error body for err. Server-side failures are
// logged and described generically.
func respondError(c *gin.Context, err error) {
	status, code := core.StatusOf(err)

	description := err.Error()
	if status >= http.StatusInternalServerError {
		log.Printf("[API] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		description = "The service is temporarily unavailable"
		if status == http.StatusInternalServerError {
			description = "Internal server error"
		}
	}

	c.JSON(status, gin.H{
		"error":             code,
		"error_description": description,
	})
}

// respondBadRequest rejects a malformed request body or query
func respondBadRequest(c *gin.Context, description string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":             "invalid_request",
		"error_description": description,
	})
}

// requestContext carries the client IP into the audit log
func requestContext(c *gin.Context) context.Context {
	return util.SetIPContext(c.Request.Context(), c.ClientIP())
}
