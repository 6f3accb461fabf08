package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSetIPContext(t *testing.T) {
	tests := []struct {
		name     string
		ip       string
		expected string
	}{
		{name: "Valid IP", ip: "192.168.1.1", expected: "192.168.1.1"},
		{name: "IPv6", ip: "2001:db8::1", expected: "2001:db8::1"},
		{name: "Empty IP", ip: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := SetIPContext(context.Background(), tt.ip)
			assert.Equal(t, tt.expected, GetIPFromContext(ctx))
		})
	}
}

func TestGetIPFromGinContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "10.0.0.7:51234"

	assert.Equal(t, "10.0.0.7", GetIPFromContext(c))
}
