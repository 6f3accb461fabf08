package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

const testToken = "test-secret-token-123"

func serveWith(mw gin.HandlerFunc, authHeader string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/protected", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestMetricsAuthMiddleware_NoAuthConfigured(t *testing.T) {
	w := serveWith(MetricsAuthMiddleware(""), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestMetricsAuthMiddleware_ValidToken(t *testing.T) {
	w := serveWith(MetricsAuthMiddleware(testToken), "Bearer "+testToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsAuthMiddleware_InvalidToken(t *testing.T) {
	w := serveWith(MetricsAuthMiddleware(testToken), "Bearer wrong-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token")
	assert.Equal(t, `Bearer realm="Metrics"`, w.Header().Get("WWW-Authenticate"))
}

func TestMetricsAuthMiddleware_NoAuthProvided(t *testing.T) {
	w := serveWith(MetricsAuthMiddleware(testToken), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Bearer token required")
}

func TestMetricsAuthMiddleware_WrongAuthScheme(t *testing.T) {
	w := serveWith(MetricsAuthMiddleware(testToken), "Basic dGVzdDp0ZXN0")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Bearer token required")
}

func TestAdminAuthMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		header string
		want   int
	}{
		{"valid", testToken, "Bearer " + testToken, http.StatusOK},
		{"wrong token", testToken, "Bearer nope", http.StatusUnauthorized},
		{"empty bearer", testToken, "Bearer ", http.StatusUnauthorized},
		{"missing header", testToken, "", http.StatusUnauthorized},
		{"admin disabled", "", "Bearer anything", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveWith(AdminAuthMiddleware(tt.token), tt.header)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusUnauthorized {
				assert.Equal(t, `Bearer realm="Admin"`, w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}
