package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/core"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/gateway"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resolve runs req through IdentityMiddleware and returns the caller a
// handler would see
func resolve(
	t *testing.T,
	auth *gateway.Authenticator,
	req *http.Request,
) (core.Caller, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var seen core.Caller
	r := gin.New()
	r.Use(IdentityMiddleware(auth))
	r.POST("/api", func(c *gin.Context) {
		seen = GetCaller(c)
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return seen, w
}

func newAPIRequest(body string) *http.Request {
	req, _ := http.NewRequestWithContext(
		context.Background(), http.MethodPost, "/api", strings.NewReader(body),
	)
	return req
}

func TestIdentity_NoCredentials(t *testing.T) {
	caller, w := resolve(t, gateway.NewAuthenticator(gateway.ModeNone, ""), newAPIRequest(""))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Nil(t, caller)
}

func TestIdentity_TrustedHeader(t *testing.T) {
	req := newAPIRequest("")
	req.Header.Set("X-User-ID", "u1")

	caller, _ := resolve(t, gateway.NewAuthenticator(gateway.ModeNone, ""), req)
	assert.Equal(t, core.RegisteredUser{UserID: "u1"}, caller)
}

func TestIdentity_BearerIsGrantHolder(t *testing.T) {
	req := newAPIRequest("")
	req.Header.Set("Authorization", "Bearer session-token")

	caller, _ := resolve(t, gateway.NewAuthenticator(gateway.ModeHMAC, "s"), req)
	assert.Equal(t, core.GrantHolder{Token: "session-token"}, caller)
}

func TestIdentity_EmptyBearerIsAnonymous(t *testing.T) {
	req := newAPIRequest("")
	req.Header.Set("Authorization", "Bearer   ")

	caller, w := resolve(t, gateway.NewAuthenticator(gateway.ModeNone, ""), req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Nil(t, caller)
}

func TestIdentity_SimpleSecret(t *testing.T) {
	auth := gateway.NewAuthenticator(gateway.ModeSimple, "gw-secret")

	forged := newAPIRequest("")
	forged.Header.Set("X-User-ID", "u1")
	caller, w := resolve(t, auth, forged)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, caller)

	proven := newAPIRequest("")
	proven.Header.Set("X-User-ID", "u1")
	proven.Header.Set("X-API-Secret", "gw-secret")
	caller, w = resolve(t, auth, proven)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, core.RegisteredUser{UserID: "u1"}, caller)
}

func TestIdentity_HMACSignature(t *testing.T) {
	auth := gateway.NewAuthenticator(gateway.ModeHMAC, "gw-secret")
	body := `{"target_type":"app"}`

	req := newAPIRequest(body)
	req.Header.Set("X-User-ID", "u1")
	require.NoError(t, auth.Sign(req, []byte(body)))

	caller, w := resolve(t, auth, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, core.RegisteredUser{UserID: "u1"}, caller)

	// Same proof, different asserted user
	tampered := newAPIRequest(body)
	tampered.Header = req.Header.Clone()
	tampered.Header.Set("X-User-ID", "admin")
	caller, w = resolve(t, auth, tampered)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, caller)
}
