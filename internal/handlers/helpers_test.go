package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/auth"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/blob"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/cache"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/gateway"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/metrics"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/middleware"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/models"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/services"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const adminToken = "admin-token"

type testEnv struct {
	router  *gin.Engine
	store   *store.Store
	grants  *services.GrantService
	targets *services.TargetService
	blobs   *blob.FSStore
	audit   *services.AuditService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s, err := store.New("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	m := metrics.NewNoopMetrics()
	audit := services.NewAuditService(s, false, 0)
	grants := services.NewGrantService(
		s, auth.NewLocalAuthProvider(s, bcrypt.MinCost), audit, m, 24*30,
	)
	attachments := services.NewAttachmentService(
		s, cache.NewMemoryCache[[]models.Attachment](), time.Minute, m,
	)
	blobs := blob.NewFSStoreWithFs(afero.NewMemMapFs())
	signer := blob.NewLocalSigner("blob-secret", "http://hub.test")
	transfer := services.NewTransferService(
		s, attachments, grants, signer, blobs, audit, m,
		services.TransferOptions{
			UploadTTL:     10 * time.Minute,
			DownloadTTL:   5 * time.Minute,
			MaxUploadSize: 1 << 20,
		},
	)
	targets := services.NewTargetService(s, audit)

	access := NewAccessHandler(grants)
	attachmentHandler := NewAttachmentHandler(transfer)
	blobHandler := NewBlobHandler(signer, blobs, m, 1<<20)
	admin := NewAdminHandler(grants, targets)
	auditHandler := NewAuditHandler(audit)

	r := gin.New()
	r.Use(middleware.IdentityMiddleware(gateway.NewAuthenticator(gateway.ModeNone, "")))
	r.POST("/access/login", access.Login)
	r.GET("/access/status", access.Status)

	api := r.Group("/api")
	api.POST("/attachments/upload-ticket", attachmentHandler.UploadTicket)
	api.POST("/attachments/download-ticket", attachmentHandler.DownloadTicket)
	api.POST("/attachments", attachmentHandler.Record)
	api.GET("/attachments", attachmentHandler.List)
	api.DELETE("/attachments/:id", attachmentHandler.Delete)
	api.DELETE("/targets/:type/:id/attachments", attachmentHandler.DeleteForTarget)

	r.PUT("/blobs/*path", blobHandler.Put)
	r.GET("/blobs/*path", blobHandler.Get)

	adminGroup := r.Group("/admin", middleware.AdminAuthMiddleware(adminToken))
	adminGroup.POST("/grants", admin.CreateGrant)
	adminGroup.GET("/grants", admin.ListGrants)
	adminGroup.GET("/grants/:id", admin.GetGrant)
	adminGroup.DELETE("/grants/:id", admin.RevokeGrant)
	adminGroup.PUT("/targets/:type/:id", admin.UpsertTarget)
	adminGroup.GET("/audit", auditHandler.ListAuditLogs)
	adminGroup.GET("/audit/export", auditHandler.ExportAuditLogs)

	return &testEnv{router: r, store: s, grants: grants, targets: targets, blobs: blobs, audit: audit}
}

// request describes one call against the test router
type request struct {
	method      string
	path        string
	body        any
	raw         string
	userID      string
	bearer      string
	contentType string
}

func (e *testEnv) do(t *testing.T, r request) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	switch {
	case r.raw != "":
		body = strings.NewReader(r.raw)
	case r.body != nil:
		data, err := json.Marshal(r.body)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(context.Background(), r.method, r.path, body)
	require.NoError(t, err)
	switch {
	case r.contentType != "":
		req.Header.Set("Content-Type", r.contentType)
	case r.body != nil:
		req.Header.Set("Content-Type", "application/json")
	}
	if r.userID != "" {
		req.Header.Set("X-User-ID", r.userID)
	}
	if r.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+r.bearer)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, w)["error"]
}

// blobPath turns a signed URL into the router-relative request path
func blobPath(t *testing.T, signedURL string) string {
	t.Helper()
	u, err := url.Parse(signedURL)
	require.NoError(t, err)
	return u.RequestURI()
}

func (e *testEnv) addTarget(t *testing.T, targetType models.TargetType, id, owner string, v models.Visibility) {
	t.Helper()
	_, err := e.targets.Upsert(context.Background(), targetType, id, owner, v)
	require.NoError(t, err)
}

// uploadVia runs the full HTTP upload and returns the recorded attachment
func (e *testEnv) uploadVia(
	t *testing.T,
	userID string,
	targetType models.TargetType,
	targetID, name, contentType, content string,
) models.Attachment {
	t.Helper()

	w := e.do(t, request{
		method: http.MethodPost,
		path:   "/api/attachments/upload-ticket",
		userID: userID,
		body: services.UploadTicketRequest{
			TargetType:  targetType,
			FileName:    name,
			FileSize:    int64(len(content)),
			ContentType: contentType,
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	ticket := decode[services.UploadTicket](t, w)

	w = e.do(t, request{
		method:      http.MethodPut,
		path:        blobPath(t, ticket.SignedURL),
		raw:         content,
		contentType: contentType,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.do(t, request{
		method: http.MethodPost,
		path:   "/api/attachments",
		userID: userID,
		body: services.RecordInput{
			TargetID:    targetID,
			TargetType:  targetType,
			Name:        name,
			Size:        int64(len(content)),
			ContentType: contentType,
			StoragePath: ticket.StoragePath,
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Attachment](t, w)
}

// loginGrant creates a grant through the admin API and logs in with it
func (e *testEnv) loginGrant(t *testing.T, username, password string, hours int) (string, string) {
	t.Helper()

	w := e.do(t, request{
		method: http.MethodPost,
		path:   "/admin/grants",
		bearer: adminToken,
		body:   gin.H{"username": username, "password": password, "duration_hours": hours},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	grantID := decode[map[string]string](t, w)["id"]

	w = e.do(t, request{
		method: http.MethodPost,
		path:   "/access/login",
		body:   gin.H{"username": username, "password": password},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return grantID, decode[services.GrantSessionResult](t, w).SessionToken
}
