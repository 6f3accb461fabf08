package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/config"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/core"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/models"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/store"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/transfer"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type liveServer struct {
	app *Application
	url string
}

// startLiveServer runs the full application on a loopback listener, with
// signed blob URLs pointing back at it
func startLiveServer(t *testing.T, mutate func(*config.Config)) *liveServer {
	t.Helper()

	srv := httptest.NewUnstartedServer(nil)
	baseURL := "http://" + srv.Listener.Addr().String()

	cfg := testConfig(t)
	cfg.BlobPublicURL = baseURL
	if mutate != nil {
		mutate(cfg)
	}

	app, err := New(context.Background(), cfg)
	require.NoError(t, err)

	srv.Config.Handler = app.Router
	srv.Start()
	t.Cleanup(func() {
		srv.Close()
		shutdownApp(t, app)
	})

	return &liveServer{app: app, url: baseURL}
}

func (s *liveServer) admin(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(context.Background(), method, s.url+path, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.app.Config.AdminToken)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (s *liveServer) client(t *testing.T, cfg transfer.APIClientConfig) *transfer.APIClient {
	t.Helper()
	cfg.BaseURL = s.url
	c, err := transfer.NewAPIClient(cfg)
	require.NoError(t, err)
	return c
}

// grantToken creates a grant and signs in with it
func (s *liveServer) grantToken(t *testing.T, username, password string) (string, string) {
	t.Helper()

	resp := s.admin(t, http.MethodPost, "/admin/grants", map[string]any{
		"username": username, "password": password, "duration_hours": 2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	login, err := http.Post(s.url+"/access/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer login.Body.Close()
	require.Equal(t, http.StatusOK, login.StatusCode)

	var session struct {
		SessionToken string `json:"session_token"`
	}
	require.NoError(t, json.NewDecoder(login.Body).Decode(&session))
	return created.ID, session.SessionToken
}

func TestTransferEndToEnd(t *testing.T) {
	s := startLiveServer(t, func(c *config.Config) {
		c.GatewayAuthMode = config.GatewayAuthModeHMAC
		c.GatewayAuthSecret = "gw-secret"
	})

	resp := s.admin(t, http.MethodPut, "/admin/targets/app/a1", map[string]string{
		"owner_id": "owner-1", "visibility": "private",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	owner := transfer.NewOrchestrator(
		s.client(t, transfer.APIClientConfig{
			UserID: "owner-1", GatewayMode: config.GatewayAuthModeHMAC, GatewaySecret: "gw-secret",
		}),
		transfer.WithSaver(transfer.NewFileSaver(afero.NewMemMapFs(), "/downloads")),
	)

	content := "attachment body"
	attachment, result, err := owner.Upload(context.Background(), transfer.File{
		Name:        "notes.txt",
		ContentType: "text/plain",
		Size:        int64(len(content)),
		Body:        strings.NewReader(content),
	}, transfer.Target{Type: models.TargetApp, ID: "a1"})
	require.NoError(t, err)
	assert.Equal(t, transfer.StateRecorded, result.State)
	assert.Equal(t, attachment.StoragePath, result.StoragePath)
	assert.Equal(t, "owner-1", attachment.CreatedBy)

	saveDir := afero.NewMemMapFs()
	ownerDownload := transfer.NewOrchestrator(
		s.client(t, transfer.APIClientConfig{
			UserID: "owner-1", GatewayMode: config.GatewayAuthModeHMAC, GatewaySecret: "gw-secret",
		}),
		transfer.WithSaver(transfer.NewFileSaver(saveDir, "/downloads")),
	)
	result, err = ownerDownload.Download(
		context.Background(), attachment.StoragePath, "notes.txt", models.TargetApp, "",
	)
	require.NoError(t, err)
	assert.Equal(t, transfer.StateSaved, result.State)
	assert.Equal(t, int64(len(content)), result.Bytes)
	saved, err := afero.ReadFile(saveDir, "/downloads/notes.txt")
	require.NoError(t, err)
	assert.Equal(t, content, string(saved))

	// A stranger is denied the ticket and falls back to the public link
	var opened []string
	stranger := transfer.NewOrchestrator(
		s.client(t, transfer.APIClientConfig{
			UserID: "stranger-2", GatewayMode: config.GatewayAuthModeHMAC, GatewaySecret: "gw-secret",
		}),
		transfer.WithSaver(transfer.NewFileSaver(afero.NewMemMapFs(), "/downloads")),
		transfer.WithOpener(transfer.OpenerFunc(func(_ context.Context, url string) error {
			opened = append(opened, url)
			return nil
		})),
	)
	result, err = stranger.Download(
		context.Background(), attachment.StoragePath, "notes.txt", models.TargetApp, "https://hub.example/apps/a1",
	)
	require.NoError(t, err)
	assert.Equal(t, transfer.StateFallbackOpened, result.State)
	assert.Equal(t, []string{"https://hub.example/apps/a1"}, opened)

	// Without a fallback the same denial is a download failure
	result, err = stranger.Download(
		context.Background(), attachment.StoragePath, "notes.txt", models.TargetApp, "",
	)
	require.ErrorIs(t, err, core.ErrDownloadFailed)
	require.ErrorIs(t, err, core.ErrForbidden)
	assert.Equal(t, transfer.StateFailed, result.State)
}

func TestTransferEndToEndGrantHolder(t *testing.T) {
	s := startLiveServer(t, nil)

	resp := s.admin(t, http.MethodPut, "/admin/targets/prompt/p1", map[string]string{
		"owner_id": "owner-1", "visibility": "private",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	owner := transfer.NewOrchestrator(s.client(t, transfer.APIClientConfig{UserID: "owner-1"}))
	attachment, _, err := owner.Upload(context.Background(), transfer.File{
		Name:        "prompt.md",
		ContentType: "text/markdown",
		Size:        3,
		Body:        strings.NewReader("# p"),
	}, transfer.Target{Type: models.TargetPrompt, ID: "p1"})
	require.NoError(t, err)

	grantID, token := s.grantToken(t, "guest", "pw123")
	guest := transfer.NewOrchestrator(
		s.client(t, transfer.APIClientConfig{GrantToken: token}),
		transfer.WithSaver(transfer.NewFileSaver(afero.NewMemMapFs(), "/downloads")),
	)

	result, err := guest.Download(context.Background(), attachment.StoragePath, "prompt.md", models.TargetPrompt, "")
	require.NoError(t, err)
	assert.Equal(t, transfer.StateSaved, result.State)

	// Grant holders read but never write
	_, result, err = guest.Upload(context.Background(), transfer.File{
		Name:        "x.txt",
		ContentType: "text/plain",
		Size:        1,
		Body:        strings.NewReader("x"),
	}, transfer.Target{Type: models.TargetPrompt, ID: "p1"})
	require.ErrorIs(t, err, core.ErrUploadFailed)
	require.ErrorIs(t, err, core.ErrForbidden)
	assert.Equal(t, transfer.StateTicketDenied, result.State)

	resp = s.admin(t, http.MethodDelete, "/admin/grants/"+grantID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, err = guest.Download(context.Background(), attachment.StoragePath, "prompt.md", models.TargetPrompt, "")
	require.ErrorIs(t, err, core.ErrDownloadFailed)
	require.ErrorIs(t, err, core.ErrForbidden)
}

func TestTransferEndToEndAuditTrail(t *testing.T) {
	s := startLiveServer(t, nil)

	resp := s.admin(t, http.MethodPut, "/admin/targets/app/a1", map[string]string{
		"owner_id": "owner-1", "visibility": "public",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	owner := transfer.NewOrchestrator(s.client(t, transfer.APIClientConfig{UserID: "owner-1"}))
	_, _, err := owner.Upload(context.Background(), transfer.File{
		Name:        "a.txt",
		ContentType: "text/plain",
		Size:        1,
		Body:        strings.NewReader("a"),
	}, transfer.Target{Type: models.TargetApp, ID: "a1"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), s.app.Config.AuditShutdownTimeout)
	defer cancel()
	require.NoError(t, s.app.AuditService.Shutdown(ctx))

	logs, _, err := s.app.AuditService.GetAuditLogs(
		store.NewPaginationParams(1, 50, ""),
		store.AuditLogFilters{EventType: models.EventAttachmentRecorded},
	)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "owner-1", logs[0].ActorID)
}
