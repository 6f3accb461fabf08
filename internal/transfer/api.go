package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/client"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/core"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/gateway"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/models"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/services"

	retry "github.com/appleboy/go-httpretry"
)

// TicketIssuer is the server side of a transfer as seen by the client
type TicketIssuer interface {
	RequestUploadTicket(
		ctx context.Context,
		req services.UploadTicketRequest,
	) (*services.UploadTicket, error)
	RequestDownloadTicket(
		ctx context.Context,
		req services.DownloadTicketRequest,
	) (*services.DownloadTicket, error)
	RecordUpload(ctx context.Context, in services.RecordInput) (*models.Attachment, error)
}

// Ensure APIClient implements TicketIssuer at compile time
var _ TicketIssuer = (*APIClient)(nil)

// APIClientConfig configures how the client reaches the service and who it
// claims to be. Exactly one of UserID and GrantToken should be set.
type APIClientConfig struct {
	BaseURL    string
	UserID     string
	GrantToken string

	UserIDHeader  string // default "X-User-ID"
	GatewayMode   string // none, simple or hmac
	GatewaySecret string

	Timeout    time.Duration
	RetryDelay time.Duration
}

// APIClient calls the attachment API. Ticket requests are retried once;
// recording is not.
type APIClient struct {
	baseURL     string
	httpClient  *http.Client
	retryClient *retry.Client
}

// apiError is the error body every handler writes
type apiError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// NewAPIClient builds the HTTP stack for cfg
func NewAPIClient(cfg APIClientConfig) (*APIClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("api base url is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}

	auth := gateway.NewAuthenticator(cfg.GatewayMode, cfg.GatewaySecret)
	if cfg.UserIDHeader != "" {
		auth.UserIDHeader = cfg.UserIDHeader
	}

	httpClient := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &identityTransport{
			base:       http.DefaultTransport,
			userID:     cfg.UserID,
			grantToken: cfg.GrantToken,
			auth:       auth,
		},
	}

	retryClient, err := client.WrapRetry(httpClient, client.RetryOptions{
		MaxRetries:    1,
		RetryDelay:    cfg.RetryDelay,
		MaxRetryDelay: cfg.RetryDelay,
	})
	if err != nil {
		return nil, err
	}

	return &APIClient{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:  httpClient,
		retryClient: retryClient,
	}, nil
}

// RequestUploadTicket asks for a signed PUT URL
func (c *APIClient) RequestUploadTicket(
	ctx context.Context,
	req services.UploadTicketRequest,
) (*services.UploadTicket, error) {
	var ticket services.UploadTicket
	if err := c.postRetried(ctx, "/api/attachments/upload-ticket", req, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// RequestDownloadTicket asks for a signed GET URL
func (c *APIClient) RequestDownloadTicket(
	ctx context.Context,
	req services.DownloadTicketRequest,
) (*services.DownloadTicket, error) {
	var ticket services.DownloadTicket
	if err := c.postRetried(ctx, "/api/attachments/download-ticket", req, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// RecordUpload binds an uploaded blob to its target. A repeated insert is
// not safe, so this call is never retried.
func (c *APIClient) RecordUpload(
	ctx context.Context,
	in services.RecordInput,
) (*models.Attachment, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/api/attachments", bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}
	defer resp.Body.Close()

	var attachment models.Attachment
	if err := decodeResponse(resp, &attachment); err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (c *APIClient) postRetried(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.retryClient.Post(
		ctx,
		c.baseURL+path,
		retry.WithBody("application/json", bytes.NewReader(body)),
	)
	if err != nil {
		// Connection failures and 5xx after the retry
		return fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

// decodeResponse reads a 2xx body into out or maps an error body to a sentinel
func decodeResponse(resp *http.Response, out any) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", core.ErrStorageUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		_ = json.Unmarshal(body, &apiErr)
		sentinel := core.FromStatus(resp.StatusCode, apiErr.Error)
		if apiErr.ErrorDescription != "" {
			return fmt.Errorf("%w: %s", sentinel, apiErr.ErrorDescription)
		}
		return fmt.Errorf("%w: HTTP %d", sentinel, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: invalid response: %v", core.ErrStorageUnavailable, err)
	}
	return nil
}

// identityTransport asserts the caller on every request, retries included
type identityTransport struct {
	base       http.RoundTripper
	userID     string
	grantToken string
	auth       *gateway.Authenticator
}

func (t *identityTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())

	var body []byte
	if req.Body != nil && req.Body != http.NoBody {
		var err error
		body, err = io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		out.Body = io.NopCloser(bytes.NewReader(body))
		out.ContentLength = int64(len(body))
	}

	switch {
	case t.userID != "":
		out.Header.Set(t.auth.UserIDHeader, t.userID)
		if err := t.auth.Sign(out, body); err != nil {
			return nil, fmt.Errorf("failed to sign request: %w", err)
		}
	case t.grantToken != "":
		out.Header.Set("Authorization", "Bearer "+t.grantToken)
	}

	return t.base.RoundTrip(out)
}
