package blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/core"

	retry "github.com/appleboy/go-httpretry"
)

// Ensure HTTPSigner implements core.BlobSigner at compile time
var _ core.BlobSigner = (*HTTPSigner)(nil)

// HTTPSigner delegates URL signing to an external object-storage service
type HTTPSigner struct {
	apiURL      string
	retryClient *retry.Client
}

// NewHTTPSigner creates a signer that POSTs to apiURL + "/sign"
func NewHTTPSigner(apiURL string, retryClient *retry.Client) *HTTPSigner {
	return &HTTPSigner{
		apiURL:      strings.TrimRight(apiURL, "/"),
		retryClient: retryClient,
	}
}

// APISignRequest is the request payload for the signing API
type APISignRequest struct {
	Path        string `json:"path"`
	Method      string `json:"method"`
	ContentType string `json:"content_type,omitempty"`
	ExpiresIn   int    `json:"expires_in"` // seconds
}

// APISignResponse is the expected response from the signing API
type APISignResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	Message string `json:"message,omitempty"`
}

// SignPut asks the signing API for an upload URL
func (s *HTTPSigner) SignPut(
	ctx context.Context,
	path, contentType string,
	ttl time.Duration,
) (string, error) {
	return s.sign(ctx, APISignRequest{
		Path:        path,
		Method:      http.MethodPut,
		ContentType: contentType,
		ExpiresIn:   int(ttl.Seconds()),
	})
}

// SignGet asks the signing API for a download URL
func (s *HTTPSigner) SignGet(ctx context.Context, path string, ttl time.Duration) (string, error) {
	return s.sign(ctx, APISignRequest{
		Path:      path,
		Method:    http.MethodGet,
		ExpiresIn: int(ttl.Seconds()),
	})
}

// Name returns signer name for logging
func (s *HTTPSigner) Name() string {
	return "http_api"
}

func (s *HTTPSigner) sign(ctx context.Context, reqBody APISignRequest) (string, error) {
	clean, err := CleanPath(reqBody.Path)
	if err != nil {
		return "", err
	}
	reqBody.Path = clean

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := s.retryClient.Post(
		ctx,
		s.apiURL+"/sign",
		retry.WithBody("application/json", bytes.NewBuffer(jsonData)),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSignerConnection, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response", ErrSignerInvalidResp)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", handleSignError(body, resp.StatusCode)
	}

	var apiResp APISignResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSignerInvalidResp, err)
	}
	if !apiResp.Success {
		return "", fmt.Errorf("%w: %s", ErrSignerRejected, apiResp.Message)
	}
	if apiResp.URL == "" {
		return "", fmt.Errorf(
			"%w: signing API returned success=true but missing url",
			ErrSignerInvalidResp,
		)
	}
	return apiResp.URL, nil
}

// handleSignError turns a non-2xx reply into a wrapped sentinel
func handleSignError(body []byte, status int) error {
	var apiResp APISignResponse
	if err := json.Unmarshal(body, &apiResp); err == nil && apiResp.Message != "" {
		return fmt.Errorf("%w: HTTP %d - %s", ErrSignerRejected, status, apiResp.Message)
	}
	bodyPreview := string(body)
	if len(bodyPreview) > 200 {
		bodyPreview = bodyPreview[:200] + "..."
	}
	return fmt.Errorf("%w: HTTP %d - %s", ErrSignerInvalidResp, status, bodyPreview)
}
