package client

import (
	"fmt"
	"net/http"
	"time"

	httpclient "github.com/appleboy/go-httpclient"
	retry "github.com/appleboy/go-httpretry"
)

// RetryOptions bounds how often and how patiently a request is retried
type RetryOptions struct {
	MaxRetries    int
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
}

// AuthOptions configures service-to-service authentication
type AuthOptions struct {
	Mode               string // "none", "simple", or "hmac"
	Secret             string
	HeaderName         string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// CreateRetryClient creates an HTTP client with retry support and authentication.
// It is used for calls to the external blob signing API.
func CreateRetryClient(auth AuthOptions, opts RetryOptions) (*retry.Client, error) {
	client, err := httpclient.NewAuthClient(
		auth.Mode,
		auth.Secret,
		httpclient.WithTimeout(auth.Timeout),
		httpclient.WithHeaderName(auth.HeaderName),
		httpclient.WithInsecureSkipVerify(auth.InsecureSkipVerify),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth client: %w", err)
	}
	return WrapRetry(client, opts)
}

// WrapRetry adds retry behaviour to an existing http.Client
func WrapRetry(client *http.Client, opts RetryOptions) (*retry.Client, error) {
	retryClient, err := retry.NewRealtimeClient(
		retry.WithHTTPClient(client),
		retry.WithMaxRetries(opts.MaxRetries),
		retry.WithInitialRetryDelay(opts.RetryDelay),
		retry.WithMaxRetryDelay(opts.MaxRetryDelay),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create retry client: %w", err)
	}
	return retryClient, nil
}
