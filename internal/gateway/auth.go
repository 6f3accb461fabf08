package gateway

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Authentication mode constants
const (
	ModeNone   = "none"   // Identity header is trusted as-is
	ModeSimple = "simple" // Shared secret in a header
	ModeHMAC   = "hmac"   // HMAC-SHA256 over the request and the asserted identity
)

const (
	defaultSecretHeader    = "X-API-Secret"
	defaultSignatureHeader = "X-Signature"
	defaultTimestampHeader = "X-Timestamp"
	defaultNonceHeader     = "X-Nonce"
	defaultUserIDHeader    = "X-User-ID"
	defaultMaxAge          = 5 * time.Minute
)

var (
	ErrMissingSecret     = errors.New("gateway: secret is required")
	ErrMissingHeaders    = errors.New("gateway: missing authentication headers")
	ErrSecretMismatch    = errors.New("gateway: secret mismatch")
	ErrSignatureMismatch = errors.New("gateway: signature verification failed")
	ErrTimestampExpired  = errors.New("gateway: request timestamp expired")
)

// Authenticator proves, and verifies, that an identity header was set by the
// upstream identity layer rather than by the end client.
type Authenticator struct {
	Mode            string
	Secret          string
	SecretHeader    string // simple mode (default: "X-API-Secret")
	SignatureHeader string // hmac mode (default: "X-Signature")
	TimestampHeader string // hmac mode (default: "X-Timestamp")
	NonceHeader     string // hmac mode (default: "X-Nonce")
	UserIDHeader    string // identity header bound into the signature (default: "X-User-ID")
	MaxAge          time.Duration

	now func() time.Time
}

// NewAuthenticator creates an Authenticator with default header names
func NewAuthenticator(mode, secret string) *Authenticator {
	return &Authenticator{
		Mode:            mode,
		Secret:          secret,
		SecretHeader:    defaultSecretHeader,
		SignatureHeader: defaultSignatureHeader,
		TimestampHeader: defaultTimestampHeader,
		NonceHeader:     defaultNonceHeader,
		UserIDHeader:    defaultUserIDHeader,
		MaxAge:          defaultMaxAge,
		now:             time.Now,
	}
}

// Sign adds the proof headers for the configured mode. body must be the exact
// bytes that will be sent.
func (a *Authenticator) Sign(req *http.Request, body []byte) error {
	if a == nil || a.Mode == ModeNone || a.Mode == "" {
		return nil
	}

	switch a.Mode {
	case ModeSimple:
		if a.Secret == "" {
			return ErrMissingSecret
		}
		req.Header.Set(orDefault(a.SecretHeader, defaultSecretHeader), a.Secret)
		return nil
	case ModeHMAC:
		if a.Secret == "" {
			return ErrMissingSecret
		}
		timestamp := a.clock().Unix()
		signature := a.signature(
			timestamp,
			req.Method,
			fullPath(req),
			req.Header.Get(orDefault(a.UserIDHeader, defaultUserIDHeader)),
			body,
		)
		req.Header.Set(orDefault(a.SignatureHeader, defaultSignatureHeader), signature)
		req.Header.Set(
			orDefault(a.TimestampHeader, defaultTimestampHeader),
			strconv.FormatInt(timestamp, 10),
		)
		req.Header.Set(orDefault(a.NonceHeader, defaultNonceHeader), uuid.New().String())
		return nil
	default:
		return fmt.Errorf("unsupported gateway auth mode: %s", a.Mode)
	}
}

// Verify checks the proof headers on an incoming request. The body is
// restored so later handlers can read it.
func (a *Authenticator) Verify(req *http.Request) error {
	if a == nil || a.Mode == ModeNone || a.Mode == "" {
		return nil
	}

	switch a.Mode {
	case ModeSimple:
		if a.Secret == "" {
			return ErrMissingSecret
		}
		got := req.Header.Get(orDefault(a.SecretHeader, defaultSecretHeader))
		if got == "" {
			return ErrMissingHeaders
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(a.Secret)) != 1 {
			return ErrSecretMismatch
		}
		return nil
	case ModeHMAC:
		return a.verifyHMAC(req)
	default:
		return fmt.Errorf("unsupported gateway auth mode: %s", a.Mode)
	}
}

func (a *Authenticator) verifyHMAC(req *http.Request) error {
	if a.Secret == "" {
		return ErrMissingSecret
	}

	signature := req.Header.Get(orDefault(a.SignatureHeader, defaultSignatureHeader))
	timestampStr := req.Header.Get(orDefault(a.TimestampHeader, defaultTimestampHeader))
	if signature == "" || timestampStr == "" {
		return ErrMissingHeaders
	}

	timestamp, err := strconv.ParseInt(timestampStr, 10, 64)
	if err != nil {
		return fmt.Errorf("gateway: invalid timestamp: %w", err)
	}

	maxAge := a.MaxAge
	if maxAge == 0 {
		maxAge = defaultMaxAge
	}
	age := a.clock().Sub(time.Unix(timestamp, 0))
	if age > maxAge || age < -maxAge {
		return ErrTimestampExpired
	}

	var body []byte
	if req.Body != nil {
		body, err = io.ReadAll(req.Body)
		if err != nil {
			return fmt.Errorf("gateway: failed to read body: %w", err)
		}
		req.Body = io.NopCloser(bytes.NewBuffer(body))
	}

	expected := a.signature(
		timestamp,
		req.Method,
		fullPath(req),
		req.Header.Get(orDefault(a.UserIDHeader, defaultUserIDHeader)),
		body,
	)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return ErrSignatureMismatch
	}
	return nil
}

// signature is HMAC-SHA256(secret, timestamp + method + path + userID + body)
func (a *Authenticator) signature(
	timestamp int64,
	method, path, userID string,
	body []byte,
) string {
	message := fmt.Sprintf("%d%s%s%s%s", timestamp, method, path, userID, body)
	h := hmac.New(sha256.New, []byte(a.Secret))
	h.Write([]byte(message))
	return hex.EncodeToString(h.Sum(nil))
}

func (a *Authenticator) clock() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now()
}

// fullPath returns the request path including query parameters
func fullPath(req *http.Request) string {
	if req.URL.RawQuery != "" {
		return req.URL.Path + "?" + req.URL.RawQuery
	}
	return req.URL.Path
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
