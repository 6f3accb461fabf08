package blob

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/core"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SignatureParam is the query parameter carrying the signed grant
const SignatureParam = "signature"

// Ensure LocalSigner implements core.BlobSigner at compile time
var _ core.BlobSigner = (*LocalSigner)(nil)

// Grant is the verified content of a signed blob URL
type Grant struct {
	Path        string
	Method      string
	ContentType string
	ExpiresAt   time.Time
}

// LocalSigner mints HS256-signed URLs served by this process's /blobs endpoint
type LocalSigner struct {
	secret  []byte
	baseURL string
	now     func() time.Time
}

// NewLocalSigner creates a signer whose URLs point at baseURL + "/blobs/"
func NewLocalSigner(secret, baseURL string) *LocalSigner {
	return &LocalSigner{
		secret:  []byte(secret),
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

// SignPut returns a URL that accepts one PUT of contentType at path
func (s *LocalSigner) SignPut(
	ctx context.Context,
	path, contentType string,
	ttl time.Duration,
) (string, error) {
	return s.sign(path, http.MethodPut, contentType, ttl)
}

// SignGet returns a URL that serves the blob at path
func (s *LocalSigner) SignGet(ctx context.Context, path string, ttl time.Duration) (string, error) {
	return s.sign(path, http.MethodGet, "", ttl)
}

// Name returns signer name for logging
func (s *LocalSigner) Name() string {
	return "local"
}

func (s *LocalSigner) sign(path, method, contentType string, ttl time.Duration) (string, error) {
	clean, err := CleanPath(path)
	if err != nil {
		return "", err
	}
	if ttl <= 0 {
		return "", fmt.Errorf("invalid signature ttl: %s", ttl)
	}

	now := s.now()
	claims := jwt.MapClaims{
		"path":   clean,
		"method": method,
		"exp":    now.Add(ttl).Unix(),
		"iat":    now.Unix(),
		"jti":    uuid.New().String(),
	}
	if contentType != "" {
		claims["content_type"] = contentType
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign blob url: %w", err)
	}

	return fmt.Sprintf("%s/blobs/%s?%s=%s",
		s.baseURL,
		escapePath(clean),
		SignatureParam,
		url.QueryEscape(signed),
	), nil
}

// Verify checks that signature was minted by this signer for method on path
func (s *LocalSigner) Verify(signature, method, path string) (*Grant, error) {
	if signature == "" {
		return nil, ErrInvalidSignature
	}

	token, err := jwt.Parse(
		signature,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredSignature
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSignature
	}

	signedPath, _ := claims["path"].(string)
	signedMethod, _ := claims["method"].(string)
	contentType, _ := claims["content_type"].(string)
	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, ErrInvalidSignature
	}

	if signedPath != path || signedMethod != method {
		return nil, ErrSignatureScope
	}

	return &Grant{
		Path:        signedPath,
		Method:      signedMethod,
		ContentType: contentType,
		ExpiresAt:   time.Unix(int64(exp), 0),
	}, nil
}

// escapePath escapes each segment but keeps the separators
func escapePath(p string) string {
	segs := strings.Split(p, "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return strings.Join(segs, "/")
}
