package core

import (
	"errors"
	"net/http"
)

// errorKind pairs an error sentinel with its wire code and HTTP status
type errorKind struct {
	err    error
	code   string
	status int
}

var errorKinds = []errorKind{
	{ErrUnauthenticated, "unauthenticated", http.StatusUnauthorized},
	{ErrInvalidCredentials, "invalid_credentials", http.StatusUnauthorized},
	{ErrForbidden, "forbidden", http.StatusForbidden},
	{ErrDuplicateUsername, "duplicate_username", http.StatusConflict},
	{ErrBlobNotFound, "blob_not_found", http.StatusConflict},
	{ErrStorageUnavailable, "storage_unavailable", http.StatusServiceUnavailable},
	{ErrInvalidUpload, "invalid_upload", http.StatusBadRequest},
	{ErrInvalidGrant, "invalid_grant", http.StatusBadRequest},
	{ErrGrantNotFound, "grant_not_found", http.StatusNotFound},
	{ErrAttachmentNotFound, "attachment_not_found", http.StatusNotFound},
}

// StatusOf returns the HTTP status and wire code for err. Unknown errors
// are reported as server_error.
func StatusOf(err error) (int, string) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.status, k.code
		}
	}
	return http.StatusInternalServerError, "server_error"
}

// FromStatus maps an error response back to a sentinel. The wire code wins;
// the status decides when the code is unknown.
func FromStatus(status int, code string) error {
	for _, k := range errorKinds {
		if k.code == code {
			return k.err
		}
	}
	switch status {
	case http.StatusUnauthorized:
		return ErrUnauthenticated
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusBadRequest:
		return ErrInvalidUpload
	case http.StatusNotFound:
		return ErrAttachmentNotFound
	case http.StatusConflict:
		return ErrBlobNotFound
	}
	return ErrStorageUnavailable
}
