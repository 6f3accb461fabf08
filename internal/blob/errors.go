package blob

import (
	"errors"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/core"
)

var (
	// ErrPathTraversal indicates a blob path that would escape the storage root
	ErrPathTraversal = errors.New("blob path escapes storage root")

	// ErrBlobNotFound indicates no blob exists at the path
	ErrBlobNotFound = core.ErrBlobNotFound

	// ErrBlobExists indicates a blob was already written to the path
	ErrBlobExists = errors.New("blob already exists")

	// ErrBlobTooLarge indicates an upload body exceeded the configured limit
	ErrBlobTooLarge = errors.New("blob exceeds maximum upload size")

	// ErrInvalidSignature indicates a signed URL failed verification
	ErrInvalidSignature = errors.New("invalid blob signature")

	// ErrExpiredSignature indicates a signed URL is past its expiry
	ErrExpiredSignature = errors.New("blob signature expired")

	// ErrSignatureScope indicates a valid signature used for a different path or method
	ErrSignatureScope = errors.New("blob signature does not cover this request")

	// HTTP API signer errors

	// ErrSignerConnection indicates failed connection to the signing API
	ErrSignerConnection = errors.New("failed to connect to blob signing API")

	// ErrSignerRejected indicates the signing API refused the request
	ErrSignerRejected = errors.New("blob signing API rejected request")

	// ErrSignerInvalidResp indicates an unparseable response from the signing API
	ErrSignerInvalidResp = errors.New("invalid response from blob signing API")
)
