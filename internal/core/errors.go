package core

import "errors"

// Error kinds shared by the server and the transfer client. Handlers map them
// to HTTP statuses and the transfer client maps statuses back.
var (
	// ErrUnauthenticated indicates the request carried no caller identity
	ErrUnauthenticated = errors.New("authentication required")

	// ErrInvalidCredentials is returned for both unknown usernames and wrong passwords
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrForbidden indicates the caller is known but may not act on the target
	ErrForbidden = errors.New("access to this target is forbidden")

	// ErrDuplicateUsername indicates an access grant with the username already exists
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrStorageUnavailable indicates the blob signer or row store failed
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrUploadFailed is the single error surfaced by a failed client upload
	ErrUploadFailed = errors.New("upload failed")

	// ErrDownloadFailed is surfaced by a failed client download with no fallback
	ErrDownloadFailed = errors.New("download failed")

	// ErrInvalidUpload indicates a malformed upload ticket or record request
	ErrInvalidUpload = errors.New("invalid upload request")

	// ErrInvalidGrant indicates a malformed access grant definition
	ErrInvalidGrant = errors.New("invalid access grant")

	// ErrGrantNotFound indicates no access grant with the given id
	ErrGrantNotFound = errors.New("access grant not found")

	// ErrAttachmentNotFound indicates no attachment with the given id
	ErrAttachmentNotFound = errors.New("attachment not found")

	// ErrBlobNotFound indicates the uploaded bytes are not present in blob storage
	ErrBlobNotFound = errors.New("blob not found")
)
