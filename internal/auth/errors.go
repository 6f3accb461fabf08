package auth

import (
	"errors"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/core"
)

var (
	// ErrInvalidCredentials is shared with core so callers can match either
	ErrInvalidCredentials = core.ErrInvalidCredentials

	// ErrEmptyPassword is returned when hashing an empty password
	ErrEmptyPassword = errors.New("password must not be empty")
)
