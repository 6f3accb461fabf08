package store

import "errors"

var (
	// ErrUsernameConflict is returned when a grant username already exists
	ErrUsernameConflict = errors.New("username already exists")

	// ErrStoragePathConflict is returned when an attachment path is recorded twice
	ErrStoragePathConflict = errors.New("storage path already recorded")

	// ErrRecordNotFound wraps GORM's not found error for consistency
	ErrRecordNotFound = errors.New("record not found")
)
