package storage

import "errors"

var (
	// ErrNotFound indicates the requested key does not exist.
	ErrNotFound = errors.New("storage: key not found")

	// ErrPermissionDenied indicates the key exists but cannot be accessed.
	ErrPermissionDenied = errors.New("storage: permission denied")

	// ErrInvalidKey indicates an empty, absolute or escaping key.
	ErrInvalidKey = errors.New("storage: invalid key")
)
