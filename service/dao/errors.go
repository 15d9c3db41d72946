package dao

import "errors"

// Common DAO errors, callers detect them with errors.Is.

var (
	// ErrNotFound is returned when the requested resource does not exist in the
	// underlying storage.
	ErrNotFound = errors.New("dao: not found")

	// ErrInvalidURL indicates that the supplied URL is empty or otherwise
	// invalid.
	ErrInvalidURL = errors.New("dao: invalid URL")

	// ErrNilEntity is returned when the caller attempts to persist a nil
	// pointer.
	ErrNilEntity = errors.New("dao: nil entity")

	// ErrAlreadyExists is returned when a save would overwrite an existing resource.
	ErrAlreadyExists = errors.New("dao: already exists")
)
