package idgen

import "github.com/google/uuid"

// NewFunc returns a random (version 4) UUID string
var NewFunc = func() string { return uuid.NewString() }

// New returns a new upload identifier
func New() string { return NewFunc() }

// Fixed returns a generator always yielding id
func Fixed(id string) func() string {
	return func() string { return id }
}
