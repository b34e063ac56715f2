package advocaterepo

import "errors"

var (
	// ErrNotFound indicates the requested advocate does not exist.
	ErrNotFound = errors.New("advocate not found")

	// ErrAlreadyExists indicates an advocate already exists with the provided ID.
	ErrAlreadyExists = errors.New("advocate already exists")
)
