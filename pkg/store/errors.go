package store

import "errors"

// Domain errors surfaced by the store. GORM errors are converted to these
// at the store boundary so callers never depend on the ORM.
var (
	// ErrSessionNotFound indicates no upload session exists for the id.
	ErrSessionNotFound = errors.New("upload session not found")

	// ErrContentNotFound indicates no content record exists for the id.
	ErrContentNotFound = errors.New("content record not found")

	// ErrDuplicateSession indicates an upload session with the same
	// upload id already exists.
	ErrDuplicateSession = errors.New("upload session already exists")

	// ErrDuplicateContent indicates a content record with the same
	// content id already exists.
	ErrDuplicateContent = errors.New("content record already exists")
)
