package upload

import "errors"

// Errors returned by the upload core. Most are wrapped with additional
// context, so callers should test with errors.Is.
var (
	// ErrInvalidParameters indicates a missing or malformed input: an empty
	// upload id, a missing session manifest, a negative chunk count, or an
	// empty path. Surfaced before any filesystem access.
	ErrInvalidParameters = errors.New("invalid parameters")

	// ErrMissingChunk indicates assembly found a chunk absent or unreadable.
	// The wrapping error names only the chunk index, never a filesystem path.
	ErrMissingChunk = errors.New("chunk not found")

	// ErrPathOutsideStorage indicates a persisted path resolved outside the
	// configured storage root. The message is deliberately generic: the
	// offending path is never echoed.
	ErrPathOutsideStorage = errors.New("path outside storage root")
)
