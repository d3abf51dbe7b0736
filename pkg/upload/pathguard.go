package upload

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolveUnder resolves path to its absolute cleaned form and verifies it
// stays under base. It returns ErrPathOutsideStorage when either argument
// is empty or the resolved path escapes base; the offending path is never
// part of the error.
//
// The prefix check appends a path separator to base so that a sibling like
// /storageX can never pass for /storage.
//
// Apply this to every path read back from persisted state. Paths freshly
// derived from a known-good upload id via ChunkPath do not need it.
func ResolveUnder(path, base string) (string, error) {
	if path == "" || base == "" {
		return "", ErrPathOutsideStorage
	}

	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", ErrPathOutsideStorage
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", ErrPathOutsideStorage
	}

	if absPath != absBase && !strings.HasPrefix(absPath, absBase+string(os.PathSeparator)) {
		return "", ErrPathOutsideStorage
	}

	return absPath, nil
}
