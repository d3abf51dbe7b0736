package upload

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// chunkPart pairs a chunk index with its content so parts collected in
// completion order can be re-sorted before concatenation.
type chunkPart struct {
	index int
	data  []byte
}

// Assemble reads every chunk of an upload with bounded concurrency,
// concatenates the contents in index order, and writes the result to
// outputPath in a single operation, creating the parent directory if
// absent.
//
// All four inputs are required and the manifest must carry a positive
// chunk count; otherwise Assemble fails with ErrInvalidParameters before
// touching the filesystem.
//
// The guarantee is all-or-nothing: if any chunk is missing or unreadable
// the whole call fails with ErrMissingChunk and outputPath is left
// untouched. Chunk errors name only the failing index, never a resolved
// filesystem path. Re-running Assemble against the same outputPath fully
// overwrites it, so a prior interrupted or partial output is corrected by
// re-running.
//
// Returns outputPath on success.
func Assemble(uploadID string, manifest *Manifest, storageRoot, outputPath string) (string, error) {
	if uploadID == "" || storageRoot == "" || outputPath == "" {
		return "", fmt.Errorf("%w: upload id, storage root and output path are required", ErrInvalidParameters)
	}
	if manifest == nil || manifest.TotalChunks <= 0 {
		return "", fmt.Errorf("%w: session manifest with a positive chunk count is required", ErrInvalidParameters)
	}

	total := manifest.TotalChunks
	exec := NewExecutor(ReadParallelism)
	parts := make(chan chunkPart, total)
	outcomes := make([]<-chan error, 0, total)

	for i := 0; i < total; i++ {
		idx := i
		outcomes = append(outcomes, exec.Submit(func() error {
			path := ChunkPath(storageRoot, uploadID, idx)

			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("chunk %d: %w", idx, ErrMissingChunk)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", idx, ErrMissingChunk)
			}

			parts <- chunkPart{index: idx, data: data}
			return nil
		}))
	}

	// Let every read settle before deciding; completion order is free.
	var firstErr error
	for _, ch := range outcomes {
		if err := <-ch; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return "", firstErr
	}
	close(parts)

	// Parts arrive in completion order; restore index order before joining.
	ordered := make([]chunkPart, 0, total)
	for part := range parts {
		ordered = append(ordered, part)
	}
	sort.Slice(ordered, func(a, b int) bool { return ordered[a].index < ordered[b].index })

	var size int
	for _, part := range ordered {
		size += len(part.data)
	}
	artifact := make([]byte, 0, size)
	for _, part := range ordered {
		artifact = append(artifact, part.data...)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, artifact, 0644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}

	return outputPath, nil
}
