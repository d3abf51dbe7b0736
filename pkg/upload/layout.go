package upload

import (
	"fmt"
	"path/filepath"
)

// chunksDirName is the storage-root subdirectory holding all per-upload
// chunk directories.
const chunksDirName = "chunks"

// ChunkDir returns the directory holding every chunk of one upload:
// {storageRoot}/chunks/{uploadID}.
func ChunkDir(storageRoot, uploadID string) string {
	return filepath.Join(storageRoot, chunksDirName, uploadID)
}

// ChunkPath returns the location of a single chunk:
// {storageRoot}/chunks/{uploadID}/chunk_{index}.
//
// The index is an unpadded base-10 integer, so lexicographic filename order
// diverges from index order past nine chunks. That is harmless only while
// chunks are addressed by computed index; any enumeration of the directory
// would need a numeric sort.
func ChunkPath(storageRoot, uploadID string, index int) string {
	return filepath.Join(ChunkDir(storageRoot, uploadID), fmt.Sprintf("chunk_%d", index))
}
