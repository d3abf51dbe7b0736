package upload

import (
	"fmt"
	"os"
)

// ChunkStatus is the probe result for a single chunk index.
type ChunkStatus struct {
	Index     int    `json:"index"`
	Exists    bool   `json:"exists"`
	SizeBytes int64  `json:"sizeBytes"`
	Path      string `json:"path"`
	Error     string `json:"error,omitempty"`
}

// Report summarizes chunk completeness for one upload. Every index in
// [0, TotalChunks) appears exactly once in Chunks and in exactly one of
// the existing/missing tallies.
type Report struct {
	Complete       bool          `json:"complete"`
	TotalChunks    int           `json:"totalChunks"`
	ExistingCount  int           `json:"existingCount"`
	MissingCount   int           `json:"missingCount"`
	MissingIndices []int         `json:"missingIndices"`
	TotalSizeBytes int64         `json:"totalSizeBytes"`
	Chunks         []ChunkStatus `json:"chunks"`
}

// Validate probes existence and size of every expected chunk of an upload,
// bounded by DeleteParallelism concurrent stats. It is read-only and never
// fails on a missing chunk: a probe failure is recorded on the chunk's
// status with Exists false and the error string. The returned error covers
// invalid inputs only.
//
// A totalChunks of zero is trivially complete.
func Validate(uploadID string, totalChunks int, storageRoot string) (*Report, error) {
	if uploadID == "" || storageRoot == "" {
		return nil, fmt.Errorf("%w: upload id and storage root are required", ErrInvalidParameters)
	}
	if totalChunks < 0 {
		return nil, fmt.Errorf("%w: total chunks must not be negative", ErrInvalidParameters)
	}

	report := &Report{
		TotalChunks:    totalChunks,
		MissingIndices: []int{},
		Chunks:         make([]ChunkStatus, totalChunks),
	}

	if totalChunks == 0 {
		report.Complete = true
		return report, nil
	}

	exec := NewExecutor(DeleteParallelism)
	for i := 0; i < totalChunks; i++ {
		idx := i
		exec.Submit(func() error {
			status := ChunkStatus{
				Index: idx,
				Path:  ChunkPath(storageRoot, uploadID, idx),
			}

			info, err := os.Stat(status.Path)
			switch {
			case err != nil:
				status.Error = err.Error()
			case info.IsDir():
				status.Error = "chunk is a directory"
			default:
				status.Exists = true
				status.SizeBytes = info.Size()
			}

			// Each probe owns a distinct element, so no lock is needed.
			report.Chunks[idx] = status
			return nil
		})
	}
	exec.Wait()

	// Chunks is index-ordered, so MissingIndices comes out ascending.
	for _, c := range report.Chunks {
		if c.Exists {
			report.ExistingCount++
			report.TotalSizeBytes += c.SizeBytes
		} else {
			report.MissingCount++
			report.MissingIndices = append(report.MissingIndices, c.Index)
		}
	}
	report.Complete = report.MissingCount == 0

	return report, nil
}
