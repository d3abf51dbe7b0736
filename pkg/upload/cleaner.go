package upload

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"
)

// DeleteOutcome classifies the result of one file deletion attempt.
type DeleteOutcome string

const (
	OutcomeDeleted          DeleteOutcome = "deleted"
	OutcomeAlreadyAbsent    DeleteOutcome = "already-absent"
	OutcomePermissionDenied DeleteOutcome = "permission-denied"
	OutcomeResourceBusy     DeleteOutcome = "resource-busy"
	OutcomeUnknown          DeleteOutcome = "unknown"
)

// Succeeded reports whether the outcome counts as a successful removal.
// Already-absent is success: the goal state holds either way.
func (o DeleteOutcome) Succeeded() bool {
	return o == OutcomeDeleted || o == OutcomeAlreadyAbsent
}

// ClassifyRemove maps the error of an os.Remove call to a DeleteOutcome.
func ClassifyRemove(err error) DeleteOutcome {
	switch {
	case err == nil:
		return OutcomeDeleted
	case os.IsNotExist(err):
		return OutcomeAlreadyAbsent
	case os.IsPermission(err):
		return OutcomePermissionDenied
	case errors.Is(err, syscall.EBUSY):
		return OutcomeResourceBusy
	default:
		return OutcomeUnknown
	}
}

// DeleteResult records the outcome of one chunk deletion attempt.
type DeleteResult struct {
	Index   int           `json:"index"`
	Path    string        `json:"path"`
	Outcome DeleteOutcome `json:"outcome"`
	Error   string        `json:"error,omitempty"`
}

// CleanupReport aggregates per-chunk deletion outcomes for one upload.
// Successful + Failed always equals TotalChunks.
type CleanupReport struct {
	TotalChunks int            `json:"totalChunks"`
	Successful  int            `json:"successful"`
	Failed      int            `json:"failed"`
	DurationMs  float64        `json:"durationMs"`
	Results     []DeleteResult `json:"results"`
}

// Clean deletes every chunk of an upload with bounded concurrency.
// Deletion is best-effort: each chunk's outcome is independent and partial
// success is a normal result, not an error. The returned error covers
// invalid inputs only.
//
// After all deletes, if at least one succeeded, Clean attempts to remove
// the now-possibly-empty chunk directory; that removal is non-critical and
// never alters the reported counts.
//
// A totalChunks of zero is a trivial success with no filesystem activity.
func Clean(uploadID string, totalChunks int, storageRoot string) (*CleanupReport, error) {
	if uploadID == "" || storageRoot == "" {
		return nil, fmt.Errorf("%w: upload id and storage root are required", ErrInvalidParameters)
	}
	if totalChunks < 0 {
		return nil, fmt.Errorf("%w: total chunks must not be negative", ErrInvalidParameters)
	}

	start := time.Now()
	report := &CleanupReport{
		TotalChunks: totalChunks,
		Results:     []DeleteResult{},
	}

	if totalChunks == 0 {
		return report, nil
	}

	exec := NewExecutor(DeleteParallelism)
	results := make([]DeleteResult, totalChunks)

	for i := 0; i < totalChunks; i++ {
		idx := i
		exec.Submit(func() error {
			path := ChunkPath(storageRoot, uploadID, idx)
			err := os.Remove(path)

			result := DeleteResult{
				Index:   idx,
				Path:    path,
				Outcome: ClassifyRemove(err),
			}
			if err != nil && !result.Outcome.Succeeded() {
				result.Error = err.Error()
			}

			results[idx] = result
			return nil
		})
	}
	exec.Wait()

	report.Results = results
	for _, r := range results {
		if r.Outcome.Succeeded() {
			report.Successful++
		} else {
			report.Failed++
		}
	}

	// Best-effort: the directory may legitimately be non-empty when some
	// deletes failed, and its removal is not part of the reported counts.
	if report.Successful > 0 {
		_ = os.Remove(ChunkDir(storageRoot, uploadID))
	}

	report.DurationMs = float64(time.Since(start).Microseconds()) / 1000.0

	return report, nil
}
