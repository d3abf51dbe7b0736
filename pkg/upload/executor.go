// Package upload implements the chunked-upload core: an admission-bounded
// task executor, chunk completeness validation, chunk-to-artifact assembly,
// and best-effort chunk cleanup.
//
// Chunks live at {storageRoot}/chunks/{uploadID}/chunk_{index} and are
// always addressed by computed index; the chunk directory is never listed.
//
// Nothing in this package locks a chunk directory against concurrent
// mutation: running Clean while Assemble is mid-read on the same upload id
// is a caller error. Callers must serialize mutating operations per upload.
package upload

import "sync"

// Concurrency ceilings for chunk operations.
const (
	// ReadParallelism bounds concurrent chunk reads during assembly.
	ReadParallelism = 5

	// DeleteParallelism bounds concurrent chunk probes and deletions.
	DeleteParallelism = 10
)

// Executor runs submitted tasks with a fixed ceiling on concurrent
// executions. Submissions beyond the ceiling block until a slot frees, so
// tasks begin in submission order; completion order is unconstrained and
// callers must never depend on it.
//
// There is no priority, cancellation, or timeout: a submitted task always
// runs to completion, and one task's failure has no effect on the others.
type Executor struct {
	sem      chan struct{}
	inFlight sync.WaitGroup
}

// NewExecutor creates an Executor that runs at most limit tasks at once.
// Panics if limit < 1.
func NewExecutor(limit int) *Executor {
	if limit < 1 {
		panic("upload: executor limit must be at least 1")
	}
	return &Executor{sem: make(chan struct{}, limit)}
}

// Submit schedules task and returns a channel that receives its result
// exactly once. Submit blocks while all slots are busy; callers submitting
// from a single goroutine therefore get FIFO admission.
func (e *Executor) Submit(task func() error) <-chan error {
	done := make(chan error, 1)

	e.sem <- struct{}{}
	e.inFlight.Add(1)

	go func() {
		defer func() {
			<-e.sem
			e.inFlight.Done()
		}()

		done <- task()
	}()

	return done
}

// Wait blocks until every task submitted so far has settled.
func (e *Executor) Wait() {
	e.inFlight.Wait()
}

// Limit returns the concurrency ceiling.
func (e *Executor) Limit() int {
	return cap(e.sem)
}
