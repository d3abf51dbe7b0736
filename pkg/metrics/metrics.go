// Package metrics defines the instrumentation surface of the upload plane
// and the sweeper. Components depend on this interface; the Prometheus
// implementation lives in pkg/metrics/prometheus so nothing below the ops
// server imports the client library.
package metrics

// Metrics records sweeper and upload-plane activity. Implementations must
// be safe for concurrent use.
type Metrics interface {
	// SweepStarted counts one sweep cycle.
	SweepStarted()

	// SweepDuration records how long a full sweep took, in seconds.
	SweepDuration(seconds float64)

	// PhaseFailed counts a failed sweep phase. Phases are named
	// "reclaim_files", "mark_expired", "hard_delete", "sequence_guard",
	// "reclaim_sessions", "reclaim_orphans", "prune_usage".
	PhaseFailed(phase string)

	// FilesReclaimed counts artifact files removed from disk.
	FilesReclaimed(n int)

	// RecordsMarkedExpired counts content records flagged expired.
	RecordsMarkedExpired(n int64)

	// RecordsHardDeleted counts content records permanently removed.
	RecordsHardDeleted(n int64)

	// SequenceRestarted counts identifier-sequence rewinds.
	SequenceRestarted()

	// SessionsReclaimed counts stale upload sessions removed.
	SessionsReclaimed(n int)

	// ChunkDeleted counts one chunk deletion attempt by outcome
	// ("deleted", "already_absent", "permission_denied",
	// "resource_busy", "unknown").
	ChunkDeleted(outcome string)

	// UsageRowsPruned counts usage-stat rows removed by retention.
	UsageRowsPruned(n int64)
}
