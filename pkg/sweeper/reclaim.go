package sweeper

import (
	"context"
	"time"

	"github.com/marmos91/dropvault/internal/logger"
	"github.com/marmos91/dropvault/internal/telemetry"
	"github.com/marmos91/dropvault/pkg/cache"
	"github.com/marmos91/dropvault/pkg/upload"
)

// ReclaimReport summarizes one stale-session reclamation pass.
type ReclaimReport struct {
	StartedAt           time.Time `json:"startedAt"`
	DurationMs          float64   `json:"durationMs"`
	StaleSessions       int       `json:"staleSessions"`
	ChunkFilesDeleted   int       `json:"chunkFilesDeleted"`
	ChunkFileFailures   int       `json:"chunkFileFailures"`
	ChunkRecordsDeleted int64     `json:"chunkRecordsDeleted"`
	SessionsDeleted     int64     `json:"sessionsDeleted"`
	OrphansReclaimed    int       `json:"orphansReclaimed"`
	OrphanFailures      int       `json:"orphanFailures"`
	PhaseErrors         []string  `json:"phaseErrors,omitempty"`
}

// ReclaimOnce removes stale upload sessions and then orphaned artifact
// files. The two passes are independent; a failure in one is recorded and
// the other still runs.
func (s *Service) ReclaimOnce(ctx context.Context) *ReclaimReport {
	start := time.Now()
	report := &ReclaimReport{StartedAt: start}

	ctx, span := telemetry.StartSweepSpan(ctx, "reclaim")
	defer span.End()

	if err := s.reclaimStaleSessions(ctx, report); err != nil {
		s.failPhase(ctx, &report.PhaseErrors, phaseReclaimSessions, err)
	}
	if err := s.reclaimOrphans(ctx, report); err != nil {
		s.failPhase(ctx, &report.PhaseErrors, phaseReclaimOrphans, err)
	}

	span.SetAttributes(
		telemetry.SweepReclaimed(int64(report.OrphansReclaimed)),
		telemetry.SweepDeleted(report.SessionsDeleted),
		telemetry.SweepFailed(int64(len(report.PhaseErrors))))

	report.DurationMs = float64(time.Since(start).Microseconds()) / 1000.0
	return report
}

// reclaimStaleSessions removes sessions past their expiration or idle in
// uploading state beyond the inactivity window: chunk files first
// (best-effort), then chunk and session records in one batched statement
// each, then the cache entries. A cache failure is swallowed; the rows
// are already gone.
func (s *Service) reclaimStaleSessions(ctx context.Context, report *ReclaimReport) error {
	ids, err := s.store.StaleSessionIDs(ctx, time.Now(), s.config.SessionInactivity)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	report.StaleSessions = len(ids)

	paths, err := s.store.ChunkPaths(ctx, ids)
	if err != nil {
		return err
	}

	tally := s.deleteFiles(paths)
	for outcome, count := range tally.byOutcome {
		for i := 0; i < count; i++ {
			s.metrics.ChunkDeleted(string(outcome))
		}
	}
	report.ChunkFilesDeleted = tally.byOutcome[upload.OutcomeDeleted]
	report.ChunkFileFailures = tally.failures() + tally.skipped

	chunkRecords, err := s.store.DeleteChunkRecords(ctx, ids)
	if err != nil {
		return err
	}
	sessions, err := s.store.DeleteSessions(ctx, ids)
	if err != nil {
		return err
	}
	report.ChunkRecordsDeleted = chunkRecords
	report.SessionsDeleted = sessions
	s.metrics.SessionsReclaimed(int(sessions))

	for _, id := range ids {
		if err := s.cache.Invalidate(ctx, cache.SessionKey(id)); err != nil {
			logger.Debug("Cache invalidation failed", "upload_id", id, "error", err)
		}
	}

	logger.Info("Reclaimed stale upload sessions",
		"sessions", sessions,
		"chunk_records", chunkRecords,
		"chunk_files", report.ChunkFilesDeleted,
		"chunk_failures", report.ChunkFileFailures)
	return nil
}

// reclaimOrphans deletes files still referenced by records already
// flagged expired, which the expiration pass never saw.
func (s *Service) reclaimOrphans(ctx context.Context, report *ReclaimReport) error {
	paths, err := s.store.OrphanedFilePaths(ctx)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return nil
	}

	tally := s.deleteFiles(paths)
	report.OrphansReclaimed = tally.byOutcome[upload.OutcomeDeleted]
	report.OrphanFailures = tally.failures() + tally.skipped

	s.metrics.FilesReclaimed(report.OrphansReclaimed)

	if report.OrphansReclaimed > 0 {
		logger.Info("Reclaimed orphaned files",
			"deleted", report.OrphansReclaimed,
			"failed", report.OrphanFailures)
	}
	return nil
}
