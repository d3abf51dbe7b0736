package sweeper

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/marmos91/dropvault/internal/logger"
	"github.com/marmos91/dropvault/internal/telemetry"
	"github.com/marmos91/dropvault/pkg/upload"
)

// Sweep phase names, as carried in reports and metrics.
const (
	phaseReclaimFiles    = "reclaim_files"
	phaseMarkExpired     = "mark_expired"
	phaseHardDelete      = "hard_delete"
	phaseSequenceGuard   = "sequence_guard"
	phaseReclaimSessions = "reclaim_sessions"
	phaseReclaimOrphans  = "reclaim_orphans"
	phasePruneUsage      = "prune_usage"
)

// SweepReport summarizes one expiration sweep.
type SweepReport struct {
	StartedAt            time.Time `json:"startedAt"`
	DurationMs           float64   `json:"durationMs"`
	FilesReclaimed       int       `json:"filesReclaimed"`
	FilesMissing         int       `json:"filesMissing"`
	FilesFailed          int       `json:"filesFailed"`
	FilesSkipped         int       `json:"filesSkipped"`
	RecordsMarkedExpired int64     `json:"recordsMarkedExpired"`
	RecordsHardDeleted   int64     `json:"recordsHardDeleted"`
	SequenceValue        int64     `json:"sequenceValue"`
	SequenceRestarted    bool      `json:"sequenceRestarted"`
	SequenceRestartValue int64     `json:"sequenceRestartValue,omitempty"`
	PhaseErrors          []string  `json:"phaseErrors,omitempty"`
}

// SweepOnce runs the four sweep phases in order. A phase failure is
// recorded and the remaining phases still run; failed work waits for the
// next tick.
func (s *Service) SweepOnce(ctx context.Context) *SweepReport {
	start := time.Now()
	s.metrics.SweepStarted()

	ctx, span := telemetry.StartSweepSpan(ctx, "run")
	defer span.End()

	report := &SweepReport{StartedAt: start}

	if err := s.reclaimExpiredFiles(ctx, report); err != nil {
		s.failPhase(ctx, &report.PhaseErrors, phaseReclaimFiles, err)
	}
	if err := s.markExpired(ctx, report); err != nil {
		s.failPhase(ctx, &report.PhaseErrors, phaseMarkExpired, err)
	}
	if err := s.hardDeleteExpired(ctx, report, time.Now().Add(-s.config.GraceWindow)); err != nil {
		s.failPhase(ctx, &report.PhaseErrors, phaseHardDelete, err)
	}
	if err := s.guardSequence(ctx, report); err != nil {
		s.failPhase(ctx, &report.PhaseErrors, phaseSequenceGuard, err)
	}

	span.SetAttributes(
		telemetry.SweepReclaimed(int64(report.FilesReclaimed)),
		telemetry.SweepDeleted(report.RecordsHardDeleted),
		telemetry.SweepFailed(int64(len(report.PhaseErrors))),
	)

	elapsed := time.Since(start)
	report.DurationMs = float64(elapsed.Microseconds()) / 1000.0
	s.metrics.SweepDuration(elapsed.Seconds())

	return report
}

// PurgeExpired removes every expired record and its file immediately,
// without waiting out the grace window. Unlike SweepOnce it stops at the
// first failure; the caller is interactive and can just rerun it.
func (s *Service) PurgeExpired(ctx context.Context) (*SweepReport, error) {
	start := time.Now()
	report := &SweepReport{StartedAt: start}

	ctx, span := telemetry.StartSweepSpan(ctx, "purge")
	defer span.End()

	if err := s.reclaimExpiredFiles(ctx, report); err != nil {
		telemetry.RecordError(ctx, err)
		return report, fmt.Errorf("%s: %w", phaseReclaimFiles, err)
	}
	if err := s.markExpired(ctx, report); err != nil {
		telemetry.RecordError(ctx, err)
		return report, fmt.Errorf("%s: %w", phaseMarkExpired, err)
	}
	if err := s.hardDeleteExpired(ctx, report, time.Now()); err != nil {
		telemetry.RecordError(ctx, err)
		return report, fmt.Errorf("%s: %w", phaseHardDelete, err)
	}

	span.SetAttributes(
		telemetry.SweepReclaimed(int64(report.FilesReclaimed)),
		telemetry.SweepDeleted(report.RecordsHardDeleted),
	)

	report.DurationMs = float64(time.Since(start).Microseconds()) / 1000.0
	return report, nil
}

// reclaimExpiredFiles deletes the standalone files of records past their
// expiration but not yet flagged. A failed delete is left for the orphan
// pass; the record is flagged regardless in the next phase.
func (s *Service) reclaimExpiredFiles(ctx context.Context, report *SweepReport) error {
	paths, err := s.store.ExpiredFilePaths(ctx, time.Now())
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return nil
	}

	tally := s.deleteFiles(paths)
	report.FilesReclaimed += tally.byOutcome[upload.OutcomeDeleted]
	report.FilesMissing += tally.byOutcome[upload.OutcomeAlreadyAbsent]
	report.FilesFailed += tally.failures()
	report.FilesSkipped += tally.skipped

	s.metrics.FilesReclaimed(tally.byOutcome[upload.OutcomeDeleted])

	if report.FilesReclaimed > 0 || report.FilesFailed > 0 {
		logger.Info("Reclaimed expired artifact files",
			"deleted", report.FilesReclaimed,
			"already_absent", report.FilesMissing,
			"failed", report.FilesFailed)
	}
	return nil
}

// markExpired flips the expired flag on every record past its expiration.
func (s *Service) markExpired(ctx context.Context, report *SweepReport) error {
	n, err := s.store.MarkExpired(ctx, time.Now())
	if err != nil {
		return err
	}

	report.RecordsMarkedExpired = n
	s.metrics.RecordsMarkedExpired(n)

	if n > 0 {
		logger.Info("Marked content records expired", "records", n)
	}
	return nil
}

// hardDeleteExpired removes records flagged expired whose expiration
// precedes the cutoff.
func (s *Service) hardDeleteExpired(ctx context.Context, report *SweepReport, cutoff time.Time) error {
	n, err := s.store.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	report.RecordsHardDeleted = n
	s.metrics.RecordsHardDeleted(n)

	if n > 0 {
		logger.Info("Hard-deleted expired content records", "records", n)
	}
	return nil
}

// guardSequence rewinds the content id sequence when it passes the
// high-water mark. The restart lands above every live id, so ids are
// never reused.
func (s *Service) guardSequence(ctx context.Context, report *SweepReport) error {
	current, err := s.store.CurrentSequence(ctx)
	if err != nil {
		return err
	}
	report.SequenceValue = current

	if current <= s.config.SequenceHighWater {
		return nil
	}

	maxLive, err := s.store.MaxLiveContentID(ctx)
	if err != nil {
		return err
	}

	restart := maxLive + sequenceRestartHeadroom
	if restart < 1 {
		restart = 1
	}

	if err := s.store.RestartSequence(ctx, restart); err != nil {
		return err
	}

	report.SequenceRestarted = true
	report.SequenceRestartValue = restart
	s.metrics.SequenceRestarted()

	logger.Warn("Identifier sequence restarted",
		"previous", current,
		"max_live_id", maxLive,
		"restart", restart)
	return nil
}

// fileTally aggregates the outcomes of one bounded file-deletion pass.
type fileTally struct {
	byOutcome map[upload.DeleteOutcome]int
	skipped   int
}

// failures counts outcomes that left the file behind.
func (t fileTally) failures() int {
	n := 0
	for outcome, count := range t.byOutcome {
		if !outcome.Succeeded() {
			n += count
		}
	}
	return n
}

// deleteFiles removes the given files with bounded concurrency. Every
// path came from persisted state, so it is re-checked against the storage
// root first; paths outside it are skipped, not deleted.
func (s *Service) deleteFiles(paths []string) fileTally {
	tally := fileTally{byOutcome: make(map[upload.DeleteOutcome]int)}
	if len(paths) == 0 {
		return tally
	}

	executor := upload.NewExecutor(upload.DeleteParallelism)
	outcomes := make([]upload.DeleteOutcome, len(paths))
	unsafe := make([]bool, len(paths))

	for i, path := range paths {
		executor.Submit(func() error {
			resolved, err := upload.ResolveUnder(path, s.storageRoot)
			if err != nil {
				unsafe[i] = true
				return nil
			}
			outcomes[i] = upload.ClassifyRemove(os.Remove(resolved))
			return nil
		})
	}
	executor.Wait()

	for i, path := range paths {
		if unsafe[i] {
			tally.skipped++
			logger.Warn("Skipped persisted path outside the storage root")
			continue
		}
		outcome := outcomes[i]
		tally.byOutcome[outcome]++
		if !outcome.Succeeded() {
			logger.Warn("Failed to delete file",
				"path", path,
				"outcome", string(outcome))
		}
	}

	return tally
}
