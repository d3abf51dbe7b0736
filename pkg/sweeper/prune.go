package sweeper

import (
	"context"
	"time"

	"github.com/marmos91/dropvault/internal/logger"
	"github.com/marmos91/dropvault/internal/telemetry"
)

// PruneOnce deletes usage rows older than the retention window and
// returns the number removed.
func (s *Service) PruneOnce(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-s.config.UsageRetention)

	ctx, span := telemetry.StartSweepSpan(ctx, "prune")
	defer span.End()

	pruned, err := s.store.PruneUsageStats(ctx, cutoff)
	if err != nil {
		logger.Error("Usage stat pruning failed", "error", err)
		telemetry.RecordError(ctx, err)
		s.metrics.PhaseFailed(phasePruneUsage)
		return 0, err
	}

	if pruned > 0 {
		s.metrics.UsageRowsPruned(pruned)
		logger.Info("Pruned usage stats", "rows", pruned, "cutoff", cutoff.Format(time.RFC3339))
	}
	return pruned, nil
}
