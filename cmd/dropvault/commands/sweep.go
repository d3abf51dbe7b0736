package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/marmos91/dropvault/internal/cli/output"
	"github.com/marmos91/dropvault/pkg/config"
	"github.com/marmos91/dropvault/pkg/sweeper"
	"github.com/spf13/cobra"
)

var (
	sweepJSON    bool
	sweepReclaim bool
	sweepPrune   bool
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run one expiration sweep",
	Long: `Run one expiration sweep against the configured database and exit.

The sweep reclaims files of expired records, marks records expired, hard
deletes those past the grace window, and guards the identifier sequence.
Use --reclaim and --prune to also run the stale-session and usage-stat
passes that normally run on their own timers.

Examples:
  # One sweep cycle
  dropvault sweep

  # Full cycle including session reclamation and usage pruning
  dropvault sweep --reclaim --prune

  # Machine-readable report
  dropvault sweep --json`,
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().BoolVar(&sweepJSON, "json", false, "Print the report as JSON")
	sweepCmd.Flags().BoolVar(&sweepReclaim, "reclaim", false, "Also reclaim stale sessions and orphaned files")
	sweepCmd.Flags().BoolVar(&sweepPrune, "prune", false, "Also prune usage stats past retention")
}

// sweepResult aggregates the reports of one manual sweep invocation.
type sweepResult struct {
	Sweep      *sweeper.SweepReport   `json:"sweep"`
	Reclaim    *sweeper.ReclaimReport `json:"reclaim,omitempty"`
	PrunedRows *int64                 `json:"prunedRows,omitempty"`
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}
	InitCLILogger(cfg.Logging.Level)

	db, sessionCache, err := config.InitializeStores(cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = sessionCache.Close()
		_ = db.Close()
	}()

	svc := sweeper.New(db, sessionCache, nil, cfg.Storage.Root, cfg.Sweep.SweeperConfig())
	ctx := context.Background()

	result := sweepResult{Sweep: svc.SweepOnce(ctx)}
	if sweepReclaim {
		result.Reclaim = svc.ReclaimOnce(ctx)
	}
	if sweepPrune {
		pruned, err := svc.PruneOnce(ctx)
		if err != nil {
			return fmt.Errorf("usage pruning failed: %w", err)
		}
		result.PrunedRows = &pruned
	}

	if sweepJSON {
		return output.PrintJSON(os.Stdout, result)
	}

	printSweepSummary(result)

	if n := len(result.Sweep.PhaseErrors); n > 0 {
		return fmt.Errorf("%d sweep phase(s) failed", n)
	}
	if result.Reclaim != nil && len(result.Reclaim.PhaseErrors) > 0 {
		return fmt.Errorf("%d reclaim phase(s) failed", len(result.Reclaim.PhaseErrors))
	}
	return nil
}

func printSweepSummary(result sweepResult) {
	s := result.Sweep
	fmt.Printf("Sweep finished in %.1fms\n", s.DurationMs)
	fmt.Printf("  Files reclaimed:   %d (missing %d, failed %d, skipped %d)\n",
		s.FilesReclaimed, s.FilesMissing, s.FilesFailed, s.FilesSkipped)
	fmt.Printf("  Records marked:    %d\n", s.RecordsMarkedExpired)
	fmt.Printf("  Records deleted:   %d\n", s.RecordsHardDeleted)
	if s.SequenceRestarted {
		fmt.Printf("  Sequence restart:  %d -> %d\n", s.SequenceValue, s.SequenceRestartValue)
	} else {
		fmt.Printf("  Sequence value:    %d\n", s.SequenceValue)
	}
	for _, e := range s.PhaseErrors {
		fmt.Printf("  Phase error:       %s\n", e)
	}

	if r := result.Reclaim; r != nil {
		fmt.Printf("Reclaim finished in %.1fms\n", r.DurationMs)
		fmt.Printf("  Stale sessions:    %d (removed %d)\n", r.StaleSessions, r.SessionsDeleted)
		fmt.Printf("  Chunk files:       %d deleted, %d failed\n", r.ChunkFilesDeleted, r.ChunkFileFailures)
		fmt.Printf("  Chunk records:     %d\n", r.ChunkRecordsDeleted)
		fmt.Printf("  Orphans:           %d reclaimed, %d failed\n", r.OrphansReclaimed, r.OrphanFailures)
		for _, e := range r.PhaseErrors {
			fmt.Printf("  Phase error:       %s\n", e)
		}
	}

	if result.PrunedRows != nil {
		fmt.Printf("Usage rows pruned:   %d\n", *result.PrunedRows)
	}
}
