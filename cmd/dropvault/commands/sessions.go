package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/marmos91/dropvault/internal/cli/output"
	"github.com/marmos91/dropvault/pkg/config"
	"github.com/marmos91/dropvault/pkg/store"
	"github.com/marmos91/dropvault/pkg/sweeper"
	"github.com/spf13/cobra"
)

var (
	sessionsOutput      string
	sessionsReclaimJSON bool
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage upload sessions",
	Long: `Inspect and reclaim upload sessions.

Subcommands:
  list     List upload sessions
  reclaim  Force a stale-session reclamation pass`,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List upload sessions",
	Long: `List upload sessions in the configured database.

Examples:
  # List sessions as table
  dropvault sessions list

  # List sessions as JSON
  dropvault sessions list -o json`,
	RunE: runSessionsList,
}

var sessionsReclaimCmd = &cobra.Command{
	Use:   "reclaim",
	Short: "Force a stale-session reclamation pass",
	Long: `Remove stale upload sessions now instead of waiting for the next timer
tick. A session is stale when it is past its expiration or has sat in
uploading state beyond the configured inactivity window.

Examples:
  # Reclaim stale sessions
  dropvault sessions reclaim

  # Machine-readable report
  dropvault sessions reclaim --json`,
	RunE: runSessionsReclaim,
}

func init() {
	sessionsListCmd.Flags().StringVarP(&sessionsOutput, "output", "o", "table", "Output format (table|json|yaml)")
	sessionsReclaimCmd.Flags().BoolVar(&sessionsReclaimJSON, "json", false, "Print the report as JSON")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsReclaimCmd)
}

// SessionList is a list of upload sessions for table rendering.
type SessionList []*store.UploadSession

// Headers implements TableRenderer.
func (sl SessionList) Headers() []string {
	return []string{"UPLOAD_ID", "STATUS", "CHUNKS", "EXPIRES_AT", "UPDATED_AT"}
}

// Rows implements TableRenderer.
func (sl SessionList) Rows() [][]string {
	rows := make([][]string, 0, len(sl))
	for _, s := range sl {
		expires := "-"
		if !s.ExpiresAt.IsZero() {
			expires = s.ExpiresAt.Format("2006-01-02 15:04:05")
		}
		rows = append(rows, []string{
			s.UploadID,
			s.Status,
			fmt.Sprintf("%d", s.TotalChunks),
			expires,
			s.UpdatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return rows
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(sessionsOutput)
	if err != nil {
		return err
	}

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

	sessions, err := db.ListSessions(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, sessions)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, sessions)
	default:
		if len(sessions) == 0 {
			fmt.Println("No upload sessions.")
			return nil
		}
		return output.PrintTable(os.Stdout, SessionList(sessions))
	}
}

func runSessionsReclaim(cmd *cobra.Command, args []string) error {
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
	report := svc.ReclaimOnce(context.Background())

	if sessionsReclaimJSON {
		return output.PrintJSON(os.Stdout, report)
	}

	fmt.Printf("Reclaim finished in %.1fms\n", report.DurationMs)
	fmt.Printf("  Stale sessions:  %d (removed %d)\n", report.StaleSessions, report.SessionsDeleted)
	fmt.Printf("  Chunk files:     %d deleted, %d failed\n", report.ChunkFilesDeleted, report.ChunkFileFailures)
	fmt.Printf("  Chunk records:   %d\n", report.ChunkRecordsDeleted)
	fmt.Printf("  Orphans:         %d reclaimed, %d failed\n", report.OrphansReclaimed, report.OrphanFailures)
	for _, e := range report.PhaseErrors {
		fmt.Printf("  Phase error:     %s\n", e)
	}

	if len(report.PhaseErrors) > 0 {
		return fmt.Errorf("%d reclaim phase(s) failed", len(report.PhaseErrors))
	}
	return nil
}
