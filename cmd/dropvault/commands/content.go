package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/marmos91/dropvault/internal/bytesize"
	"github.com/marmos91/dropvault/internal/cli/output"
	"github.com/marmos91/dropvault/internal/cli/prompt"
	"github.com/marmos91/dropvault/pkg/config"
	"github.com/marmos91/dropvault/pkg/store"
	"github.com/marmos91/dropvault/pkg/sweeper"
	"github.com/spf13/cobra"
)

var (
	contentOutput    string
	contentPurgeYes  bool
	contentPurgeJSON bool
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Manage content records",
	Long: `Inspect and purge stored content records.

Subcommands:
  list   List content records
  purge  Hard-delete expired records immediately`,
}

var contentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List content records",
	Long: `List content records in the configured database.

Examples:
  # List content as table
  dropvault content list

  # List content as JSON
  dropvault content list -o json`,
	RunE: runContentList,
}

var contentPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Hard-delete expired content immediately",
	Long: `Remove every expired content record and its file right away, without
waiting out the grace window. Records not yet expired are untouched.

Examples:
  # Purge with confirmation
  dropvault content purge

  # Purge without confirmation
  dropvault content purge --yes`,
	RunE: runContentPurge,
}

func init() {
	contentListCmd.Flags().StringVarP(&contentOutput, "output", "o", "table", "Output format (table|json|yaml)")
	contentPurgeCmd.Flags().BoolVarP(&contentPurgeYes, "yes", "y", false, "Skip the confirmation prompt")
	contentPurgeCmd.Flags().BoolVar(&contentPurgeJSON, "json", false, "Print the report as JSON")

	contentCmd.AddCommand(contentListCmd)
	contentCmd.AddCommand(contentPurgeCmd)
}

// ContentList is a list of content records for table rendering.
type ContentList []*store.ContentRecord

// Headers implements TableRenderer.
func (cl ContentList) Headers() []string {
	return []string{"ID", "CONTENT_ID", "SIZE", "EXPIRED", "EXPIRES_AT"}
}

// Rows implements TableRenderer.
func (cl ContentList) Rows() [][]string {
	rows := make([][]string, 0, len(cl))
	for _, c := range cl {
		expired := "no"
		if c.Expired {
			expired = "yes"
		}
		expires := "-"
		if !c.ExpiresAt.IsZero() {
			expires = c.ExpiresAt.Format("2006-01-02 15:04:05")
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", c.ID),
			c.ContentID,
			bytesize.ByteSize(c.SizeBytes).String(),
			expired,
			expires,
		})
	}
	return rows
}

func runContentList(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(contentOutput)
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

	records, err := db.ListContent(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list content: %w", err)
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, records)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, records)
	default:
		if len(records) == 0 {
			fmt.Println("No content records.")
			return nil
		}
		return output.PrintTable(os.Stdout, ContentList(records))
	}
}

func runContentPurge(cmd *cobra.Command, args []string) error {
	confirmed, err := prompt.ConfirmWithForce("Hard-delete all expired content now?", contentPurgeYes)
	if err != nil {
		if prompt.IsAborted(err) {
			fmt.Println("\nAborted.")
			return nil
		}
		return err
	}
	if !confirmed {
		fmt.Println("Aborted.")
		return nil
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

	svc := sweeper.New(db, sessionCache, nil, cfg.Storage.Root, cfg.Sweep.SweeperConfig())
	report, err := svc.PurgeExpired(context.Background())
	if err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}

	if contentPurgeJSON {
		return output.PrintJSON(os.Stdout, report)
	}

	fmt.Printf("Purge finished in %.1fms\n", report.DurationMs)
	fmt.Printf("  Files reclaimed:  %d (missing %d, failed %d, skipped %d)\n",
		report.FilesReclaimed, report.FilesMissing, report.FilesFailed, report.FilesSkipped)
	fmt.Printf("  Records marked:   %d\n", report.RecordsMarkedExpired)
	fmt.Printf("  Records deleted:  %d\n", report.RecordsHardDeleted)
	return nil
}
