package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/marmos91/dropvault/internal/bytesize"
	"github.com/marmos91/dropvault/internal/cli/health"
	"github.com/marmos91/dropvault/internal/cli/output"
	"github.com/marmos91/dropvault/internal/cli/timeutil"
	"github.com/spf13/cobra"
)

var (
	statusOutput  string
	statusPidFile string
	statusAPIPort int
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server status",
	Long: `Display the current status of the DropVault server.

This command checks the process via the PID file and calls the ops
endpoints for database reachability, record counts, and storage root
capacity.

Examples:
  # Check status (uses default settings)
  dropvault status

  # Check status with custom ops port
  dropvault status --api-port 9080

  # Output as JSON
  dropvault status --output json`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusPidFile, "pid-file", "", "Path to PID file (default: $XDG_STATE_HOME/dropvault/dropvault.pid)")
	statusCmd.Flags().IntVar(&statusAPIPort, "api-port", 8080, "Ops server port")
	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", "table", "Output format (table|json|yaml)")
}

// StorageStatus is the storage-root slice of the server status.
type StorageStatus struct {
	Root        string  `json:"root" yaml:"root"`
	TotalBytes  uint64  `json:"total_bytes" yaml:"total_bytes"`
	FreeBytes   uint64  `json:"free_bytes" yaml:"free_bytes"`
	UsedPercent float64 `json:"used_percent" yaml:"used_percent"`
}

// ServerStatus represents the server status information.
type ServerStatus struct {
	Running   bool           `json:"running" yaml:"running"`
	PID       int            `json:"pid,omitempty" yaml:"pid,omitempty"`
	Healthy   bool           `json:"healthy" yaml:"healthy"`
	Message   string         `json:"message" yaml:"message"`
	CheckedAt string         `json:"checked_at,omitempty" yaml:"checked_at,omitempty"`
	Database  string         `json:"database,omitempty" yaml:"database,omitempty"`
	Sessions  int64          `json:"sessions" yaml:"sessions"`
	Content   int64          `json:"content" yaml:"content"`
	Storage   *StorageStatus `json:"storage,omitempty" yaml:"storage,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(statusOutput)
	if err != nil {
		return err
	}

	status := ServerStatus{
		Running: false,
		Healthy: false,
		Message: "Server is not running",
	}

	pidPath := statusPidFile
	if pidPath == "" {
		pidPath = GetDefaultPidFile()
	}
	if pid, running := isProcessRunning(pidPath); running {
		status.Running = true
		status.PID = pid
	}

	client := &http.Client{Timeout: 2 * time.Second}
	base := fmt.Sprintf("http://localhost:%d", statusAPIPort)

	// Readiness carries database type and record counts.
	if ready, err := fetchHealth(client, base+"/health/ready"); err == nil {
		status.Running = true
		status.Healthy = ready.Status == "healthy"
		status.CheckedAt = ready.Timestamp
		status.Database = ready.Data.Database
		status.Sessions = ready.Data.Sessions
		status.Content = ready.Data.Content
		if status.Healthy {
			status.Message = "Server is running and healthy"
		} else {
			status.Message = fmt.Sprintf("Server is running but unhealthy: %s", ready.Error)
		}
	} else if status.Running {
		// PID file says running but the ops endpoint is unreachable.
		status.Message = "Server process exists but health check failed"
	}

	if storage, err := fetchStorage(client, base+"/health/storage"); err == nil {
		status.Storage = &StorageStatus{
			Root:        storage.Data.Root,
			TotalBytes:  storage.Data.TotalBytes,
			FreeBytes:   storage.Data.FreeBytes,
			UsedPercent: storage.Data.UsedPercent,
		}
		if storage.Status != "healthy" && status.Healthy {
			status.Healthy = false
			status.Message = "Server is running but storage is unhealthy"
		}
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, status)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, status)
	default:
		printStatusTable(status)
	}

	return nil
}

func fetchHealth(client *http.Client, url string) (*health.Response, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var decoded health.Response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	return &decoded, nil
}

func fetchStorage(client *http.Client, url string) (*health.StorageResponse, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var decoded health.StorageResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	return &decoded, nil
}

func printStatusTable(status ServerStatus) {
	fmt.Println()
	fmt.Println("DropVault Server Status")
	fmt.Println("=======================")
	fmt.Println()

	if status.Running {
		if status.Healthy {
			fmt.Printf("  Status:     \033[32m● Running\033[0m\n")
		} else {
			fmt.Printf("  Status:     \033[33m● Running (unhealthy)\033[0m\n")
		}
		if status.PID != 0 {
			fmt.Printf("  PID:        %d\n", status.PID)
		}
		if status.Database != "" {
			fmt.Printf("  Database:   %s\n", status.Database)
			fmt.Printf("  Sessions:   %d\n", status.Sessions)
			fmt.Printf("  Content:    %d\n", status.Content)
		}
		if status.Storage != nil {
			fmt.Printf("  Storage:    %s free of %s (%.1f%% used) at %s\n",
				bytesize.ByteSize(status.Storage.FreeBytes),
				bytesize.ByteSize(status.Storage.TotalBytes),
				status.Storage.UsedPercent,
				status.Storage.Root)
		}
		if status.CheckedAt != "" {
			fmt.Printf("  Checked:    %s\n", timeutil.FormatTime(status.CheckedAt))
		}
	} else {
		fmt.Printf("  Status:     \033[31m○ Stopped\033[0m\n")
	}

	fmt.Println()
	fmt.Printf("  %s\n", status.Message)
	fmt.Println()
}
