package config

import (
	"fmt"
	"os"

	"github.com/marmos91/dropvault/pkg/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the DropVault configuration file.

Checks for syntax errors, missing required fields, and invalid values.

Examples:
  # Validate default config
  dropvault config validate

  # Validate specific config file
  dropvault config validate --config /etc/dropvault/config.yaml`,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	// Get config path from parent's persistent flag
	configPath, _ := cmd.Flags().GetString("config")

	// Load and validate configuration
	cfg, err := config.MustLoad(configPath)
	if err != nil {
		return err
	}

	// Determine path for display
	displayPath := configPath
	if displayPath == "" {
		displayPath = config.GetDefaultConfigPath()
	}

	// Additional validation checks
	var warnings []string

	// Check storage root exists
	if _, err := os.Stat(cfg.Storage.Root); os.IsNotExist(err) {
		warnings = append(warnings, fmt.Sprintf("Storage root does not exist yet: %s (created on start)", cfg.Storage.Root))
	}

	// Check ops endpoints are reachable
	if !cfg.API.IsEnabled() {
		warnings = append(warnings, "Ops server disabled - health and metrics endpoints unavailable")
	}

	// Print results
	fmt.Printf("Configuration file: %s\n", displayPath)
	fmt.Println("Validation: OK")

	if len(warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range warnings {
			fmt.Printf("  - %s\n", w)
		}
	}

	fmt.Printf("\nConfiguration summary:\n")
	fmt.Printf("  Database type:   %s\n", cfg.Database.Type)
	fmt.Printf("  Cache type:      %s\n", cfg.Cache.Type)
	fmt.Printf("  Storage root:    %s\n", cfg.Storage.Root)
	fmt.Printf("  Ops port:        %d\n", cfg.API.Port)
	fmt.Printf("  Log level:       %s\n", cfg.Logging.Level)

	return nil
}
