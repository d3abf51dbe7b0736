package commands

import (
	"fmt"

	"github.com/marmos91/dropvault/internal/cli/prompt"
	"github.com/marmos91/dropvault/pkg/cache"
	"github.com/marmos91/dropvault/pkg/config"
	"github.com/marmos91/dropvault/pkg/store"
	"github.com/spf13/cobra"
)

var (
	initForce       bool
	initInteractive bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a configuration file",
	Long: `Initialize a DropVault configuration file.

By default, the configuration file is created at $XDG_CONFIG_HOME/dropvault/config.yaml.
Use --config to specify a custom path.

Examples:
  # Initialize with default location
  dropvault init

  # Initialize with custom path
  dropvault init --config /etc/dropvault/config.yaml

  # Walk through the main settings interactively
  dropvault init --interactive

  # Force overwrite existing config
  dropvault init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
	initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "Prompt for the main settings instead of writing defaults")
}

func runInit(cmd *cobra.Command, args []string) error {
	if initInteractive {
		return runInitInteractive()
	}

	configFile := GetConfigFile()

	var configPath string
	var err error

	if configFile != "" {
		err = config.InitConfigToPath(configFile, initForce)
		configPath = configFile
	} else {
		configPath, err = config.InitConfig(initForce)
	}

	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	printInitNextSteps(configPath)
	return nil
}

// runInitInteractive prompts for the settings that differ between
// deployments and writes the resulting config. Everything not asked for
// keeps its default.
func runInitInteractive() error {
	configPath := GetConfigFile()
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	cfg := config.GetDefaultConfig()

	root, err := prompt.Input("Storage root", cfg.Storage.Root)
	if err != nil {
		return handleAbort(err)
	}
	cfg.Storage.Root = root

	dbType, err := prompt.Select("Database backend", []prompt.SelectOption{
		{Label: "SQLite", Value: string(store.DatabaseTypeSQLite), Description: "single node, zero setup"},
		{Label: "PostgreSQL", Value: string(store.DatabaseTypePostgres), Description: "shared database server"},
	})
	if err != nil {
		return handleAbort(err)
	}
	cfg.Database.Type = store.DatabaseType(dbType)

	if cfg.Database.Type == store.DatabaseTypePostgres {
		if err := promptPostgres(cfg); err != nil {
			return handleAbort(err)
		}
	}

	cacheType, err := prompt.Select("Session cache", []prompt.SelectOption{
		{Label: "None", Value: string(cache.CacheTypeNone), Description: "no cache"},
		{Label: "Redis", Value: string(cache.CacheTypeRedis), Description: "shared cache server"},
		{Label: "Badger", Value: string(cache.CacheTypeBadger), Description: "embedded on-disk cache"},
	})
	if err != nil {
		return handleAbort(err)
	}
	cfg.Cache.Type = cache.CacheType(cacheType)

	switch cfg.Cache.Type {
	case cache.CacheTypeRedis:
		addr, err := prompt.Input("Redis address", "localhost:6379")
		if err != nil {
			return handleAbort(err)
		}
		cfg.Cache.Redis.Addr = addr
	case cache.CacheTypeBadger:
		path, err := prompt.Input("Badger cache directory (empty for in-memory)", "")
		if err != nil {
			return handleAbort(err)
		}
		cfg.Cache.Badger.Path = path
	}

	port, err := prompt.InputPort("Ops server port", cfg.API.Port)
	if err != nil {
		return handleAbort(err)
	}
	cfg.API.Port = port

	// Backend switches above leave their sub-defaults unset.
	cfg.Database.ApplyDefaults()
	cfg.Cache.ApplyDefaults()

	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.SaveConfig(cfg, configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitNextSteps(configPath)
	return nil
}

func promptPostgres(cfg *config.Config) error {
	host, err := prompt.Input("PostgreSQL host", "localhost")
	if err != nil {
		return err
	}
	cfg.Database.Postgres.Host = host

	port, err := prompt.InputPort("PostgreSQL port", 5432)
	if err != nil {
		return err
	}
	cfg.Database.Postgres.Port = port

	database, err := prompt.Input("PostgreSQL database", "dropvault")
	if err != nil {
		return err
	}
	cfg.Database.Postgres.Database = database

	user, err := prompt.Input("PostgreSQL user", "dropvault")
	if err != nil {
		return err
	}
	cfg.Database.Postgres.User = user

	fmt.Println("\nSet the database password via environment variable instead of the config file:")
	fmt.Println("  export DROPVAULT_DATABASE_POSTGRES_PASSWORD=...")
	fmt.Println()

	return nil
}

func printInitNextSteps(configPath string) {
	fmt.Printf("Configuration file created at: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit the configuration file to customize your setup")
	fmt.Println("  2. Start the server with: dropvault start")
	fmt.Printf("  3. Or specify custom config: dropvault start --config %s\n", configPath)
}

// handleAbort maps a Ctrl+C during a prompt to a clean exit.
func handleAbort(err error) error {
	if prompt.IsAborted(err) {
		fmt.Println("\nAborted.")
		return nil
	}
	return err
}
