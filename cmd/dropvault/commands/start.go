package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/marmos91/dropvault/internal/logger"
	"github.com/marmos91/dropvault/internal/telemetry"
	"github.com/marmos91/dropvault/pkg/api"
	"github.com/marmos91/dropvault/pkg/api/handlers"
	"github.com/marmos91/dropvault/pkg/config"
	"github.com/marmos91/dropvault/pkg/metrics"
	"github.com/marmos91/dropvault/pkg/metrics/prometheus"
	"github.com/marmos91/dropvault/pkg/sweeper"
	"github.com/spf13/cobra"
)

var (
	daemonize bool
	pidFile   string
	logFile   string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the DropVault server",
	Long: `Start the DropVault server with the specified configuration.

By default, the server runs in the foreground. Use --daemon to detach and
run in the background; the process id and log output land under
$XDG_STATE_HOME/dropvault.

Use --config to specify a custom configuration file, or it will use the
default location at $XDG_CONFIG_HOME/dropvault/config.yaml.

Examples:
  # Start in foreground
  dropvault start

  # Start in background
  dropvault start --daemon

  # Start with custom config file
  dropvault start --config /etc/dropvault/config.yaml

  # Start with environment variable overrides
  DROPVAULT_LOGGING_LEVEL=DEBUG dropvault start`,
	RunE: runStart,
}

func init() {
	startCmd.Flags().BoolVarP(&daemonize, "daemon", "d", false, "Run in background (default: foreground)")
	startCmd.Flags().StringVar(&pidFile, "pid-file", "", "Path to PID file (default: $XDG_STATE_HOME/dropvault/dropvault.pid)")
	startCmd.Flags().StringVar(&logFile, "log-file", "", "Path to log file for daemon mode (default: $XDG_STATE_HOME/dropvault/dropvault.log)")
}

func runStart(cmd *cobra.Command, args []string) error {
	if daemonize {
		return startDaemon()
	}

	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	// Initialize the structured logger
	if err := InitLogger(cfg); err != nil {
		return err
	}

	// Create cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry (if enabled)
	telemetryCfg := telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "dropvault",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	}
	telemetryShutdown, err := telemetry.Init(ctx, telemetryCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}()

	// Initialize Pyroscope profiling (if enabled)
	profilingCfg := telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    "dropvault",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
	}
	profilingShutdown, err := telemetry.InitProfiling(profilingCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize profiling: %w", err)
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown error", "error", err)
		}
	}()

	fmt.Println("DropVault - Chunked upload vault")
	logger.Info("Log level", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	logger.Info("Configuration loaded", "source", getConfigSource(GetConfigFile()))
	if telemetry.IsEnabled() {
		logger.Info("Telemetry enabled", "endpoint", cfg.Telemetry.Endpoint, "sample_rate", cfg.Telemetry.SampleRate)
	} else {
		logger.Info("Telemetry disabled")
	}
	if telemetry.IsProfilingEnabled() {
		logger.Info("Profiling enabled", "endpoint", cfg.Telemetry.Profiling.Endpoint, "profile_types", cfg.Telemetry.Profiling.ProfileTypes)
	} else {
		logger.Info("Profiling disabled")
	}

	// Initialize metrics (if enabled)
	var m metrics.Metrics
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		prom := prometheus.New()
		m = prom
		metricsHandler = prom.Handler()
		logger.Info("Metrics enabled", "endpoint", fmt.Sprintf("http://localhost:%d/metrics", cfg.API.Port))
	} else {
		m = metrics.NewNoop()
		logger.Info("Metrics collection disabled")
	}

	// Open the record store and session cache
	db, sessionCache, err := config.InitializeStores(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := sessionCache.Close(); err != nil {
			logger.Error("Session cache close error", "error", err)
		}
		if err := db.Close(); err != nil {
			logger.Error("Record store close error", "error", err)
		}
	}()

	if err := config.EnsureStorageRoot(cfg); err != nil {
		return err
	}
	logger.Info("Storage root ready", "root", cfg.Storage.Root)

	// Expiration sweeper
	sweepSvc := sweeper.New(db, sessionCache, m, cfg.Storage.Root, cfg.Sweep.SweeperConfig())

	// Ops HTTP server (health endpoints and metrics)
	var opsServer *api.Server
	if cfg.API.IsEnabled() {
		health := handlers.NewHealthHandler(db, cfg.Storage.Root, cfg.Storage.MinFree.Uint64())
		opsServer = api.NewServer(cfg.API, health, metricsHandler)
		logger.Info("Ops server configured", "port", opsServer.Port())
	} else {
		logger.Info("Ops server disabled")
	}

	// Write PID file if specified
	if pidFile != "" {
		if err := os.WriteFile(pidFile, []byte(fmt.Sprintf("%d", os.Getpid())), 0644); err != nil {
			return fmt.Errorf("failed to write PID file: %w", err)
		}
		defer func() { _ = os.Remove(pidFile) }()
	}

	sweepSvc.Start()
	defer sweepSvc.Stop()

	serverDone := make(chan error, 1)
	if opsServer != nil {
		go func() {
			serverDone <- opsServer.Start(ctx)
		}()
	}

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Server is running. Press Ctrl+C to stop.")

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("Shutdown signal received, initiating graceful shutdown")
		cancel()

		if opsServer != nil {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer shutdownCancel()

			select {
			case err := <-serverDone:
				if err != nil {
					logger.Error("Server shutdown error", "error", err)
					return err
				}
			case <-shutdownCtx.Done():
				logger.Error("Shutdown timed out", "timeout", cfg.ShutdownTimeout)
				return fmt.Errorf("shutdown timed out after %s", cfg.ShutdownTimeout)
			}
		}
		logger.Info("Server stopped gracefully")

	case err := <-serverDone:
		signal.Stop(sigChan)
		if err != nil {
			logger.Error("Server error", "error", err)
			return err
		}
		logger.Info("Server stopped")
	}

	return nil
}

// getConfigSource returns a description of where the config was loaded from.
func getConfigSource(configFile string) string {
	if configFile != "" {
		return configFile
	}
	if config.DefaultConfigExists() {
		return config.GetDefaultConfigPath()
	}
	return "defaults"
}
