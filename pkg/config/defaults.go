package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/marmos91/dropvault/pkg/api"
	"github.com/marmos91/dropvault/pkg/cache"
	"github.com/marmos91/dropvault/pkg/store"
	"github.com/marmos91/dropvault/pkg/sweeper"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// This function is called after loading configuration from file and environment
// variables to fill in any missing values with sensible defaults.
//
// Default Strategy:
//   - Zero values (0, "", false, nil) are replaced with defaults
//   - Explicit values are preserved
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyShutdownTimeoutDefaults(cfg)
	applyStorageDefaults(&cfg.Storage)
	applyDatabaseDefaults(&cfg.Database)
	applyCacheDefaults(&cfg.Cache)
	applySweepDefaults(&cfg.Sweep)
	applyAPIDefaults(&cfg.API)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalize log level to uppercase for consistent internal representation
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

// applyTelemetryDefaults sets OpenTelemetry defaults.
func applyTelemetryDefaults(cfg *TelemetryConfig) {
	// Enabled defaults to false (opt-in for telemetry)
	// No need to set, zero value is false

	// Default endpoint is localhost:4317 (standard OTLP gRPC port)
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}

	// Default sample rate is 1.0 (sample all traces)
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}

	// Apply profiling defaults
	applyProfilingDefaults(&cfg.Profiling)
}

// applyProfilingDefaults sets Pyroscope profiling defaults.
func applyProfilingDefaults(cfg *ProfilingConfig) {
	// Enabled defaults to false (opt-in for profiling)
	// No need to set, zero value is false

	// Default endpoint is localhost:4040 (standard Pyroscope port)
	if cfg.Endpoint == "" {
		cfg.Endpoint = "http://localhost:4040"
	}

	// Default profile types include CPU, memory allocation, and goroutines
	if len(cfg.ProfileTypes) == 0 {
		cfg.ProfileTypes = []string{
			"cpu",
			"alloc_objects",
			"alloc_space",
			"inuse_objects",
			"inuse_space",
			"goroutines",
		}
	}
}

// applyShutdownTimeoutDefaults sets shutdown timeout defaults.
func applyShutdownTimeoutDefaults(cfg *Config) {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
}

// applyStorageDefaults sets storage root defaults.
func applyStorageDefaults(cfg *StorageConfig) {
	if cfg.Root == "" {
		cfg.Root = defaultStorageRoot()
	}
	// MinFree defaults to 0 (free-space check disabled)
}

// defaultStorageRoot returns the default storage directory.
//
// Uses XDG_DATA_HOME if set, otherwise ~/.local/share, or falls back to
// the current directory if home cannot be determined.
func defaultStorageRoot() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".", "dropvault", "storage")
		}
		dataDir = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataDir, "dropvault", "storage")
}

// applyDatabaseDefaults sets record store defaults.
func applyDatabaseDefaults(cfg *store.Config) {
	cfg.ApplyDefaults()
}

// applyCacheDefaults sets cache defaults.
func applyCacheDefaults(cfg *cache.Config) {
	cfg.ApplyDefaults()
}

// applySweepDefaults sets sweeper defaults.
func applySweepDefaults(cfg *SweepConfig) {
	if cfg.Interval == 0 {
		cfg.Interval = sweeper.DefaultInterval
	}
	if cfg.GraceWindow == 0 {
		cfg.GraceWindow = sweeper.DefaultGraceWindow
	}
	if cfg.SequenceHighWater == 0 {
		cfg.SequenceHighWater = sweeper.DefaultSequenceHighWater
	}
	if cfg.ReclaimInterval == 0 {
		cfg.ReclaimInterval = sweeper.DefaultReclaimInterval
	}
	if cfg.SessionInactivity == 0 {
		cfg.SessionInactivity = sweeper.DefaultSessionInactivity
	}
	if cfg.PruneInterval == 0 {
		cfg.PruneInterval = sweeper.DefaultPruneInterval
	}
	if cfg.UsageRetention == 0 {
		cfg.UsageRetention = sweeper.DefaultUsageRetention
	}
}

// applyAPIDefaults sets ops API server defaults.
// The server itself is enabled by default (health probes for orchestrators).
func applyAPIDefaults(cfg *api.APIConfig) {
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 60 * time.Second
	}
}

// GetDefaultConfig returns a Config struct with all default values applied.
//
// This is useful for:
//   - Generating sample configuration files
//   - Testing
//   - Documentation
func GetDefaultConfig() *Config {
	cfg := &Config{
		Logging: LoggingConfig{},
		Database: store.Config{
			Type: store.DatabaseTypeSQLite, // Default to SQLite for single-node
		},
		Cache: cache.Config{
			Type: cache.CacheTypeNone,
		},
	}

	ApplyDefaults(cfg)
	return cfg
}
