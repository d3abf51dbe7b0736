package config

import (
	"testing"
	"time"

	"github.com/marmos91/dropvault/pkg/cache"
)

func TestApplyDefaults_Logging(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default log level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default log format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default log output 'stdout', got %q", cfg.Logging.Output)
	}
}

func TestApplyDefaults_ShutdownTimeout(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("Expected default shutdown timeout 30s, got %v", cfg.ShutdownTimeout)
	}
}

func TestApplyDefaults_API(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.API.Port != 8080 {
		t.Errorf("Expected default API port 8080, got %d", cfg.API.Port)
	}
	if cfg.API.ReadTimeout != 10*time.Second {
		t.Errorf("Expected default read timeout 10s, got %v", cfg.API.ReadTimeout)
	}
	if cfg.API.WriteTimeout != 10*time.Second {
		t.Errorf("Expected default write timeout 10s, got %v", cfg.API.WriteTimeout)
	}
	if cfg.API.IdleTimeout != 60*time.Second {
		t.Errorf("Expected default idle timeout 60s, got %v", cfg.API.IdleTimeout)
	}
	if !cfg.API.IsEnabled() {
		t.Error("Expected ops server to be enabled by default")
	}
}

func TestApplyDefaults_Sweep(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Sweep.Interval != time.Minute {
		t.Errorf("Expected default sweep interval 1m, got %v", cfg.Sweep.Interval)
	}
	if cfg.Sweep.GraceWindow != 5*time.Minute {
		t.Errorf("Expected default grace window 5m, got %v", cfg.Sweep.GraceWindow)
	}
	if cfg.Sweep.SequenceHighWater != 2_000_000_000 {
		t.Errorf("Expected default sequence high water 2000000000, got %d", cfg.Sweep.SequenceHighWater)
	}
	if cfg.Sweep.ReclaimInterval != time.Hour {
		t.Errorf("Expected default reclaim interval 1h, got %v", cfg.Sweep.ReclaimInterval)
	}
	if cfg.Sweep.SessionInactivity != 24*time.Hour {
		t.Errorf("Expected default session inactivity 24h, got %v", cfg.Sweep.SessionInactivity)
	}
	if cfg.Sweep.PruneInterval != 24*time.Hour {
		t.Errorf("Expected default prune interval 24h, got %v", cfg.Sweep.PruneInterval)
	}
	if cfg.Sweep.UsageRetention != 90*24*time.Hour {
		t.Errorf("Expected default usage retention 90d, got %v", cfg.Sweep.UsageRetention)
	}
}

func TestApplyDefaults_Storage(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Storage.Root == "" {
		t.Error("Expected default storage root to be set")
	}
	if cfg.Storage.MinFree != 0 {
		t.Errorf("Expected free-space check disabled by default, got %d", cfg.Storage.MinFree)
	}
}

func TestApplyDefaults_Cache(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Cache.Type != cache.CacheTypeNone {
		t.Errorf("Expected default cache type 'none', got %q", cfg.Cache.Type)
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{
			Level:  "DEBUG",
			Format: "json",
			Output: "/var/log/dropvault.log",
		},
		ShutdownTimeout: 60 * time.Second,
		Storage: StorageConfig{
			Root: "/srv/dropvault",
		},
		Sweep: SweepConfig{
			Interval: 10 * time.Second,
		},
	}

	ApplyDefaults(cfg)

	// Verify explicit values were preserved
	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected explicit level 'DEBUG' to be preserved, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected explicit format 'json' to be preserved, got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "/var/log/dropvault.log" {
		t.Errorf("Expected explicit output to be preserved, got %q", cfg.Logging.Output)
	}
	if cfg.ShutdownTimeout != 60*time.Second {
		t.Errorf("Expected explicit timeout 60s to be preserved, got %v", cfg.ShutdownTimeout)
	}
	if cfg.Storage.Root != "/srv/dropvault" {
		t.Errorf("Expected explicit storage root to be preserved, got %q", cfg.Storage.Root)
	}
	if cfg.Sweep.Interval != 10*time.Second {
		t.Errorf("Expected explicit sweep interval to be preserved, got %v", cfg.Sweep.Interval)
	}
	// Unspecified sweep fields still receive defaults
	if cfg.Sweep.GraceWindow != 5*time.Minute {
		t.Errorf("Expected default grace window 5m, got %v", cfg.Sweep.GraceWindow)
	}
}

func TestGetDefaultConfig_IsValid(t *testing.T) {
	cfg := GetDefaultConfig()

	// The default config should pass validation
	err := Validate(cfg)
	if err != nil {
		t.Errorf("Default config should be valid, got error: %v", err)
	}
}

func TestGetDefaultConfig_HasRequiredFields(t *testing.T) {
	cfg := GetDefaultConfig()

	// Check all required sections are present
	if cfg.Logging.Level == "" {
		t.Error("Default config missing logging level")
	}
	if cfg.API.Port == 0 {
		t.Error("Default config missing API port")
	}
	if cfg.Storage.Root == "" {
		t.Error("Default config missing storage root")
	}
	if cfg.Database.SQLite.Path == "" {
		t.Error("Default config missing sqlite path")
	}
}
