package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/marmos91/dropvault/internal/bytesize"
	"github.com/marmos91/dropvault/pkg/store"
)

// yamlSafePath converts a filesystem path to a YAML-safe representation.
// On Windows, backslashes in double-quoted YAML strings are interpreted as
// escape sequences (e.g. \U -> Unicode escape), causing parse errors.
func yamlSafePath(p string) string {
	return filepath.ToSlash(p)
}

func TestLoad_DefaultConfig(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// Write minimal config with new structure
	configContent := `
logging:
  level: "INFO"

storage:
  root: "` + yamlSafePath(tmpDir) + `/storage"

database:
  type: sqlite

api:
  port: 8080
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	// Load config
	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify defaults were applied
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default output 'stdout', got %q", cfg.Logging.Output)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("Expected default shutdown_timeout 30s, got %v", cfg.ShutdownTimeout)
	}
	if cfg.API.Port != 8080 {
		t.Errorf("Expected API port 8080, got %d", cfg.API.Port)
	}
	if cfg.Sweep.Interval != time.Minute {
		t.Errorf("Expected default sweep interval 1m, got %v", cfg.Sweep.Interval)
	}
	if cfg.Sweep.UsageRetention != 90*24*time.Hour {
		t.Errorf("Expected default usage retention 90d, got %v", cfg.Sweep.UsageRetention)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	// Loading with no config file returns a valid default config.
	// This allows users to run the server without a config file for quick testing.
	tmpDir := t.TempDir()
	nonExistentPath := filepath.Join(tmpDir, "nonexistent.yaml")

	cfg, err := Load(nonExistentPath)
	if err != nil {
		t.Fatalf("Expected no error when loading default config, got: %v", err)
	}

	// Verify default config is returned
	if cfg == nil {
		t.Fatal("Expected default config to be returned")
	}

	// Verify default API port
	if cfg.API.Port != 8080 {
		t.Errorf("Expected default API port 8080, got %d", cfg.API.Port)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	// Write invalid YAML
	configContent := `
logging:
  level: INFO
  invalid yaml here [[[
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	// Should return error
	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Expected error with invalid YAML, got nil")
	}
}

func TestLoad_TOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	configContent := `
[logging]
level = "WARN"
format = "json"

[storage]
root = "` + yamlSafePath(tmpDir) + `/storage"

[database]
type = "sqlite"

[api]
port = 8080
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load TOML config: %v", err)
	}

	if cfg.Logging.Level != "WARN" {
		t.Errorf("Expected level 'WARN', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected format 'json', got %q", cfg.Logging.Format)
	}
}

func TestLoad_DecodeHooks(t *testing.T) {
	// Durations and byte sizes are given as human-readable strings.
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
storage:
  root: "` + yamlSafePath(tmpDir) + `/storage"
  min_free: "10Gi"

shutdown_timeout: "45s"

sweep:
  interval: "30s"
  grace_window: "10m"
  session_inactivity: "48h"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Storage.MinFree != bytesize.ByteSize(10*bytesize.GiB) {
		t.Errorf("Expected min_free 10GiB, got %d", cfg.Storage.MinFree)
	}
	if cfg.ShutdownTimeout != 45*time.Second {
		t.Errorf("Expected shutdown_timeout 45s, got %v", cfg.ShutdownTimeout)
	}
	if cfg.Sweep.Interval != 30*time.Second {
		t.Errorf("Expected sweep interval 30s, got %v", cfg.Sweep.Interval)
	}
	if cfg.Sweep.GraceWindow != 10*time.Minute {
		t.Errorf("Expected grace window 10m, got %v", cfg.Sweep.GraceWindow)
	}
	if cfg.Sweep.SessionInactivity != 48*time.Hour {
		t.Errorf("Expected session inactivity 48h, got %v", cfg.Sweep.SessionInactivity)
	}
}

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	// Verify all defaults are set
	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default log level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default log format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default log output 'stdout', got %q", cfg.Logging.Output)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("Expected default shutdown timeout 30s, got %v", cfg.ShutdownTimeout)
	}
	if cfg.API.Port != 8080 {
		t.Errorf("Expected default API port 8080, got %d", cfg.API.Port)
	}
	if cfg.Database.Type != store.DatabaseTypeSQLite {
		t.Errorf("Expected default database type sqlite, got %q", cfg.Database.Type)
	}
	if cfg.Storage.Root == "" {
		t.Error("Expected default storage root to be set")
	}
}

func TestGetDefaultConfigPath(t *testing.T) {
	path := GetDefaultConfigPath()

	// Should contain dropvault and config.yaml
	if !filepath.IsAbs(path) {
		t.Errorf("Expected absolute path, got %q", path)
	}
	if filepath.Base(path) != "config.yaml" {
		t.Errorf("Expected filename 'config.yaml', got %q", filepath.Base(path))
	}
}

func TestGetConfigDir(t *testing.T) {
	dir := GetConfigDir()

	// Should contain dropvault
	if filepath.Base(dir) != "dropvault" {
		t.Errorf("Expected directory name 'dropvault', got %q", filepath.Base(dir))
	}
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	// Set environment variables
	_ = os.Setenv("DROPVAULT_LOGGING_LEVEL", "ERROR")
	_ = os.Setenv("DROPVAULT_API_PORT", "9090")
	defer func() {
		_ = os.Unsetenv("DROPVAULT_LOGGING_LEVEL")
		_ = os.Unsetenv("DROPVAULT_API_PORT")
	}()

	// Create minimal config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
logging:
  level: "INFO"

storage:
  root: "` + yamlSafePath(tmpDir) + `/storage"

database:
  type: sqlite

api:
  port: 8080
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify environment variables override config file
	if cfg.Logging.Level != "ERROR" {
		t.Errorf("Expected level 'ERROR' from env var, got %q", cfg.Logging.Level)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("Expected port 9090 from env var, got %d", cfg.API.Port)
	}
}

func TestSweeperConfig_Conversion(t *testing.T) {
	sweep := SweepConfig{
		Interval:          30 * time.Second,
		GraceWindow:       10 * time.Minute,
		SequenceHighWater: 1_000_000,
		ReclaimInterval:   2 * time.Hour,
		SessionInactivity: 12 * time.Hour,
		PruneInterval:     6 * time.Hour,
		UsageRetention:    30 * 24 * time.Hour,
	}

	got := sweep.SweeperConfig()

	if got.Interval != sweep.Interval {
		t.Errorf("Expected interval %v, got %v", sweep.Interval, got.Interval)
	}
	if got.GraceWindow != sweep.GraceWindow {
		t.Errorf("Expected grace window %v, got %v", sweep.GraceWindow, got.GraceWindow)
	}
	if got.SequenceHighWater != sweep.SequenceHighWater {
		t.Errorf("Expected high water %d, got %d", sweep.SequenceHighWater, got.SequenceHighWater)
	}
	if got.ReclaimInterval != sweep.ReclaimInterval {
		t.Errorf("Expected reclaim interval %v, got %v", sweep.ReclaimInterval, got.ReclaimInterval)
	}
	if got.SessionInactivity != sweep.SessionInactivity {
		t.Errorf("Expected session inactivity %v, got %v", sweep.SessionInactivity, got.SessionInactivity)
	}
	if got.PruneInterval != sweep.PruneInterval {
		t.Errorf("Expected prune interval %v, got %v", sweep.PruneInterval, got.PruneInterval)
	}
	if got.UsageRetention != sweep.UsageRetention {
		t.Errorf("Expected usage retention %v, got %v", sweep.UsageRetention, got.UsageRetention)
	}
}
