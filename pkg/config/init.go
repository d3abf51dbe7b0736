package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// configFileHeader is prepended to generated configuration files.
const configFileHeader = `# DropVault Configuration File
#
# Generated by 'dropvault init'. Every value below can be overridden with
# a DROPVAULT_* environment variable, e.g. DROPVAULT_LOGGING_LEVEL=DEBUG
# or DROPVAULT_SWEEP_INTERVAL=30s.
#
# Durations are accepted as Go duration strings ("30s", "5m", "1h").
# Sizes are accepted as human-readable strings ("512MB", "1Gi").

`

// InitConfig creates a default configuration file at the default location
// ($XDG_CONFIG_HOME/dropvault/config.yaml or ~/.config/dropvault/config.yaml).
//
// Returns the path of the created file. When force is false and a file
// already exists, an error is returned and the file is left untouched.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()

	if err := InitConfigToPath(path, force); err != nil {
		return "", err
	}

	return path, nil
}

// InitConfigToPath creates a default configuration file at the given path.
// Parent directories are created as needed.
//
// When force is false and a file already exists, an error is returned and
// the file is left untouched.
func InitConfigToPath(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", path)
	}

	// Create parent directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := GetDefaultConfig()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}

	content := append([]byte(configFileHeader), data...)

	// 0600: config files may carry database credentials
	if err := os.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
