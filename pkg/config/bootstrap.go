package config

import (
	"fmt"
	"os"

	"github.com/marmos91/dropvault/internal/logger"
	"github.com/marmos91/dropvault/pkg/cache"
	"github.com/marmos91/dropvault/pkg/store"
)

// InitializeStores opens the record store and the session cache described
// by the configuration.
//
// This function orchestrates the persistence bootstrap:
//  1. Opens the record store (SQLite or PostgreSQL) and runs migrations
//  2. Opens the session lookup cache (noop when no cache is configured)
//
// The caller owns both handles and must Close them on shutdown. When the
// cache fails to open, the already opened record store is closed before
// returning.
//
// Example:
//
//	cfg, _ := config.Load("config.yaml")
//	db, sessionCache, err := config.InitializeStores(cfg)
//	if err != nil {
//	    log.Fatalf("Failed to initialize persistence: %v", err)
//	}
//	defer db.Close()
//	defer sessionCache.Close()
func InitializeStores(cfg *Config) (*store.Store, cache.Cache, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("configuration is nil")
	}

	logger.Debug("Initializing persistence from configuration")

	db, err := store.New(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open record store: %w", err)
	}
	logger.Info("Record store ready", "type", string(db.Type()))

	sessionCache, err := cache.New(&cfg.Cache)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to open session cache: %w", err)
	}
	logger.Info("Session cache ready", "cache_type", string(cfg.Cache.Type))

	return db, sessionCache, nil
}

// EnsureStorageRoot creates the configured storage root if it does not
// exist. Chunk files, assembled content and the sweeper all operate
// beneath this directory.
func EnsureStorageRoot(cfg *Config) error {
	if cfg.Storage.Root == "" {
		return fmt.Errorf("storage root is not configured")
	}

	if err := os.MkdirAll(cfg.Storage.Root, 0755); err != nil {
		return fmt.Errorf("failed to create storage root: %w", err)
	}

	return nil
}
