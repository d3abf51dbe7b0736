// Package cache provides an optional lookup cache for upload session
// metadata. Reclaiming a session must leave no cached copy behind, so the
// sweeper invalidates entries here after deleting rows; a cache failure
// never fails the reclamation. The noop backend serves deployments that
// run without one.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrCacheMiss indicates the key is not present in the cache.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the minimal surface the upload plane needs: write-through with
// TTL, point reads, and invalidation on reclaim.
type Cache interface {
	// Set stores value under key for at most ttl. A zero ttl means no
	// expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get returns the value stored under key, or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Invalidate removes key. Removing an absent key is not an error.
	Invalidate(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// CacheType defines the supported cache backends.
type CacheType string

const (
	// CacheTypeNone disables caching.
	CacheTypeNone CacheType = "none"

	// CacheTypeRedis uses a Redis server (multi-node deployments).
	CacheTypeRedis CacheType = "redis"

	// CacheTypeBadger uses an embedded BadgerDB (single-node).
	CacheTypeBadger CacheType = "badger"
)

// RedisConfig contains Redis-specific configuration.
type RedisConfig struct {
	// Addr is the server address, host:port.
	Addr     string
	Password string
	DB       int
}

// BadgerConfig contains BadgerDB-specific configuration.
type BadgerConfig struct {
	// Path is the cache directory. Empty runs BadgerDB in memory.
	Path string
}

// Config contains cache configuration.
type Config struct {
	Type   CacheType
	Redis  RedisConfig
	Badger BadgerConfig
}

// ApplyDefaults fills in missing configuration with default values.
func (c *Config) ApplyDefaults() {
	if c.Type == "" {
		c.Type = CacheTypeNone
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Type {
	case CacheTypeNone, CacheTypeBadger:
		return nil
	case CacheTypeRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis address is required")
		}
		return nil
	default:
		return fmt.Errorf("unsupported cache type: %s", c.Type)
	}
}

// New creates the cache backend described by config.
func New(config *Config) (Cache, error) {
	if config == nil {
		config = &Config{}
	}

	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cache configuration: %w", err)
	}

	switch config.Type {
	case CacheTypeNone:
		return NewNoop(), nil
	case CacheTypeRedis:
		return newRedisCache(&config.Redis)
	case CacheTypeBadger:
		return newBadgerCache(&config.Badger)
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", config.Type)
	}
}

// SessionKey returns the cache key for an upload session.
func SessionKey(uploadID string) string {
	return fmt.Sprintf("upload:session:%s", uploadID)
}
