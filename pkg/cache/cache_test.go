package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSessionKey(t *testing.T) {
	key := SessionKey("abc-123")
	if key != "upload:session:abc-123" {
		t.Errorf("SessionKey = %q, expected 'upload:session:abc-123'", key)
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	if cfg.Type != CacheTypeNone {
		t.Errorf("expected default type none, got %s", cfg.Type)
	}
}

func TestConfigValidation(t *testing.T) {
	t.Run("redis requires address", func(t *testing.T) {
		cfg := &Config{Type: CacheTypeRedis}
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for missing redis address")
		}
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		cfg := &Config{Type: "memcached"}
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for unsupported cache type")
		}
	})

	t.Run("badger needs no path", func(t *testing.T) {
		cfg := &Config{Type: CacheTypeBadger}
		if err := cfg.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestNewDefaultsToNoop(t *testing.T) {
	c, err := New(nil)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	defer c.Close()

	if _, ok := c.(noopCache); !ok {
		t.Errorf("expected noop cache, got %T", c)
	}
}

func TestNoopCache(t *testing.T) {
	c := NewNoop()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set should succeed: %v", err)
	}

	_, err := c.Get(ctx, "k")
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}

	if err := c.Invalidate(ctx, "k"); err != nil {
		t.Errorf("invalidate should succeed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("close should succeed: %v", err)
	}
}
