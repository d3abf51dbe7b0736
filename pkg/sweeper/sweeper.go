// Package sweeper reclaims expired and abandoned upload state on fixed
// intervals. Three independent routines run under one service: the sweep
// (artifact reclamation, expiration flags, hard deletes, identifier
// exhaustion guard), stale-session reclamation, and usage-stat pruning.
// Every routine's failure is logged and retried on its next tick, never
// within the same tick.
package sweeper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/marmos91/dropvault/internal/logger"
	"github.com/marmos91/dropvault/internal/telemetry"
	"github.com/marmos91/dropvault/pkg/metrics"
)

const (
	// DefaultInterval is how often the expiration sweep runs.
	DefaultInterval = time.Minute

	// DefaultGraceWindow is how long a record stays readable after being
	// flagged expired before the hard delete takes it.
	DefaultGraceWindow = 5 * time.Minute

	// DefaultSequenceHighWater is the identifier value past which the
	// exhaustion guard rewinds the sequence.
	DefaultSequenceHighWater = 2_000_000_000

	// DefaultReclaimInterval is how often stale sessions are reclaimed.
	DefaultReclaimInterval = time.Hour

	// DefaultSessionInactivity is how long an uploading session may sit
	// idle before reclamation takes it.
	DefaultSessionInactivity = 24 * time.Hour

	// DefaultPruneInterval is how often usage statistics are pruned.
	DefaultPruneInterval = 24 * time.Hour

	// DefaultUsageRetention is how long usage statistics are kept.
	DefaultUsageRetention = 90 * 24 * time.Hour
)

// sequenceRestartHeadroom is added to the highest live id when the
// exhaustion guard rewinds the sequence, so ids sold between the read and
// the rewind can never collide.
const sequenceRestartHeadroom = 1000

// Store is the persistence surface the sweeper consumes. *store.Store
// satisfies it; tests substitute fakes.
type Store interface {
	ExpiredFilePaths(ctx context.Context, now time.Time) ([]string, error)
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)

	CurrentSequence(ctx context.Context) (int64, error)
	MaxLiveContentID(ctx context.Context) (int64, error)
	RestartSequence(ctx context.Context, next int64) error

	StaleSessionIDs(ctx context.Context, now time.Time, inactivity time.Duration) ([]string, error)
	ChunkPaths(ctx context.Context, uploadIDs []string) ([]string, error)
	DeleteChunkRecords(ctx context.Context, uploadIDs []string) (int64, error)
	DeleteSessions(ctx context.Context, uploadIDs []string) (int64, error)
	OrphanedFilePaths(ctx context.Context) ([]string, error)

	PruneUsageStats(ctx context.Context, cutoff time.Time) (int64, error)
}

// Cache is the cache surface the sweeper consumes. Invalidation is
// best-effort; the sweeper swallows its failures.
type Cache interface {
	Invalidate(ctx context.Context, key string) error
}

// Config contains sweeper configuration. Zero fields take the defaults.
type Config struct {
	Interval          time.Duration
	GraceWindow       time.Duration
	SequenceHighWater int64
	ReclaimInterval   time.Duration
	SessionInactivity time.Duration
	PruneInterval     time.Duration
	UsageRetention    time.Duration
}

// ApplyDefaults fills in missing configuration with default values.
func (c *Config) ApplyDefaults() {
	if c.Interval == 0 {
		c.Interval = DefaultInterval
	}
	if c.GraceWindow == 0 {
		c.GraceWindow = DefaultGraceWindow
	}
	if c.SequenceHighWater == 0 {
		c.SequenceHighWater = DefaultSequenceHighWater
	}
	if c.ReclaimInterval == 0 {
		c.ReclaimInterval = DefaultReclaimInterval
	}
	if c.SessionInactivity == 0 {
		c.SessionInactivity = DefaultSessionInactivity
	}
	if c.PruneInterval == 0 {
		c.PruneInterval = DefaultPruneInterval
	}
	if c.UsageRetention == 0 {
		c.UsageRetention = DefaultUsageRetention
	}
}

// noInvalidation stands in when no cache is configured.
type noInvalidation struct{}

func (noInvalidation) Invalidate(context.Context, string) error { return nil }

// Service owns the timers and runs the reclamation routines. Construct
// with New, then Start; Stop waits for the workers to exit.
type Service struct {
	store       Store
	cache       Cache
	metrics     metrics.Metrics
	config      Config
	storageRoot string

	stopCh     chan struct{}
	doneCh     chan struct{}
	startOnce  sync.Once
	stopOnce   sync.Once
	ctx        context.Context
	cancelFunc context.CancelFunc
}

// New creates a sweeper over the given store. cache may be nil when no
// cache is configured; m may be nil to disable instrumentation.
func New(store Store, cache Cache, m metrics.Metrics, storageRoot string, config Config) *Service {
	config.ApplyDefaults()

	if cache == nil {
		cache = noInvalidation{}
	}
	if m == nil {
		m = metrics.NewNoop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Service{
		store:       store,
		cache:       cache,
		metrics:     m,
		config:      config,
		storageRoot: storageRoot,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
		ctx:         ctx,
		cancelFunc:  cancel,
	}
}

// Start launches the three periodic workers. Idempotent.
func (s *Service) Start() {
	s.startOnce.Do(func() {
		logger.Info("Starting expiration sweeper",
			"interval", s.config.Interval,
			"reclaim_interval", s.config.ReclaimInterval,
			"prune_interval", s.config.PruneInterval)

		var wg sync.WaitGroup
		wg.Add(3)
		go s.runTicker(&wg, s.config.Interval, func(ctx context.Context) {
			s.SweepOnce(ctx)
		})
		go s.runTicker(&wg, s.config.ReclaimInterval, func(ctx context.Context) {
			s.ReclaimOnce(ctx)
		})
		go s.runTicker(&wg, s.config.PruneInterval, func(ctx context.Context) {
			_, _ = s.PruneOnce(ctx)
		})

		go func() {
			wg.Wait()
			close(s.doneCh)
		}()
	})
}

// Stop halts the workers and waits for them to exit. Idempotent.
func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		<-s.doneCh
		s.cancelFunc()
		logger.Info("Expiration sweeper stopped")
	})
}

// runTicker drives one routine on its interval until Stop.
func (s *Service) runTicker(wg *sync.WaitGroup, interval time.Duration, run func(context.Context)) {
	defer wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			run(s.ctx)
		}
	}
}

// failPhase records one failed phase: logged, counted, carried in the
// report. The next phase still runs.
func (s *Service) failPhase(ctx context.Context, errs *[]string, phase string, err error) {
	logger.Error("Sweep phase failed", "phase", phase, "error", err)
	telemetry.RecordError(ctx, fmt.Errorf("%s: %w", phase, err))
	s.metrics.PhaseFailed(phase)
	*errs = append(*errs, phase+": "+err.Error())
}
