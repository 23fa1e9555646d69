package entitlements

import (
	"context"
	"sync"
	"time"

	"github.com/ManuelReschke/PostFox/internal/pkg/backend"
	"github.com/ManuelReschke/PostFox/internal/pkg/events"
	"github.com/ManuelReschke/PostFox/internal/pkg/metrics"
	"github.com/ManuelReschke/PostFox/internal/pkg/platforms"
)

const (
	DefaultInitDeadline = 10 * time.Second
	DefaultFetchTimeout = 8 * time.Second
	DefaultCacheTTL     = 5 * time.Minute
)

// Fetcher is the remote source of truth for plan and usage.
// *backend.Client implements it.
type Fetcher interface {
	GetEntitlement(ctx context.Context) (*backend.Entitlement, error)
	GetArticlesCount(ctx context.Context) (int, error)
	GetImageUsage(ctx context.Context) (int, error)
}

// Options tunes a Service. Zero values select the defaults.
type Options struct {
	InitDeadline time.Duration
	FetchTimeout time.Duration
	CacheTTL     time.Duration
	Evaluator    *Evaluator
	Metrics      *metrics.SyncMetrics
	Now          func() time.Time
}

// Service owns the entitlement and usage state of one session. Only the sync
// methods write state; every other method is a synchronous read.
type Service struct {
	fetcher   Fetcher
	bus       events.Bus
	platforms platforms.Registry
	eval      *Evaluator
	metrics   *metrics.SyncMetrics
	now       func() time.Time

	initDeadline time.Duration
	fetchTimeout time.Duration

	// guards everything below
	mu          sync.RWMutex
	entitlement EntitlementState
	usage       UsageState
	cache       SyncCache
}

// NewService creates a service in the loading state. A nil bus drops
// notifications and a nil registry knows no platforms.
func NewService(fetcher Fetcher, bus events.Bus, registry platforms.Registry, opts Options) *Service {
	if opts.InitDeadline <= 0 {
		opts.InitDeadline = DefaultInitDeadline
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.Evaluator == nil {
		opts.Evaluator = NewDefaultEvaluator()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if bus == nil {
		bus = events.Nop
	}

	return &Service{
		fetcher:      fetcher,
		bus:          bus,
		platforms:    registry,
		eval:         opts.Evaluator,
		metrics:      opts.Metrics,
		now:          opts.Now,
		initDeadline: opts.InitDeadline,
		fetchTimeout: opts.FetchTimeout,
		entitlement:  initialEntitlement(),
		usage:        initialUsage(),
		cache:        SyncCache{TTL: opts.CacheTTL},
	}
}

// Evaluator returns the evaluator backing the service.
func (s *Service) Evaluator() *Evaluator {
	return s.eval
}

// Entitlement returns a copy of the current entitlement state.
func (s *Service) Entitlement() EntitlementState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entitlement.clone()
}

// Usage returns a copy of the current usage state.
func (s *Service) Usage() UsageState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usage
}

// LastSync is the time of the last successful network entitlement sync.
func (s *Service) LastSync() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache.LastSync
}

func (s *Service) snapshot() (EntitlementState, UsageState) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entitlement.clone(), s.usage
}
