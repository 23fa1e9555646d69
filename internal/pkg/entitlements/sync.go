package entitlements

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/sync/errgroup"

	"github.com/ManuelReschke/PostFox/internal/pkg/metrics"
)

const (
	kindInit        = "init"
	kindEntitlement = "entitlement"
	kindUsage       = "usage"
)

var (
	errNoFetcher        = errors.New("no backend configured")
	errUsageUnavailable = errors.New("usage counters unavailable")
)

// Init synchronizes entitlement and usage concurrently under the init
// deadline. If either sync fails or the deadline passes, both records are
// reset to the free-tier fallback. Init always leaves both records settled.
func (s *Service) Init(ctx context.Context) {
	start := s.now()
	ctx, cancel := context.WithTimeout(ctx, s.initDeadline)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.syncEntitlement(gctx)
		return err
	})
	g.Go(func() error {
		_, err := s.syncUsage(gctx)
		return err
	})

	// fetchWithin returns once gctx is done, so Wait is bounded by the
	// deadline. The fallback is written after both writers have finished.
	if err := g.Wait(); err != nil {
		s.mu.Lock()
		s.entitlement = FallbackEntitlement()
		s.usage = FallbackUsage()
		// a half-successful init must not pin the fallback in the cache
		s.cache.LastSync = time.Time{}
		s.mu.Unlock()
		s.metrics.RecordSync(kindInit, metrics.OutcomeFallback)
		log.Warnf("[Entitlements] Init failed after %s, using free plan defaults: %v", s.now().Sub(start), err)
		return
	}
	s.metrics.RecordSync(kindInit, metrics.OutcomeSuccess)
	log.Infof("[Entitlements] Init completed in %s", s.now().Sub(start))
}

// SyncEntitlement returns the cached entitlement while it is fresh and
// otherwise fetches it. Any failure replaces the state with the free-tier
// fallback.
func (s *Service) SyncEntitlement(ctx context.Context) EntitlementState {
	st, _ := s.syncEntitlement(ctx)
	return st
}

// SyncUsage fetches both usage counters concurrently. A counter that cannot
// be fetched keeps its previous value; if neither can, both reset to zero.
func (s *Service) SyncUsage(ctx context.Context) UsageState {
	st, _ := s.syncUsage(ctx)
	return st
}

// Refresh invalidates the cache and re-syncs entitlement, then usage.
func (s *Service) Refresh(ctx context.Context) PlanSnapshot {
	s.mu.Lock()
	s.cache.LastSync = time.Time{}
	s.mu.Unlock()

	s.syncEntitlement(ctx)
	s.syncUsage(ctx)
	return s.PlanSnapshot()
}

func (s *Service) syncEntitlement(ctx context.Context) (EntitlementState, error) {
	now := s.now()

	s.mu.Lock()
	if !s.entitlement.IsLoading && s.cache.Fresh(now) {
		cached := s.entitlement.clone()
		s.mu.Unlock()
		s.metrics.RecordSync(kindEntitlement, metrics.OutcomeCached)
		return cached, nil
	}
	s.entitlement.IsLoading = true
	s.mu.Unlock()

	remote, err := fetchWithin(ctx, s.fetchTimeout, func(ctx context.Context) (*EntitlementState, error) {
		if s.fetcher == nil {
			return nil, errNoFetcher
		}
		p, err := s.fetcher.GetEntitlement(ctx)
		if err != nil {
			return nil, err
		}
		return &EntitlementState{
			Plan:      NormalizePlan(p.Plan),
			ExpiresAt: cloneTime(p.ExpiresAt),
			IsPro:     p.IsPro,
			IsExpired: p.IsExpired,
		}, nil
	})
	s.metrics.ObserveDuration(kindEntitlement, s.now().Sub(now))

	if err != nil {
		fallback := FallbackEntitlement()
		s.mu.Lock()
		s.entitlement = fallback
		s.mu.Unlock()
		s.metrics.RecordSync(kindEntitlement, metrics.OutcomeFallback)
		log.Warnf("[Entitlements] Entitlement sync failed, falling back to free plan: %v", err)
		return fallback, fmt.Errorf("sync entitlement: %w", err)
	}

	s.mu.Lock()
	s.entitlement = *remote
	s.cache.LastSync = s.now()
	s.mu.Unlock()
	s.metrics.RecordSync(kindEntitlement, metrics.OutcomeSuccess)
	log.Debugf("[Entitlements] Entitlement synced: plan=%s pro=%t expired=%t", remote.Plan, remote.IsPro, remote.IsExpired)
	return remote.clone(), nil
}

type usageCounts struct {
	articles *int
	images   *int
}

func (s *Service) syncUsage(ctx context.Context) (UsageState, error) {
	start := s.now()

	s.mu.Lock()
	s.usage.IsLoading = true
	s.mu.Unlock()

	counts, err := fetchWithin(ctx, s.fetchTimeout, func(ctx context.Context) (usageCounts, error) {
		var c usageCounts
		if s.fetcher == nil {
			return c, errNoFetcher
		}
		// each counter is fetched independently; a failure only loses that counter
		var g errgroup.Group
		g.Go(func() error {
			if v, err := s.fetcher.GetArticlesCount(ctx); err == nil {
				c.articles = &v
			} else {
				log.Warnf("[Entitlements] Articles count unavailable: %v", err)
			}
			return nil
		})
		g.Go(func() error {
			if v, err := s.fetcher.GetImageUsage(ctx); err == nil {
				c.images = &v
			} else {
				log.Warnf("[Entitlements] Image usage unavailable: %v", err)
			}
			return nil
		})
		_ = g.Wait()
		if c.articles == nil && c.images == nil {
			return c, errUsageUnavailable
		}
		return c, nil
	})
	s.metrics.ObserveDuration(kindUsage, s.now().Sub(start))

	if err != nil {
		s.mu.Lock()
		s.usage = FallbackUsage()
		s.mu.Unlock()
		s.metrics.RecordSync(kindUsage, metrics.OutcomeFallback)
		log.Warnf("[Entitlements] Usage sync failed, resetting counters: %v", err)
		return FallbackUsage(), fmt.Errorf("sync usage: %w", err)
	}

	s.mu.Lock()
	if counts.articles != nil {
		s.usage.TotalArticles = *counts.articles
	}
	if counts.images != nil {
		s.usage.MonthlyImagesUsed = *counts.images
	}
	s.usage.IsLoading = false
	out := s.usage
	s.mu.Unlock()

	outcome := metrics.OutcomeSuccess
	if counts.articles == nil || counts.images == nil {
		outcome = metrics.OutcomePartial
	}
	s.metrics.RecordSync(kindUsage, outcome)
	return out, nil
}

// fetchWithin runs fetch with a context that is cancelled after timeout.
// A fetch that ignores cancellation is abandoned so the caller still returns
// on time; its late result is dropped.
func fetchWithin[T any](ctx context.Context, timeout time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		val T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fetch(ctx)
		ch <- result{val: v, err: err}
	}()

	select {
	case r := <-ch:
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
