// Package cache implements the two-tier TTL store shared by every component:
// a process-local map in front of an optional external key-value tier.
// When the shared tier is unreachable reads and writes degrade to local-only
// and rate counters stop being shared across instances.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	// ErrNotFound reports a miss in every reachable tier.
	ErrNotFound = errors.New("cache: not found")
	// ErrUnavailable reports a local miss while the shared tier is unreachable.
	ErrUnavailable = errors.New("cache: shared tier unavailable")
)

// Prometheus metrics
var (
	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portrait_cache_hits_total",
		Help: "Cache hits by tier",
	}, []string{"tier"})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portrait_cache_misses_total",
		Help: "Cache misses across both tiers",
	})

	sharedFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portrait_cache_shared_failures_total",
		Help: "Shared tier operations that failed and fell back to local",
	}, []string{"op"})

	rateIncrements = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portrait_rate_counter_increments_total",
		Help: "Rate counter increments by backing tier",
	}, []string{"tier"})
)

type entry struct {
	value     []byte
	expiresAt time.Time
	// unsynced is set when the shared tier rejected the write
	unsynced bool
}

type counter struct {
	n         int64
	expiresAt time.Time
}

// Config configures the store
type Config struct {
	// Shared may be nil for a local-only store.
	Shared SharedTier
	Logger *zap.Logger
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Store is constructed once per process and passed to every component that
// caches. Concurrent writers to the same key race; last write wins.
type Store struct {
	mu       sync.RWMutex
	local    map[string]entry
	counters map[string]counter
	shared   SharedTier
	now      func() time.Time
	logger   *zap.SugaredLogger
}

func New(cfg Config) *Store {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Store{
		local:    make(map[string]entry),
		counters: make(map[string]counter),
		shared:   cfg.Shared,
		now:      cfg.Now,
		logger:   cfg.Logger.Sugar(),
	}
}

// Get checks the local tier, then the shared tier. A shared hit warms the
// local tier with the remaining TTL.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	now := s.now()

	s.mu.RLock()
	e, ok := s.local[key]
	s.mu.RUnlock()

	if ok && now.Before(e.expiresAt) {
		cacheHits.WithLabelValues("local").Inc()
		if e.unsynced && s.shared != nil {
			s.resync(ctx, key, e, now)
		}
		return e.value, nil
	}
	if ok {
		s.mu.Lock()
		if cur, still := s.local[key]; still && !now.Before(cur.expiresAt) {
			delete(s.local, key)
		}
		s.mu.Unlock()
	}

	if s.shared == nil {
		cacheMisses.Inc()
		return nil, ErrNotFound
	}

	val, ttl, err := s.shared.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		cacheMisses.Inc()
		return nil, ErrNotFound
	}
	if err != nil {
		sharedFailures.WithLabelValues("get").Inc()
		s.logger.Warnw("Shared cache read failed", "key", key, "error", err)
		return nil, ErrUnavailable
	}

	cacheHits.WithLabelValues("shared").Inc()
	if ttl > 0 {
		s.mu.Lock()
		s.local[key] = entry{value: val, expiresAt: now.Add(ttl)}
		s.mu.Unlock()
	}
	return val, nil
}

// GetFresh reads the shared tier first, for keys another instance may
// rewrite. The local tier answers only when the shared tier is unreachable
// or still lacks a local write it rejected earlier.
func (s *Store) GetFresh(ctx context.Context, key string) ([]byte, error) {
	if s.shared == nil {
		return s.Get(ctx, key)
	}
	now := s.now()

	s.mu.RLock()
	e, ok := s.local[key]
	s.mu.RUnlock()
	if ok && e.unsynced && now.Before(e.expiresAt) {
		cacheHits.WithLabelValues("local").Inc()
		s.resync(ctx, key, e, now)
		return e.value, nil
	}

	val, ttl, err := s.shared.Get(ctx, key)
	switch {
	case err == nil:
		cacheHits.WithLabelValues("shared").Inc()
		s.mu.Lock()
		if ttl > 0 {
			s.local[key] = entry{value: val, expiresAt: now.Add(ttl)}
		}
		s.mu.Unlock()
		return val, nil
	case errors.Is(err, ErrNotFound):
		s.mu.Lock()
		delete(s.local, key)
		s.mu.Unlock()
		cacheMisses.Inc()
		return nil, ErrNotFound
	}

	sharedFailures.WithLabelValues("get").Inc()
	s.logger.Warnw("Shared cache read failed, using local copy", "key", key, "error", err)
	if ok && now.Before(e.expiresAt) {
		cacheHits.WithLabelValues("local").Inc()
		return e.value, nil
	}
	return nil, ErrUnavailable
}

func (s *Store) resync(ctx context.Context, key string, e entry, now time.Time) {
	remaining := e.expiresAt.Sub(now)
	if err := s.shared.Set(ctx, key, e.value, remaining); err != nil {
		sharedFailures.WithLabelValues("resync").Inc()
		return
	}
	s.mu.Lock()
	if cur, ok := s.local[key]; ok && cur.expiresAt.Equal(e.expiresAt) {
		cur.unsynced = false
		s.local[key] = cur
	}
	s.mu.Unlock()
}

// Set writes both tiers. A shared-tier failure is logged and swallowed.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("cache: ttl must be positive")
	}

	e := entry{value: value, expiresAt: s.now().Add(ttl)}
	if s.shared != nil {
		if err := s.shared.Set(ctx, key, value, ttl); err != nil {
			sharedFailures.WithLabelValues("set").Inc()
			s.logger.Warnw("Shared cache write failed, keeping local copy", "key", key, "error", err)
			e.unsynced = true
		}
	}

	s.mu.Lock()
	s.local[key] = e
	s.mu.Unlock()
	return nil
}

// Incr bumps a fixed-window counter. The window's TTL is set only by the
// first increment. The store never enforces a threshold; callers compare
// the returned count against their own policy.
func (s *Store) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if s.shared != nil {
		n, err := s.shared.Incr(ctx, key, ttl)
		if err == nil {
			rateIncrements.WithLabelValues("shared").Inc()
			return n, nil
		}
		sharedFailures.WithLabelValues("incr").Inc()
		s.logger.Warnw("Shared counter failed, counting locally", "key", key, "error", err)
	}

	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.counters[key]
	if !ok || !now.Before(c.expiresAt) {
		c = counter{expiresAt: now.Add(ttl)}
	}
	c.n++
	s.counters[key] = c
	rateIncrements.WithLabelValues("local").Inc()
	return c.n, nil
}

// Ping reports whether the shared tier is reachable. A local-only store is
// always healthy.
func (s *Store) Ping(ctx context.Context) error {
	if s.shared == nil {
		return nil
	}
	return s.shared.Ping(ctx)
}

// Purge drops expired local entries and counters.
func (s *Store) Purge() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, e := range s.local {
		if !now.Before(e.expiresAt) {
			delete(s.local, k)
			removed++
		}
	}
	for k, c := range s.counters {
		if !now.Before(c.expiresAt) {
			delete(s.counters, k)
			removed++
		}
	}
	return removed
}

// RunJanitor purges expired entries every interval until ctx is done.
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Purge(); n > 0 {
				s.logger.Debugw("Purged expired cache entries", "count", n)
			}
		}
	}
}
