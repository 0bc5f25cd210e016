package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

// GetJSON decodes the cached value at key into out.
func (s *Store) GetJSON(ctx context.Context, key string, out any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode cached %s: %w", key, err)
	}
	return nil
}

// GetFreshJSON is GetJSON over GetFresh.
func (s *Store) GetFreshJSON(ctx context.Context, key string, out any) error {
	raw, err := s.GetFresh(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode cached %s: %w", key, err)
	}
	return nil
}

// SetJSON encodes value and stores it under key.
func (s *Store) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw, ttl)
}

// GetOrLoad returns the cached value for key, or calls load and caches its
// result. Cache failures never fail the call; only load errors propagate.
// Two concurrent callers may both load; the later write wins.
func GetOrLoad[T any](ctx context.Context, s *Store, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, error) {
	var cached T
	err := s.GetJSON(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrUnavailable) {
		s.logger.Warnw("Discarding undecodable cache entry", "key", key, "error", err)
	}

	val, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if err := s.SetJSON(ctx, key, val, ttl); err != nil {
		s.logger.Warnw("Failed to cache loaded value", "key", key, "error", err)
	}
	return val, nil
}
