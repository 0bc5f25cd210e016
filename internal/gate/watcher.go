package gate

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/gamertype/portrait-api/internal/models"
)

const defaultFailOpenAfter = 3

// StatusFunc fetches the server-side status of a token.
type StatusFunc func(ctx context.Context, token string) (models.GateStatusResponse, error)

// ReissueFunc obtains a fresh token after the current one expired.
type ReissueFunc func(ctx context.Context) (string, error)

type WatcherConfig struct {
	Status   StatusFunc
	Reissue  ReissueFunc
	Interval time.Duration
	// FailOpenAfter is how many consecutive failures (transport errors or
	// degraded answers) are needed before the watcher accepts unlocked.
	FailOpenAfter int
	Logger        *zap.Logger
}

// Watcher polls a token on the client side until it unlocks.
type Watcher struct {
	config WatcherConfig
	logger *zap.SugaredLogger
}

func NewWatcher(cfg WatcherConfig) *Watcher {
	if cfg.Interval <= 0 {
		cfg.Interval = 3 * time.Second
	}
	if cfg.FailOpenAfter <= 0 {
		cfg.FailOpenAfter = defaultFailOpenAfter
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Watcher{config: cfg, logger: cfg.Logger.Sugar()}
}

// WatchResult says how polling ended
type WatchResult struct {
	Token    string
	Polls    int
	FailOpen bool
}

// Watch blocks until the token is unlocked or ctx ends. The returned token
// may differ from the input when an expired token was replaced.
func (w *Watcher) Watch(ctx context.Context, token string) (WatchResult, error) {
	res := WatchResult{Token: token}
	failures := 0

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		res.Polls++
		resp, err := w.config.Status(ctx, res.Token)
		switch {
		case err != nil || resp.Degraded:
			failures++
			w.logger.Debugw("Gate poll failed", "token", res.Token, "failures", failures, "error", err)
			if failures >= w.config.FailOpenAfter {
				res.FailOpen = true
				return res, nil
			}
		case resp.Status == models.GateStatusUnlocked:
			return res, nil
		case resp.Status == models.GateStatusExpired:
			failures = 0
			if w.config.Reissue == nil {
				return res, ErrTokenNotFound
			}
			next, err := w.config.Reissue(ctx)
			if err != nil {
				w.logger.Warnw("Gate token reissue failed", "error", err)
			} else {
				w.logger.Infow("Gate token replaced", "old", res.Token, "new", next)
				res.Token = next
			}
		default:
			failures = 0
		}

		select {
		case <-ctx.Done():
			return res, ctx.Err()
		case <-ticker.C:
		}
	}
}
