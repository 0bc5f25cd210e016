// Package gate implements the unlock-token lifecycle: a token is issued
// pending, the bot confirms a channel subscription, and the token becomes
// unlocked for the rest of its life.
package gate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/gamertype/portrait-api/internal/cache"
	"github.com/gamertype/portrait-api/internal/i18n"
	"github.com/gamertype/portrait-api/internal/models"
)

const tokenLength = 16

var (
	// ErrTokenNotFound means the token never existed or its TTL ran out.
	ErrTokenNotFound = errors.New("gate: token not found")

	gateTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portrait_gate_transitions_total",
		Help: "Gate token transitions by target state",
	}, []string{"to"})

	gateFailOpen = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portrait_gate_fail_open_total",
		Help: "Status checks answered unlocked because the store was unreachable",
	})
)

// MembershipChecker reports whether a messaging user belongs to the gating channel
type MembershipChecker interface {
	IsMember(ctx context.Context, userID int64) (bool, error)
}

// Outcome is the result of a bot-side confirmation attempt
type Outcome int

const (
	OutcomeUnlocked Outcome = iota
	OutcomeAlreadyUnlocked
	OutcomeNotSubscribed
	OutcomeExpired
)

type Config struct {
	Store   *cache.Store
	Checker MembershipChecker
	TTL     time.Duration
	Logger  *zap.Logger
	Now     func() time.Time
}

type Service struct {
	store   *cache.Store
	checker MembershipChecker
	ttl     time.Duration
	logger  *zap.SugaredLogger
	now     func() time.Time
}

func NewService(cfg Config) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = cache.GateTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{
		store:   cfg.Store,
		checker: cfg.Checker,
		ttl:     cfg.TTL,
		logger:  cfg.Logger.Sugar(),
		now:     cfg.Now,
	}
}

func newToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:tokenLength]
}

// Issue stores a new pending token for the player.
func (s *Service) Issue(ctx context.Context, playerID, locale string) (*models.GateToken, error) {
	tok := &models.GateToken{
		Token:     newToken(),
		PlayerID:  playerID,
		Locale:    i18n.Normalize(locale),
		Status:    models.GateStatusPending,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.SetJSON(ctx, cache.GateKey(tok.Token), tok, s.ttl); err != nil {
		return nil, fmt.Errorf("store gate token: %w", err)
	}
	gateTransitions.WithLabelValues(string(models.GateStatusPending)).Inc()
	s.logger.Infow("Gate token issued", "steam_id", playerID, "token", tok.Token)
	return tok, nil
}

// Lookup returns the stored token or ErrTokenNotFound.
func (s *Service) Lookup(ctx context.Context, token string) (*models.GateToken, error) {
	if token == "" {
		return nil, ErrTokenNotFound
	}
	var tok models.GateToken
	err := s.store.GetFreshJSON(ctx, cache.GateKey(token), &tok)
	if errors.Is(err, cache.ErrNotFound) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tok, nil
}

// Status is read-only. A missing token reads as expired; an unreachable
// store reads as unlocked with degraded set, leaving the decision to the
// client's failure threshold.
func (s *Service) Status(ctx context.Context, token string) (status models.GateStatus, degraded bool) {
	tok, err := s.Lookup(ctx, token)
	switch {
	case err == nil:
		return tok.Status, false
	case errors.Is(err, ErrTokenNotFound):
		return models.GateStatusExpired, false
	case errors.Is(err, cache.ErrUnavailable):
		gateFailOpen.Inc()
		s.logger.Warnw("Gate store unavailable, failing open", "token", token, "error", err)
		return models.GateStatusUnlocked, true
	default:
		s.logger.Warnw("Unreadable gate token", "token", token, "error", err)
		return models.GateStatusExpired, false
	}
}

// Confirm runs the subscription check for userID and unlocks the token
// when it passes. An unlocked token is never written back as pending.
func (s *Service) Confirm(ctx context.Context, token string, userID, chatID int64) (Outcome, *models.GateToken, error) {
	tok, err := s.Lookup(ctx, token)
	if errors.Is(err, ErrTokenNotFound) {
		return OutcomeExpired, nil, nil
	}
	if err != nil {
		return 0, nil, err
	}
	if tok.Status == models.GateStatusUnlocked {
		return OutcomeAlreadyUnlocked, tok, nil
	}

	member, err := s.checker.IsMember(ctx, userID)
	if err != nil {
		return 0, tok, fmt.Errorf("membership check: %w", err)
	}
	if !member {
		return OutcomeNotSubscribed, tok, nil
	}

	unlockedAt := s.now().UTC()
	tok.Status = models.GateStatusUnlocked
	tok.UnlockedAt = &unlockedAt
	tok.ChatID = chatID
	if err := s.store.SetJSON(ctx, cache.GateKey(token), tok, s.ttl); err != nil {
		return 0, tok, fmt.Errorf("store unlocked token: %w", err)
	}
	gateTransitions.WithLabelValues(string(models.GateStatusUnlocked)).Inc()
	s.logger.Infow("Gate token unlocked", "steam_id", tok.PlayerID, "token", token)
	return OutcomeUnlocked, tok, nil
}
