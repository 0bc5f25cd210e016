package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/gamertype/portrait-api/internal/models"
)

const maxAttempts = 2

var (
	invocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portrait_llm_invocations_total",
		Help: "Provider invocations by outcome",
	}, []string{"provider", "outcome"})

	correctiveRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portrait_llm_retries_total",
		Help: "Corrective retries issued after an invalid portrait",
	}, []string{"provider"})

	invocationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portrait_llm_invocation_duration_seconds",
		Help:    "Duration of a single provider call",
		Buckets: []float64{1, 2.5, 5, 10, 20, 40, 60, 90, 120},
	}, []string{"provider"})
)

// GenerationError is the terminal failure of one generation request.
type GenerationError struct {
	Provider  string
	Attempts  int
	Transient bool
	Err       error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("portrait generation via %s failed after %d attempt(s): %v", e.Provider, e.Attempts, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

type GenerateInput struct {
	Profile  models.AggregatedProfile
	Stats    models.CardStats
	Rarity   models.Rarity
	Identity models.CardIdentity
	Locale   string
	Provider string
}

type Result struct {
	Portrait models.Portrait
	Provider string
	Attempts int
}

type GeneratorConfig struct {
	Registry  *Registry
	Validator *Validator
	MaxTokens int
	Logger    *zap.Logger
}

// Generator runs the prompt, extract, validate cycle with one corrective retry.
type Generator struct {
	registry  *Registry
	validator *Validator
	maxTokens int
	logger    *zap.SugaredLogger
}

func NewGenerator(cfg GeneratorConfig) *Generator {
	if cfg.Validator == nil {
		cfg.Validator = NewValidator()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Generator{
		registry:  cfg.Registry,
		validator: cfg.Validator,
		maxTokens: cfg.MaxTokens,
		logger:    cfg.Logger.Sugar(),
	}
}

// Generate returns a validated portrait or a *GenerationError. Inputs are
// never mutated.
func (g *Generator) Generate(ctx context.Context, in GenerateInput) (*Result, error) {
	provider, err := g.registry.Select(in.Provider)
	if err != nil {
		return nil, err
	}

	req := Request{
		System:    SystemPrompt(in.Locale),
		Messages:  []Message{{Role: RoleUser, Content: UserPrompt(in.Profile, in.Stats, in.Rarity, in.Identity)}},
		MaxTokens: g.maxTokens,
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		start := time.Now()
		text, err := provider.Complete(ctx, req)
		invocationDuration.WithLabelValues(provider.ID()).Observe(time.Since(start).Seconds())
		if err != nil {
			invocations.WithLabelValues(provider.ID(), "transport_error").Inc()
			g.logger.Warnw("Provider call failed", "provider", provider.ID(), "attempt", attempt, "error", err)
			return nil, &GenerationError{Provider: provider.ID(), Attempts: attempt, Transient: true, Err: err}
		}

		portrait, issues, err := g.parse(text)
		if err == nil {
			invocations.WithLabelValues(provider.ID(), "ok").Inc()
			g.enforceComputed(portrait, in, provider.ID())
			return &Result{Portrait: *portrait, Provider: provider.ID(), Attempts: attempt}, nil
		}

		invocations.WithLabelValues(provider.ID(), "invalid").Inc()
		g.logger.Warnw("Portrait rejected", "provider", provider.ID(), "attempt", attempt, "issues", issues)
		lastErr = err

		if attempt < maxAttempts {
			correctiveRetries.WithLabelValues(provider.ID()).Inc()
			req.Messages = append(req.Messages,
				Message{Role: RoleAssistant, Content: text},
				Message{Role: RoleUser, Content: CorrectionPrompt(issues)},
			)
		}
	}

	return nil, &GenerationError{Provider: provider.ID(), Attempts: maxAttempts, Err: lastErr}
}

func (g *Generator) parse(text string) (*models.Portrait, []string, error) {
	raw, strategy, err := ExtractJSON(text)
	if err != nil {
		var extractErr *ExtractError
		if errors.As(err, &extractErr) {
			return nil, []string{fmt.Sprintf("response contained no JSON object (tried %v)", extractErr.Tried())}, err
		}
		return nil, []string{err.Error()}, err
	}

	portrait, err := g.validator.Portrait(raw)
	if err != nil {
		var valErr *ValidationError
		if errors.As(err, &valErr) {
			return nil, valErr.Issues, err
		}
		return nil, []string{err.Error()}, err
	}
	if strategy != "direct" {
		g.logger.Debugw("Portrait JSON recovered", "strategy", strategy)
	}
	return portrait, nil, nil
}

// enforceComputed replaces echoed card values with the computed ones.
func (g *Generator) enforceComputed(p *models.Portrait, in GenerateInput, providerID string) {
	if p.Rarity != in.Rarity || p.Stats != in.Stats || p.Element != in.Identity.Element || p.Creature != in.Identity.Creature {
		g.logger.Warnw("Model altered computed card values",
			"provider", providerID,
			"rarity", p.Rarity, "expectedRarity", in.Rarity,
			"element", p.Element, "creature", p.Creature,
		)
	}
	p.Rarity = in.Rarity
	p.Stats = in.Stats
	p.Element = in.Identity.Element
	p.Creature = in.Identity.Creature
}
