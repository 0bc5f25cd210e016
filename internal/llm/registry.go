package llm

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gamertype/portrait-api/internal/models"
)

var (
	// ErrNoProvider means no provider has a usable credential. This is a
	// configuration error, not a per-request failure.
	ErrNoProvider = errors.New("llm: no provider configured")
	// ErrUnknownProvider is returned for an override naming an unregistered provider.
	ErrUnknownProvider = errors.New("llm: unknown or unavailable provider")
)

type registryEntry struct {
	info     models.ProviderInfo
	provider Provider
}

// Registry holds the providers populated at startup, in registration order.
type Registry struct {
	mu        sync.RWMutex
	entries   []registryEntry
	defaultID string
}

func NewRegistry(defaultID string) *Registry {
	return &Registry{defaultID: defaultID}
}

// Register adds an available provider.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, registryEntry{
		info:     models.ProviderInfo{ID: p.ID(), Name: p.Name(), Model: p.Model(), Available: true},
		provider: p,
	})
}

// RegisterUnavailable lists a known provider that lacks credentials.
func (r *Registry) RegisterUnavailable(id, name, model string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, registryEntry{
		info: models.ProviderInfo{ID: id, Name: name, Model: model},
	})
}

// Select resolves the provider for a request: the explicit override, else
// the configured default, else the first available provider.
func (r *Registry) Select(override string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if override != "" {
		if p := r.lookup(override); p != nil {
			return p, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, override)
	}
	if r.defaultID != "" {
		if p := r.lookup(r.defaultID); p != nil {
			return p, nil
		}
	}
	for _, e := range r.entries {
		if e.provider != nil {
			return e.provider, nil
		}
	}
	return nil, ErrNoProvider
}

func (r *Registry) lookup(id string) Provider {
	for _, e := range r.entries {
		if e.info.ID == id && e.provider != nil {
			return e.provider
		}
	}
	return nil
}

// Available reports how many providers can serve requests.
func (r *Registry) Available() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, e := range r.entries {
		if e.provider != nil {
			n++
		}
	}
	return n
}

// List describes every known provider, marking the one Select("") would pick.
func (r *Registry) List() []models.ProviderInfo {
	selected, _ := r.Select("")

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.ProviderInfo, 0, len(r.entries))
	for _, e := range r.entries {
		info := e.info
		info.Default = selected != nil && e.provider == selected
		out = append(out, info)
	}
	return out
}
