// Package llm turns a scored profile into a validated Portrait using one of
// several interchangeable chat-completion providers.
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Chat roles shared by every provider
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const (
	defaultMaxTokens = 4000
	errorBodyLimit   = 4096
)

// Message is one conversation turn
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a provider-neutral completion request
type Request struct {
	System    string
	Messages  []Message
	MaxTokens int
}

// Provider is a chat model that returns free-form text for a conversation
type Provider interface {
	ID() string
	Name() string
	Model() string
	Complete(ctx context.Context, req Request) (string, error)
}

// ErrEmptyCompletion is returned when a provider answers without any text.
var ErrEmptyCompletion = errors.New("llm: empty completion")

// StatusError is a non-2xx provider response
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Body)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

func statusError(provider string, res *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(res.Body, errorBodyLimit))
	if err != nil {
		return fmt.Errorf("%s: read error body: %w", provider, err)
	}
	return &StatusError{Provider: provider, StatusCode: res.StatusCode, Body: strings.TrimSpace(string(body))}
}

func maxTokens(req Request) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	return defaultMaxTokens
}
