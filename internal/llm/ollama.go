package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	OllamaID           = "ollama"
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "qwen3:8b"
)

// OllamaConfig configures a local Ollama server.
type OllamaConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// OllamaProvider calls Ollama's /api/chat endpoint without streaming.
type OllamaProvider struct {
	cfg        OllamaConfig
	httpClient *http.Client
}

func NewOllamaProvider(cfg OllamaConfig) *OllamaProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOllamaURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultOllamaModel
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &OllamaProvider{cfg: cfg, httpClient: newHTTPClient(cfg.Timeout)}
}

func (p *OllamaProvider) ID() string    { return OllamaID }
func (p *OllamaProvider) Name() string  { return "Ollama (local)" }
func (p *OllamaProvider) Model() string { return p.cfg.Model }

type ollamaChatRequest struct {
	Model    string         `json:"model"`
	Messages []Message      `json:"messages"`
	Stream   bool           `json:"stream"`
	Format   string         `json:"format,omitempty"`
	Options  map[string]any `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Message Message `json:"message"`
	Done    bool    `json:"done"`
}

func (p *OllamaProvider) Complete(ctx context.Context, req Request) (string, error) {
	messages := make([]Message, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, Message{Role: "system", Content: req.System})
	}
	messages = append(messages, req.Messages...)

	body, err := json.Marshal(ollamaChatRequest{
		Model:    p.cfg.Model,
		Messages: messages,
		Stream:   false,
		Format:   "json",
		Options:  map[string]any{"num_predict": maxTokens(req)},
	})
	if err != nil {
		return "", fmt.Errorf("marshal ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build ollama request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", statusError(OllamaID, res)
	}

	var payload ollamaChatResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}
	if strings.TrimSpace(payload.Message.Content) == "" {
		return "", ErrEmptyCompletion
	}
	return payload.Message.Content, nil
}
