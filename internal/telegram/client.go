// Package telegram is a minimal Bot API client plus the /start handler that
// confirms gate tokens.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const DefaultBaseURL = "https://api.telegram.org"

// ErrNotConfigured is returned by every call when no bot token is set.
var ErrNotConfigured = errors.New("telegram: bot token not configured")

// APIError is an ok=false answer from the Bot API
type APIError struct {
	Method      string
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s: %d %s", e.Method, e.Code, e.Description)
}

type Config struct {
	Token     string
	BaseURL   string
	ChannelID string
	Timeout   time.Duration
	Logger    *zap.Logger
}

type Client struct {
	config Config
	http   *fasthttp.Client
	logger *zap.SugaredLogger
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Client{
		config: cfg,
		http: &fasthttp.Client{
			ReadTimeout:         cfg.Timeout,
			WriteTimeout:        cfg.Timeout,
			MaxIdleConnDuration: time.Minute,
		},
		logger: cfg.Logger.Sugar(),
	}
}

type apiResponse[T any] struct {
	OK          bool   `json:"ok"`
	Result      T      `json:"result"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

func call[T any](ctx context.Context, c *Client, method string, params any) (T, error) {
	var zero T
	if c.config.Token == "" {
		return zero, ErrNotConfigured
	}
	body, err := json.Marshal(params)
	if err != nil {
		return zero, fmt.Errorf("encode %s: %w", method, err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.config.BaseURL + "/bot" + c.config.Token + "/" + method)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	deadline := time.Now().Add(c.config.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return zero, fmt.Errorf("telegram %s: %w", method, err)
	}

	var out apiResponse[T]
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return zero, fmt.Errorf("decode %s (status %d): %w", method, resp.StatusCode(), err)
	}
	if !out.OK {
		return zero, &APIError{Method: method, Code: out.ErrorCode, Description: out.Description}
	}
	return out.Result, nil
}

type ChatMember struct {
	Status string `json:"status"`
	User   User   `json:"user"`
}

// Subscribed reports whether the status counts as channel membership.
func (m ChatMember) Subscribed() bool {
	switch m.Status {
	case "member", "administrator", "creator":
		return true
	}
	return false
}

func (c *Client) GetChatMember(ctx context.Context, chatID string, userID int64) (*ChatMember, error) {
	m, err := call[ChatMember](ctx, c, "getChatMember", map[string]any{"chat_id": chatID, "user_id": userID})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := call[Message](ctx, c, "sendMessage", map[string]any{"chat_id": chatID, "text": text})
	return err
}

// IsMember checks the configured gating channel.
func (c *Client) IsMember(ctx context.Context, userID int64) (bool, error) {
	m, err := c.GetChatMember(ctx, c.config.ChannelID, userID)
	if err != nil {
		return false, err
	}
	return m.Subscribed(), nil
}

// BotLink is the deep link that opens the bot with /start <token>.
func BotLink(username, token string) string {
	link := "https://t.me/" + strings.TrimPrefix(username, "@")
	if token == "" {
		return link
	}
	return link + "?start=" + token
}

// ChannelURL turns an @handle into a public link. Numeric ids have none.
func ChannelURL(channelID string) string {
	if !strings.HasPrefix(channelID, "@") {
		return ""
	}
	return "https://t.me/" + strings.TrimPrefix(channelID, "@")
}
