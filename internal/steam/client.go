// Package steam talks to the Steam Web API, the Steam store and SteamSpy.
package steam

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/gamertype/portrait-api/internal/cache"
	"github.com/gamertype/portrait-api/internal/models"
)

const (
	DefaultAPIBaseURL   = "https://api.steampowered.com"
	DefaultSpyBaseURL   = "https://steamspy.com/api.php"
	DefaultStoreBaseURL = "https://store.steampowered.com/api"
	defaultTimeout      = 10 * time.Second
)

var (
	steamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portrait_steam_requests_total",
		Help: "Outbound Steam, store and SteamSpy requests",
	}, []string{"endpoint", "outcome"})

	steamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portrait_steam_request_duration_seconds",
		Help:    "Duration of outbound platform requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
)

// StatusError is a non-200 answer from an upstream endpoint
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Endpoint, e.StatusCode)
}

// Config configures the client
type Config struct {
	APIKey       string
	APIBaseURL   string
	SpyBaseURL   string
	StoreBaseURL string
	Timeout      time.Duration
	Cache        *cache.Store
	Logger       *zap.Logger
}

// Client is safe for concurrent use.
type Client struct {
	cfg    Config
	http   *fasthttp.Client
	cache  *cache.Store
	logger *zap.SugaredLogger
}

func NewClient(cfg Config) *Client {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.SpyBaseURL == "" {
		cfg.SpyBaseURL = DefaultSpyBaseURL
	}
	if cfg.StoreBaseURL == "" {
		cfg.StoreBaseURL = DefaultStoreBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.New(cache.Config{Logger: cfg.Logger})
	}
	return &Client{
		cfg: cfg,
		http: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         cfg.Timeout,
			WriteTimeout:        cfg.Timeout,
			MaxIdleConnDuration: time.Minute,
		},
		cache:  cfg.Cache,
		logger: cfg.Logger.Sugar(),
	}
}

func (c *Client) apiURL(path string, params url.Values) string {
	params.Set("key", c.cfg.APIKey)
	return c.cfg.APIBaseURL + path + "?" + params.Encode()
}

// doRequest GETs rawURL and decodes a 200 body into T. Every failure,
// including timeouts, comes back as a transient STEAM_UNAVAILABLE error
// wrapping the cause.
func doRequest[T any](ctx context.Context, c *Client, endpoint, rawURL string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(rawURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline := time.Now().Add(c.cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	start := time.Now()
	err := c.http.DoDeadline(req, resp, deadline)
	steamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		outcome := "error"
		if errors.Is(err, fasthttp.ErrTimeout) {
			outcome = "timeout"
		}
		steamRequests.WithLabelValues(endpoint, outcome).Inc()
		return nil, models.Unavailable("Steam API unavailable", fmt.Errorf("%s: %w", endpoint, err))
	}

	if status := resp.StatusCode(); status != fasthttp.StatusOK {
		steamRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
		msg := "Steam API unavailable"
		if status == fasthttp.StatusTooManyRequests {
			msg = "Steam API rate limited"
		}
		return nil, models.Unavailable(msg, &StatusError{Endpoint: endpoint, StatusCode: status})
	}
	steamRequests.WithLabelValues(endpoint, "ok").Inc()

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, models.Unavailable("Steam API returned malformed data", fmt.Errorf("%s: decode: %w", endpoint, err))
	}
	return &result, nil
}

func hasStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
