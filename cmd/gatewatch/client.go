package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"github.com/gamertype/portrait-api/internal/models"
)

type apiClient struct {
	baseURL string
	timeout time.Duration
	http    *fasthttp.Client
}

func newAPIClient(baseURL string, timeout time.Duration) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
	}
}

func (c *apiClient) do(ctx context.Context, method, path string, body []byte, out any) (int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	if body != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return 0, err
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return resp.StatusCode(), fmt.Errorf("decode %s (status %d): %w", path, resp.StatusCode(), err)
	}
	return resp.StatusCode(), nil
}

// CreateGate issues a token. A store failure on the server still yields the
// plain bot link, which is returned alongside the error.
func (c *apiClient) CreateGate(ctx context.Context, steamID64, locale string) (*models.GateCreateResponse, error) {
	body, err := json.Marshal(models.GateCreateRequest{SteamID64: steamID64, Locale: locale})
	if err != nil {
		return nil, err
	}
	var out models.GateCreateResponse
	status, err := c.do(ctx, fasthttp.MethodPost, "/api/gate/create", body, &out)
	if err != nil {
		return nil, err
	}
	if status != fasthttp.StatusOK || out.Error || out.Token == "" {
		return &out, fmt.Errorf("gate create failed with status %d", status)
	}
	return &out, nil
}

// GateStatus satisfies gate.StatusFunc.
func (c *apiClient) GateStatus(ctx context.Context, token string) (models.GateStatusResponse, error) {
	var out models.GateStatusResponse
	status, err := c.do(ctx, fasthttp.MethodGet, "/api/gate/status?token="+url.QueryEscape(token), nil, &out)
	if err != nil {
		return out, err
	}
	if status != fasthttp.StatusOK {
		return out, fmt.Errorf("gate status returned %d", status)
	}
	return out, nil
}
