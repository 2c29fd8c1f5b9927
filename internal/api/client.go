// Package api provides a client for the cloud dashboard REST endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is where the metrics API listens by default.
	DefaultBaseURL = "http://127.0.0.1:8010"
	// DefaultChatURL is where the chat service listens by default.
	DefaultChatURL = "http://127.0.0.1:8001"

	defaultTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
	userAgent      = "cloud9/1.0"
)

// ErrUnavailable indicates the upstream answered with a gateway or availability error.
var ErrUnavailable = errors.New("api: service unavailable")

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api: %s: unexpected status %d", e.Path, e.Code)
}

// Is lets errors.Is match ErrUnavailable for 502/503/504.
func (e *StatusError) Is(target error) bool {
	if target != ErrUnavailable {
		return false
	}
	switch e.Code {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL    string
	ChatURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client issues single-shot requests against the dashboard API and the chat service.
type Client struct {
	baseURL string
	chatURL string
	timeout time.Duration
	http    *http.Client
}

// NewClient creates a client from opts.
func NewClient(opts Options) *Client {
	c := &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		chatURL: strings.TrimRight(opts.ChatURL, "/"),
		timeout: opts.Timeout,
		http:    opts.HTTPClient,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.chatURL == "" {
		c.chatURL = DefaultChatURL
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	return c
}

// BaseURL returns the dashboard API base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Timeout returns the per-request timeout in effect.
func (c *Client) Timeout() time.Duration { return c.timeout }

// Metrics fetches the spend/idle/savings summary.
func (c *Client) Metrics(ctx context.Context) (Metrics, error) {
	var m Metrics
	err := c.getJSON(ctx, "/metrics", nil, &m)
	return m, err
}

// Security fetches the current security posture.
func (c *Client) Security(ctx context.Context) (SecurityReport, error) {
	var r SecurityReport
	err := c.getJSON(ctx, "/security", nil, &r)
	return r, err
}

// SecurityTrend fetches the daily compliance score trend.
func (c *Client) SecurityTrend(ctx context.Context) ([]TrendPoint, error) {
	var pts []TrendPoint
	err := c.getJSON(ctx, "/security/trend", nil, &pts)
	return pts, err
}

// Instances lists compute instances for a provider.
func (c *Client) Instances(ctx context.Context, provider string) ([]Instance, error) {
	var r instancesResponse
	err := c.getJSON(ctx, "/instances", providerQuery(provider), &r)
	return r.Instances, err
}

// Buckets lists storage buckets for a provider.
func (c *Client) Buckets(ctx context.Context, provider string) ([]Bucket, error) {
	var r storageResponse
	err := c.getJSON(ctx, "/storage", providerQuery(provider), &r)
	return r.Buckets, err
}

// IdleResources fetches resources the backend classified as idle.
func (c *Client) IdleResources(ctx context.Context) ([]IdleResource, error) {
	var r idleResponse
	err := c.getJSON(ctx, "/ai/idle-detection", nil, &r)
	return r.IdleResources, err
}

// SpendHistory fetches the monthly spend arrays.
func (c *Client) SpendHistory(ctx context.Context) (SpendHistory, error) {
	var h SpendHistory
	err := c.getJSON(ctx, "/spend-history", nil, &h)
	return h, err
}

// Optimize asks the backend for rightsizing recommendations.
func (c *Client) Optimize(ctx context.Context) ([]Recommendation, error) {
	body, err := c.do(ctx, http.MethodPost, c.baseURL, "/optimizer", nil, nil)
	if err != nil {
		return nil, err
	}
	var r optimizerResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("api: parsing /optimizer: %w", err)
	}
	return r.Recommendations, nil
}

// Ask sends a question to the chat service and returns its answer.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	payload, err := json.Marshal(chatRequest{Question: question})
	if err != nil {
		return "", fmt.Errorf("api: encoding question: %w", err)
	}
	body, err := c.do(ctx, http.MethodPost, c.chatURL, "/chat", nil, payload)
	if err != nil {
		return "", err
	}
	var r chatResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return "", fmt.Errorf("api: parsing /chat: %w", err)
	}
	return r.Response, nil
}

func providerQuery(provider string) url.Values {
	if provider == "" {
		return nil
	}
	return url.Values{"provider": []string{provider}}
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.do(ctx, http.MethodGet, c.baseURL, path, query, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("api: parsing %s: %w", path, err)
	}
	return nil
}

// do performs one request and returns the response body.
func (c *Client) do(ctx context.Context, method, base, path string, query url.Values, payload []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("api: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Path: path, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("api: reading %s: %w", path, err)
	}
	return body, nil
}
