// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

const (
	apiPrefix = "/api/v1"

	// maxResponseBytes caps how much of a response the client reads.
	maxResponseBytes = 8 << 20
)

// envelope is the server's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *struct {
		RequestID  string `json:"request_id"`
		Pagination *struct {
			Total   int  `json:"total"`
			HasMore bool `json:"has_more"`
		} `json:"pagination"`
	} `json:"meta"`
}

// APIError is an error envelope returned by the server.
type APIError struct {
	Status    int         `json:"-"`
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%s (HTTP %d): %s", e.Code, e.Status, e.Message)
}

// Response is a decoded API response.
type Response struct {
	Status   int
	Latency  time.Duration
	Envelope envelope
}

// Decode unmarshals the envelope's data into out.
func (r *Response) Decode(out interface{}) error {
	if out == nil || len(r.Envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Envelope.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

// ClientConfig configures Client.
type ClientConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration

	// RequestsPerSecond limits outgoing calls. Zero uses 10.
	RequestsPerSecond float64
	Burst             int
}

// Client calls the Rinkside API. Calls are rate limited, and a circuit
// breaker stops hammering a server that keeps failing. Only transport
// errors and 5xx responses count as breaker failures.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[*Response]
}

// NewClient validates cfg and returns a client.
func NewClient(cfg ClientConfig) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}

	breaker := gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
		Name:        "rinkside-api",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.Status < http.StatusInternalServerError
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &Client{
		baseURL: base,
		token:   cfg.Token,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		breaker: breaker,
	}, nil
}

// SetToken replaces the bearer token.
func (c *Client) SetToken(token string) {
	c.token = token
}

// BreakerState reports the circuit breaker state ("closed", "open", "half-open").
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

// Do sends a request to path under /api/v1 with an optional JSON body, and
// decodes the envelope data into out. Non-2xx responses return *APIError
// alongside the response.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := c.breaker.Execute(func() (*Response, error) {
		return c.send(ctx, method, path, body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("server unavailable, backing off: %w", err)
		}
		return resp, err
	}
	return resp, resp.Decode(out)
}

// Get is Do with GET and no body.
func (c *Client) Get(ctx context.Context, path string, out interface{}) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post is Do with POST.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) send(ctx context.Context, method, path string, body interface{}) (*Response, error) {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, rdr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = httpResp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	resp := &Response{Status: httpResp.StatusCode, Latency: time.Since(start)}
	if err != nil {
		return resp, fmt.Errorf("read response: %w", err)
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &resp.Envelope); err != nil && httpResp.StatusCode < 300 {
			return resp, fmt.Errorf("decode response: %w", err)
		}
	}
	if httpResp.StatusCode >= 300 {
		apiErr := resp.Envelope.Error
		if apiErr == nil {
			apiErr = &APIError{Message: strings.TrimSpace(string(raw))}
		}
		apiErr.Status = httpResp.StatusCode
		return resp, apiErr
	}
	return resp, nil
}
