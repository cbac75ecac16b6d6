// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package apiclient is the single gateway to the community REST backend.
// Every call carries the bearer token found in its context and every
// failure is classified into a Kind.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/connect-web/internal/logging"
)

// Client configuration constants
const (
	DefaultTimeout = 15 * time.Second // Per-call timeout
	MaxBodyLen     = 2 << 20          // Maximum response body read (2MB)
	UserAgent      = "connect-web/1.0"
)

// Client calls the backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Do sends one request. body, when non-nil, is encoded as JSON; out, when
// non-nil, receives the decoded JSON response. Any failure is an *Error.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) (err error) {
	start := time.Now()
	route := canonicalPath(path)
	defer func() { observe(method, route, err, time.Since(start)) }()

	var reader io.Reader
	if body != nil {
		payload, mErr := json.Marshal(body)
		if mErr != nil {
			return &Error{Kind: KindValidation, Method: method, Path: path, Err: fmt.Errorf("encoding request: %w", mErr)}
		}
		reader = bytes.NewReader(payload)
	}

	req, rErr := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if rErr != nil {
		return &Error{Kind: KindNetwork, Method: method, Path: path, Err: fmt.Errorf("creating request: %w", rErr)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if id := logging.RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, dErr := c.httpClient.Do(req)
	if dErr != nil {
		return &Error{Kind: KindNetwork, Method: method, Path: path, Err: fmt.Errorf("request failed: %w", dErr)}
	}
	defer func() { _ = resp.Body.Close() }()

	data, readErr := io.ReadAll(io.LimitReader(resp.Body, MaxBodyLen))
	if readErr != nil {
		return &Error{Kind: KindNetwork, Status: resp.StatusCode, Method: method, Path: path, Err: fmt.Errorf("reading response: %w", readErr)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{
			Kind:   kindForStatus(resp.StatusCode),
			Status: resp.StatusCode,
			Method: method,
			Path:   path,
			Fields: parseFields(data),
			Err:    errors.New(http.StatusText(resp.StatusCode)),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if jErr := json.Unmarshal(data, out); jErr != nil {
		return &Error{Kind: KindNetwork, Status: resp.StatusCode, Method: method, Path: path, Err: fmt.Errorf("decoding response: %w", jErr)}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}
