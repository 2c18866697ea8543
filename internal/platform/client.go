// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

// Package platform contains typed HTTP clients for the hosted backend
// platform: the auth service, the table data API, object storage and
// serverless functions. The platform itself is a black box; this package
// only speaks its public request/response contracts.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Default timeout for platform calls. Every endpoint the site talks to is a
// simple request/response API; nothing should take longer than this.
const defaultTimeout = 15 * time.Second

// Options configures a platform Client.
type Options struct {
	// BaseURL is the platform origin, e.g. https://xyz.supabase.co.
	BaseURL string
	// AnonKey is the public API key, sent with every request.
	AnonKey string
	// ServiceKey, when set, is used for admin-side writes that bypass
	// row-level security. Optional.
	ServiceKey string
	// HTTPClient overrides the default client (used in tests).
	HTTPClient *http.Client
	// Metrics records request counts and latency. Optional.
	Metrics *Metrics
}

// Client is the shared transport for all platform services.
type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	http       *http.Client
	metrics    *Metrics
}

// New creates a platform Client.
func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    opts.BaseURL,
		anonKey:    opts.AnonKey,
		serviceKey: opts.ServiceKey,
		http:       hc,
		metrics:    opts.Metrics,
	}
}

// BaseURL returns the configured platform origin.
func (c *Client) BaseURL() string { return c.baseURL }

// requestOptions carries per-request overrides for do.
type requestOptions struct {
	// token is the bearer token. Empty means the anon key is used, which is
	// what the platform expects for unauthenticated requests.
	token string
	// headers are extra request headers (Prefer, Accept, ...).
	headers map[string]string
	// service names the logical platform service for metrics.
	service string
	// contentType defaults to application/json when a body is present.
	contentType string
}

// do performs an HTTP request against the platform and returns the response
// body. Non-2xx responses are returned as *APIError.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, opts requestOptions) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("building %s %s: %w", method, path, err)
	}

	req.Header.Set("apikey", c.anonKey)
	token := opts.token
	if token == "" {
		token = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		ct := opts.contentType
		if ct == "" {
			ct = "application/json"
		}
		req.Header.Set("Content-Type", ct)
	}
	for k, v := range opts.headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.recordRequest(opts.service, 0, time.Since(start))
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	c.metrics.recordRequest(opts.service, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("reading response for %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseAPIError(resp.StatusCode, data)
	}

	return data, nil
}

// doJSON performs a request with a JSON body and unmarshals the response
// into dest when dest is non-nil and the response is non-empty.
func (c *Client) doJSON(ctx context.Context, method, path string, payload, dest any, opts requestOptions) error {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding request for %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}

	data, err := c.do(ctx, method, path, body, opts)
	if err != nil {
		return err
	}
	if dest == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decoding response for %s %s: %w", method, path, err)
	}
	return nil
}

// serviceToken returns the service-role key if one is configured, else the
// anon key. Admin handlers use this for writes.
func (c *Client) serviceToken() string {
	if c.serviceKey != "" {
		return c.serviceKey
	}
	return c.anonKey
}
