// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrCheckoutNotConfigured is returned while the payment checkout service
// is not wired up. Donations stay disabled until it is; callers surface
// this to the user instead of pretending the payment went through.
var ErrCheckoutNotConfigured = errors.New("payment checkout is not configured")

// Recurrence values accepted by the checkout service.
const (
	RecurrenceOnce    = "once"
	RecurrenceMonthly = "monthly"
)

// Checkout creates payment checkout sessions on the external payment
// service. The contract: send an amount and recurrence, get back a URL to
// redirect the donor to.
type Checkout struct {
	url     string
	secret  string
	baseURL string
	http    *http.Client
}

// NewCheckout creates a checkout client. url and secret may be empty, in
// which case every CreateSession call fails with ErrCheckoutNotConfigured.
// siteBaseURL is this site's public origin, used for return URLs.
func NewCheckout(url, secret, siteBaseURL string) *Checkout {
	return &Checkout{
		url:     url,
		secret:  secret,
		baseURL: siteBaseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// Configured reports whether the checkout service can be called.
func (c *Checkout) Configured() bool {
	return c.url != "" && c.secret != ""
}

// CreateSession asks the checkout service for a payment session and returns
// the URL to redirect the donor to. Amount is in whole USD; recurrence is
// RecurrenceOnce or RecurrenceMonthly.
func (c *Checkout) CreateSession(ctx context.Context, amountUSD float64, recurrence string) (string, error) {
	if !c.Configured() {
		return "", ErrCheckoutNotConfigured
	}
	if amountUSD <= 0 {
		return "", fmt.Errorf("invalid donation amount: %v", amountUSD)
	}
	if recurrence != RecurrenceOnce && recurrence != RecurrenceMonthly {
		return "", fmt.Errorf("invalid recurrence: %q", recurrence)
	}

	payload, err := json.Marshal(map[string]any{
		"amount":      amountUSD,
		"frequency":   recurrence,
		"success_url": c.baseURL + "/donate?status=success",
		"cancel_url":  c.baseURL + "/donate?status=cancel",
	})
	if err != nil {
		return "", fmt.Errorf("encoding checkout request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building checkout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secret)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling checkout service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("checkout service returned %d", resp.StatusCode)
	}

	var result struct {
		URL string `json:"url"`
	}
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&result); err != nil {
		return "", fmt.Errorf("decoding checkout response: %w", err)
	}
	if result.URL == "" {
		return "", errors.New("checkout service returned no redirect URL")
	}
	return result.URL, nil
}
