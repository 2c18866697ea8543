// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package platform

import (
	"context"
	"net/url"
	"time"
)

// SignOutScopeLocal terminates only the session the token belongs to,
// leaving the identity's other sessions alone.
const SignOutScopeLocal = "local"

// Session is the time-bounded credential issued by the auth service.
type Session struct {
	AccessToken  string   `json:"access_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int64    `json:"expires_in"`
	ExpiresAt    int64    `json:"expires_at"`
	RefreshToken string   `json:"refresh_token"`
	User         Identity `json:"user"`
}

// Expired reports whether the session's access token has passed its expiry,
// with a small skew margin so tokens are refreshed before they lapse.
func (s Session) Expired(now time.Time) bool {
	if s.ExpiresAt == 0 {
		return false
	}
	return now.Add(30 * time.Second).Unix() >= s.ExpiresAt
}

// Identity is the authenticated principal issued by the auth service.
type Identity struct {
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"user_metadata"`
}

// DisplayName returns the best available human name from the provider
// metadata: full_name, then name, then empty.
func (i Identity) DisplayName() string {
	for _, key := range []string{"full_name", "name"} {
		if v, ok := i.Metadata[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// Auth exposes the hosted auth service contract.
type Auth struct {
	client *Client
}

// Auth returns the auth service client.
func (c *Client) Auth() *Auth { return &Auth{client: c} }

// SignInWithPassword exchanges email/password credentials for a session.
func (a *Auth) SignInWithPassword(ctx context.Context, email, password string) (Session, error) {
	var sess Session
	payload := map[string]string{"email": email, "password": password}
	err := a.client.doJSON(ctx, "POST", "/auth/v1/token?grant_type=password", payload, &sess,
		requestOptions{service: ServiceAuth})
	return sess, err
}

// SignUp registers a new identity with the auth service. Metadata becomes
// the identity's provider-supplied metadata (e.g. full_name).
func (a *Auth) SignUp(ctx context.Context, email, password string, metadata map[string]any) (Session, error) {
	var sess Session
	payload := map[string]any{"email": email, "password": password}
	if len(metadata) > 0 {
		payload["data"] = metadata
	}
	err := a.client.doJSON(ctx, "POST", "/auth/v1/signup", payload, &sess,
		requestOptions{service: ServiceAuth})
	return sess, err
}

// AuthorizeURL returns the URL to redirect the browser to for an OAuth
// sign-in with the named provider. The auth service completes the flow
// out-of-band and sends the browser back to redirectTo with a code.
func (a *Auth) AuthorizeURL(provider, redirectTo string) string {
	q := url.Values{}
	q.Set("provider", provider)
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	return a.client.baseURL + "/auth/v1/authorize?" + q.Encode()
}

// ExchangeCode swaps an OAuth callback code for a session (PKCE flow).
func (a *Auth) ExchangeCode(ctx context.Context, code, verifier string) (Session, error) {
	var sess Session
	payload := map[string]string{"auth_code": code}
	if verifier != "" {
		payload["code_verifier"] = verifier
	}
	err := a.client.doJSON(ctx, "POST", "/auth/v1/token?grant_type=pkce", payload, &sess,
		requestOptions{service: ServiceAuth})
	return sess, err
}

// RefreshSession exchanges a refresh token for a fresh session.
func (a *Auth) RefreshSession(ctx context.Context, refreshToken string) (Session, error) {
	var sess Session
	payload := map[string]string{"refresh_token": refreshToken}
	err := a.client.doJSON(ctx, "POST", "/auth/v1/token?grant_type=refresh_token", payload, &sess,
		requestOptions{service: ServiceAuth})
	return sess, err
}

// GetUser fetches the identity the access token belongs to.
func (a *Auth) GetUser(ctx context.Context, accessToken string) (Identity, error) {
	var id Identity
	err := a.client.doJSON(ctx, "GET", "/auth/v1/user", nil, &id,
		requestOptions{service: ServiceAuth, token: accessToken})
	return id, err
}

// SignOut asks the auth service to terminate the session. Scope "local"
// revokes only this client's session. Callers must clear their local state
// whether or not this call succeeds.
func (a *Auth) SignOut(ctx context.Context, accessToken, scope string) error {
	path := "/auth/v1/logout"
	if scope != "" {
		path += "?scope=" + url.QueryEscape(scope)
	}
	return a.client.doJSON(ctx, "POST", path, nil, nil,
		requestOptions{service: ServiceAuth, token: accessToken})
}
