// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session wires the cookie session manager and the locally cached
// platform auth tokens it carries.
package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/sarangxanh/site/internal/platform"
)

// Session keys for locally cached auth tokens. They share the sx-auth-token
// prefix so sign-out can purge them by pattern.
const (
	KeyAccessToken  = "sx-auth-token"
	KeyRefreshToken = "sx-auth-token-refresh"
	KeyExpiresAt    = "sx-auth-token-expires"
)

// New creates a session manager backed by the local SQLite store.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()

	sm.Store = sqlite3store.New(db)

	sm.Lifetime = 24 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev // Secure cookies in production only

	return sm
}

// PutSession caches a platform session's tokens in the scs session. The
// session token is rotated to prevent fixation across the sign-in boundary.
func PutSession(ctx context.Context, sm *scs.SessionManager, sess platform.Session) error {
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}
	sm.Put(ctx, KeyAccessToken, sess.AccessToken)
	sm.Put(ctx, KeyRefreshToken, sess.RefreshToken)
	sm.Put(ctx, KeyExpiresAt, sess.ExpiresAt)
	return nil
}

// Tokens implements auth.TokenCache over the scs session for the current
// request context.
type Tokens struct {
	SM *scs.SessionManager
}

// Keys lists every key in the current session.
func (t Tokens) Keys(ctx context.Context) []string {
	return t.SM.Keys(ctx)
}

// Remove deletes a key from the current session.
func (t Tokens) Remove(ctx context.Context, key string) {
	t.SM.Remove(ctx, key)
}

// Source implements auth.SessionSource: it rebuilds the platform session
// from the tokens cached in the scs session, refreshing it with the auth
// service when the access token is about to expire.
type Source struct {
	SM   *scs.SessionManager
	Auth *platform.Auth
}

// CurrentSession returns the cached session, or (nil, nil) when the client
// has none. A session that fails to refresh is treated as absent; the
// stale tokens are dropped so the next request starts clean.
func (s Source) CurrentSession(ctx context.Context) (*platform.Session, error) {
	access := s.SM.GetString(ctx, KeyAccessToken)
	if access == "" {
		return nil, nil
	}

	sess := platform.Session{
		AccessToken:  access,
		RefreshToken: s.SM.GetString(ctx, KeyRefreshToken),
		ExpiresAt:    s.SM.GetInt64(ctx, KeyExpiresAt),
	}

	if !sess.Expired(time.Now()) {
		return &sess, nil
	}

	if sess.RefreshToken == "" {
		s.drop(ctx)
		return nil, nil
	}

	fresh, err := s.Auth.RefreshSession(ctx, sess.RefreshToken)
	if err != nil {
		s.drop(ctx)
		if platform.IsAuthError(err) {
			return nil, nil
		}
		return nil, err
	}

	if err := PutSession(ctx, s.SM, fresh); err != nil {
		return nil, err
	}
	return &fresh, nil
}

func (s Source) drop(ctx context.Context) {
	s.SM.Remove(ctx, KeyAccessToken)
	s.SM.Remove(ctx, KeyRefreshToken)
	s.SM.Remove(ctx, KeyExpiresAt)
}
