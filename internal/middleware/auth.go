// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// route guarding, and request context handling.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/alexedwards/scs/v2"

	"github.com/sarangxanh/site/internal/auth"
	"github.com/sarangxanh/site/internal/platform"
	"github.com/sarangxanh/site/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request-scoped data.
const (
	ContextKeyAuthStore   ContextKey = "auth_store"
	ContextKeyRequestPath ContextKey = "request_path"
)

// AuthDeps holds what LoadAuthState needs to build a session store for
// each request.
type AuthDeps struct {
	Sessions *scs.SessionManager
	Platform *platform.Client
	Log      *slog.Logger
}

// NewStore builds a session store reading tokens from the current
// request's session. Callers own the store and must Close it.
func (d AuthDeps) NewStore() *auth.Store {
	authSvc := d.Platform.Auth()
	resolver := auth.NewResolver(auth.NewProfileService(d.Platform.DataAsService()))
	return auth.NewStore(
		authSvc,
		resolver,
		session.Source{SM: d.Sessions, Auth: authSvc},
		session.Tokens{SM: d.Sessions},
		auth.NewBroadcaster(),
		d.Log,
	)
}

// LoadAuthState creates middleware that resolves the caller's session,
// identity, and profile, and stores the session store in the request
// context for guards and handlers downstream.
func LoadAuthState(deps AuthDeps) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store := deps.NewStore()
			defer store.Close()

			store.Initialize(r.Context())

			ctx := context.WithValue(r.Context(), ContextKeyAuthStore, store)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAuthStore retrieves the session store from the request context.
// Returns nil outside LoadAuthState.
func GetAuthStore(r *http.Request) *auth.Store {
	store, ok := r.Context().Value(ContextKeyAuthStore).(*auth.Store)
	if !ok {
		return nil
	}
	return store
}

// GetAuthState returns the resolved auth state for the request. The zero
// State (signed out, role unresolved) is returned outside LoadAuthState.
func GetAuthState(r *http.Request) auth.State {
	if store := GetAuthStore(r); store != nil {
		return store.State()
	}
	return auth.State{}
}

// Guard creates middleware that enforces the given route requirements,
// in strict precedence: unresolved state first, then sign-in, then
// profile completeness, then role.
func Guard(req auth.Requirements) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch auth.Decide(GetAuthState(r), req) {
			case auth.DecisionLoading:
				// Resolution could not finish (e.g. profile backend down).
				// Never escalate an indeterminate role to a denial.
				w.Header().Set("Retry-After", "5")
				http.Error(w, "Signing you in, please retry shortly", http.StatusServiceUnavailable)
			case auth.DecisionSignIn:
				http.Redirect(w, r, loginURL(r), http.StatusSeeOther)
			case auth.DecisionCompleteProfile:
				http.Redirect(w, r, "/complete-profile", http.StatusSeeOther)
			case auth.DecisionDenied:
				http.Redirect(w, r, "/", http.StatusSeeOther)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// RequireAuth guards routes that need a signed-in user with a complete
// profile.
func RequireAuth() func(http.Handler) http.Handler {
	return Guard(auth.Requirements{CompleteProfile: true})
}

// RequireAdmin guards the admin console.
func RequireAdmin() func(http.Handler) http.Handler {
	return Guard(auth.Requirements{CompleteProfile: true, AdminOnly: true})
}

// loginURL builds the login redirect preserving the requested page.
func loginURL(r *http.Request) string {
	next := r.URL.Path
	if r.URL.RawQuery != "" {
		next += "?" + r.URL.RawQuery
	}
	if next == "" || next == "/login" {
		return "/login"
	}
	return "/login?next=" + url.QueryEscape(next)
}

// RequestPath creates middleware that stores the request path in the
// context for error logging.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	path, ok := ctx.Value(ContextKeyRequestPath).(string)
	if !ok {
		return ""
	}
	return path
}
