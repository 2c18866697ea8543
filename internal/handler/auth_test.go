// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarangxanh/site/internal/auth"
	"github.com/sarangxanh/site/internal/model"
	"github.com/sarangxanh/site/internal/platform"
	"github.com/sarangxanh/site/internal/session"
)

const testBaseURL = "http://localhost:8080"

func newAuthHandler(t *testing.T, backend http.HandlerFunc) (*AuthHandler, *scs.SessionManager) {
	t.Helper()
	renderer, sm := newTestRenderer(t)
	client := newPlatformClient(t, backend)
	resolver := auth.NewResolver(auth.NewProfileService(client.DataAsService()))
	h := NewAuthHandler(client.Auth(), resolver, renderer, sm, nil, testBaseURL, discardLogger())
	return h, sm
}

// authBackend fakes the auth token grant plus the profiles table.
func authBackend(profile model.Profile) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/auth/v1/token"):
			_ = json.NewEncoder(w).Encode(platform.Session{
				AccessToken:  "access-token",
				RefreshToken: "refresh-token",
				ExpiresAt:    4102444800,
				User:         platform.Identity{ID: profile.ID, Email: "mai@example.com"},
			})
		case strings.HasPrefix(r.URL.Path, "/rest/v1/profiles"):
			_ = json.NewEncoder(w).Encode(profile)
		default:
			http.NotFound(w, r)
		}
	}
}

func TestLoginRequiresCredentials(t *testing.T) {
	h, sm := newAuthHandler(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("empty form must not reach the auth service")
	})

	w := serveWithSession(sm, h.Login, formRequest("/login", url.Values{"email": {""}, "password": {""}}))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, RouteLogin, w.Header().Get("Location"))
	_, flashType := popFlash(t, sm, w)
	assert.Equal(t, "error", flashType)
}

func TestLoginInvalidCredentials(t *testing.T) {
	h, sm := newAuthHandler(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid login credentials"}`, http.StatusBadRequest)
	})

	form := url.Values{"email": {"mai@example.com"}, "password": {"wrong"}}
	w := serveWithSession(sm, h.Login, formRequest("/login", form))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, RouteLogin, w.Header().Get("Location"))
	msg, _ := popFlash(t, sm, w)
	assert.Contains(t, msg, "Invalid email or password")
}

func TestLoginAdminRedirectsToConsole(t *testing.T) {
	h, sm := newAuthHandler(t, authBackend(model.Profile{
		ID: "user-1", Role: "admin", FirstName: "Mai", LastName: "Tran",
	}))

	form := url.Values{"email": {"mai@example.com"}, "password": {"secret123"}}
	w := serveWithSession(sm, h.Login, formRequest("/login", form))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, RouteAdmin, w.Header().Get("Location"))

	// The session now carries the platform tokens.
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	ctx, err := sm.Load(t.Context(), cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, "access-token", sm.GetString(ctx, session.KeyAccessToken))
	assert.Equal(t, "refresh-token", sm.GetString(ctx, session.KeyRefreshToken))
}

func TestLoginHonorsNextParameter(t *testing.T) {
	h, sm := newAuthHandler(t, authBackend(model.Profile{
		ID: "user-1", Role: "admin", FirstName: "Mai", LastName: "Tran",
	}))

	form := url.Values{
		"email":    {"mai@example.com"},
		"password": {"secret123"},
		"next":     {"/admin/stats?page=2"},
	}
	w := serveWithSession(sm, h.Login, formRequest("/login", form))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/stats?page=2", w.Header().Get("Location"))
}

func TestLoginIgnoresExternalNext(t *testing.T) {
	h, sm := newAuthHandler(t, authBackend(model.Profile{
		ID: "user-1", FirstName: "Mai", LastName: "Tran",
	}))

	form := url.Values{
		"email":    {"mai@example.com"},
		"password": {"secret123"},
		"next":     {"//evil.example.com/"},
	}
	w := serveWithSession(sm, h.Login, formRequest("/login", form))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, RouteRoot, w.Header().Get("Location"))
}

func TestLoginIncompleteProfileRedirectsToCompletion(t *testing.T) {
	h, sm := newAuthHandler(t, authBackend(model.Profile{
		ID: "user-1", FirstName: "Mai", LastName: "",
	}))

	form := url.Values{"email": {"mai@example.com"}, "password": {"secret123"}}
	w := serveWithSession(sm, h.Login, formRequest("/login", form))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, RouteCompleteProfile, w.Header().Get("Location"))
}

func TestOAuthStartRedirectsToProvider(t *testing.T) {
	h, sm := newAuthHandler(t, func(w http.ResponseWriter, r *http.Request) {})

	r := httptest.NewRequest(http.MethodGet, "/login/oauth/google", nil)
	r = withChiParam(r, "provider", "google")
	w := serveWithSession(sm, h.OAuthStart, r)

	require.Equal(t, http.StatusSeeOther, w.Code)
	loc := w.Header().Get("Location")
	assert.Contains(t, loc, "/auth/v1/authorize?")
	assert.Contains(t, loc, "provider=google")
	assert.Contains(t, loc, url.QueryEscape(testBaseURL+"/auth/callback"))
}

func TestOAuthStartUnknownProvider(t *testing.T) {
	h, sm := newAuthHandler(t, func(w http.ResponseWriter, r *http.Request) {})

	r := httptest.NewRequest(http.MethodGet, "/login/oauth/github", nil)
	r = withChiParam(r, "provider", "github")
	w := serveWithSession(sm, h.OAuthStart, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOAuthCallbackWithoutCode(t *testing.T) {
	h, sm := newAuthHandler(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("callback without code must not call the auth service")
	})

	r := httptest.NewRequest(http.MethodGet, "/auth/callback?error_description=denied", nil)
	w := serveWithSession(sm, h.OAuthCallback, r)

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, RouteLogin, w.Header().Get("Location"))
}

func TestRegisterEmailConfirmationPending(t *testing.T) {
	h, sm := newAuthHandler(t, func(w http.ResponseWriter, r *http.Request) {
		// No session yet: the provider wants the email confirmed first.
		_ = json.NewEncoder(w).Encode(platform.Session{})
	})

	form := url.Values{
		"name":     {"Tran Thi Mai"},
		"email":    {"mai@example.com"},
		"password": {"secret123"},
	}
	w := serveWithSession(sm, h.Register, formRequest("/register", form))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, RouteLogin, w.Header().Get("Location"))
	msg, flashType := popFlash(t, sm, w)
	assert.Contains(t, msg, "Check your email")
	assert.Equal(t, "success", flashType)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	h, sm := newAuthHandler(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid form must not reach the auth service")
	})

	form := url.Values{"email": {"mai@example.com"}, "password": {"short"}}
	w := serveWithSession(sm, h.Register, formRequest("/register", form))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, RouteRegister, w.Header().Get("Location"))
}

func TestCompleteProfileRequiresSignIn(t *testing.T) {
	h, sm := newAuthHandler(t, func(w http.ResponseWriter, r *http.Request) {})

	w := serveWithSession(sm, h.CompleteProfile, formRequest("/complete-profile", url.Values{}))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, RouteLogin, w.Header().Get("Location"))
}
