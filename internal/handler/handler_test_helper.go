// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/sarangxanh/site/internal/platform"
	"github.com/sarangxanh/site/internal/render"
)

// testTemplates is a minimal template set covering every page the handlers
// render. The base layout prints the title, flash and page content so
// assertions can check all three.
var testTemplates = fstest.MapFS{
	"layouts/base.html": &fstest.MapFile{
		Data: []byte(`{{define "base"}}{{.Title}}|{{.Flash}}|{{template "content" .}}{{end}}`),
	},
	"layouts/admin.html": &fstest.MapFile{
		Data: []byte(`{{define "admin-nav"}}nav{{end}}`),
	},
	"public/home.html":           page(`home totals={{.Data.Totals.PlasticCollected}} events={{len .Data.Timeline}}`),
	"public/about.html":          page(`about`),
	"public/shop.html":           page(`shop`),
	"public/members.html":        page(`members teams={{len .Data}}`),
	"public/data.html":           page(`data months={{len .Data.Monthly}}`),
	"public/gallery.html":        page(`gallery years={{len .Data}}`),
	"public/research.html":       page(`research items={{len .Data}}`),
	"public/apply.html":          page(`apply errors={{len .Errors}}`),
	"public/donate.html":         page(`donate configured={{.Data}}`),
	"public/404.html":            page(`not found`),
	"auth/login.html":            page(`login next={{.Data.Next}}`),
	"auth/register.html":         page(`register`),
	"auth/complete_profile.html": page(`complete errors={{len .Errors}}`),
	"admin/dashboard.html":       page(`dashboard apps={{.Data.ApplicationCount}}`),
	"admin/timeline.html":        page(`timeline rows={{len .Data}}`),
	"admin/timeline_form.html":   page(`timeline form errors={{len .Errors}}`),
	"admin/stats.html":           page(`stats rows={{len .Data.Monthly}} errors={{len .Errors}}`),
	"admin/gallery.html":         page(`gallery admin`),
	"admin/research.html":        page(`research admin`),
	"admin/research_form.html":   page(`research form errors={{len .Errors}}`),
	"admin/applications.html":    page(`applications rows={{len .Data}}`),
	"admin/donations.html":       page(`donations rows={{len .Data}}`),
	"admin/members.html":         page(`members admin`),
	"admin/members_form.html":    page(`members form errors={{len .Errors}}`),
}

func page(body string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(`{{define "content"}}` + body + `{{end}}`)}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestRenderer builds a renderer over the in-memory templates and a
// fresh in-memory session manager.
func newTestRenderer(t *testing.T) (*render.Renderer, *scs.SessionManager) {
	t.Helper()
	sm := scs.New()
	renderer, err := render.New(render.Config{
		TemplatesFS:    testTemplates,
		SessionManager: sm,
	})
	require.NoError(t, err)
	return renderer, sm
}

// newPlatformClient spins up a fake platform backend and a client against it.
func newPlatformClient(t *testing.T, handler http.HandlerFunc) *platform.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return platform.New(platform.Options{
		BaseURL:    srv.URL,
		AnonKey:    "anon",
		ServiceKey: "service",
	})
}

// serveWithSession runs a handler inside the session middleware, the way
// the router does, and returns the recorded response.
func serveWithSession(sm *scs.SessionManager, h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	sm.LoadAndSave(h).ServeHTTP(w, r)
	return w
}

// serveRecorder runs a GET against a bare handler.
func serveRecorder(h http.HandlerFunc, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

// withChiParam attaches a chi URL parameter to the request, standing in
// for the router.
func withChiParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// popFlash reads the flash left behind by a redirecting handler. It loads
// the session from the response cookie the way the next request would.
func popFlash(t *testing.T, sm *scs.SessionManager, w *httptest.ResponseRecorder) (message, flashType string) {
	t.Helper()
	cookies := w.Result().Cookies()
	var token string
	for _, c := range cookies {
		if c.Name == sm.Cookie.Name {
			token = c.Value
		}
	}
	require.NotEmpty(t, token, "expected a session cookie")

	ctx, err := sm.Load(context.Background(), token)
	require.NoError(t, err)
	return sm.PopString(ctx, "flash"), sm.PopString(ctx, "flash_type")
}
