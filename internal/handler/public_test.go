// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarangxanh/site/internal/model"
	"github.com/sarangxanh/site/internal/service"
)

func newPublicHandler(t *testing.T, backend http.HandlerFunc) (*PublicHandler, *scs.SessionManager) {
	t.Helper()
	renderer, sm := newTestRenderer(t)
	client := newPlatformClient(t, backend)
	return NewPublicHandler(renderer,
		service.NewContentService(client),
		service.NewStatsService(client, nil),
		discardLogger()), sm
}

func TestHomeRendersTotalsAndTimeline(t *testing.T) {
	h, sm := newPublicHandler(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/rpc/") {
			_ = json.NewEncoder(w).Encode(model.StatsTotals{PlasticCollected: 512.5})
			return
		}
		_ = json.NewEncoder(w).Encode([]model.TimelineEvent{
			{ID: 1, Date: "2024-05-01", Title: "First cleanup"},
		})
	})

	w := serveWithSession(sm, h.Home, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "totals=512.5")
	assert.Contains(t, w.Body.String(), "events=1")
}

func TestHomeDegradesOnBackendFailure(t *testing.T) {
	h, sm := newPublicHandler(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
	})

	w := serveWithSession(sm, h.Home, httptest.NewRequest(http.MethodGet, "/", nil))

	// The page still renders, with empty sections.
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "totals=0")
	assert.Contains(t, w.Body.String(), "events=0")
}

func TestMembersGroupedByTeam(t *testing.T) {
	h, sm := newPublicHandler(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]model.Member{
			{ID: 1, Name: "Linh", Team: "Operations"},
			{ID: 2, Name: "Minh", Team: "Research"},
			{ID: 3, Name: "Huong", Team: "Operations"},
		})
	})

	w := serveWithSession(sm, h.Members, httptest.NewRequest(http.MethodGet, "/members", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "teams=2")
}

func TestGalleryGroupedByYear(t *testing.T) {
	h, sm := newPublicHandler(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]model.GalleryItem{
			{ID: 1, Year: 2025, ImageURL: "a.jpg"},
			{ID: 2, Year: 2024, ImageURL: "b.jpg"},
			{ID: 3, Year: 2025, ImageURL: "c.jpg"},
		})
	})

	w := serveWithSession(sm, h.Gallery, httptest.NewRequest(http.MethodGet, "/gallery", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "years=2")
}

func TestNotFoundPage(t *testing.T) {
	h, sm := newPublicHandler(t, func(w http.ResponseWriter, r *http.Request) {})

	w := serveWithSession(sm, h.NotFound, httptest.NewRequest(http.MethodGet, "/nope", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not found")
}
