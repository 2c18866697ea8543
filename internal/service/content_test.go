// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarangxanh/site/internal/model"
	"github.com/sarangxanh/site/internal/platform"
)

// newTestClient spins up a fake platform backend and a client against it.
func newTestClient(t *testing.T, handler http.HandlerFunc) *platform.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return platform.New(platform.Options{
		BaseURL:    srv.URL,
		AnonKey:    "anon",
		ServiceKey: "service",
	})
}

func TestListTimelineOrdersOldestFirst(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.String()
		_ = json.NewEncoder(w).Encode([]model.TimelineEvent{
			{ID: 1, Date: "2024-05-01", Title: "First cleanup"},
			{ID: 2, Date: "2025-01-15", Title: "100 volunteers"},
		})
	})

	events, err := NewContentService(client).ListTimeline(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Contains(t, gotPath, "/rest/v1/timeline")
	assert.Contains(t, gotPath, "order=date.asc")
}

func TestCreateTimelineEventReturnsStoredRow(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "return=representation", r.Header.Get("Prefer"))

		var event model.TimelineEvent
		require.NoError(t, json.NewDecoder(r.Body).Decode(&event))
		event.ID = 7
		_ = json.NewEncoder(w).Encode([]model.TimelineEvent{event})
	})

	got, err := NewContentService(client).CreateTimelineEvent(context.Background(), model.TimelineEvent{
		Date: "2026-02-01", Title: "River Day", Description: "Cleanup at Saigon River",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "River Day", got.Title)
}

func TestDeleteTimelineEventFiltersByID(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusNoContent)
	})

	err := NewContentService(client).DeleteTimelineEvent(context.Background(), 42)
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "id=eq.42")
}

func TestGalleryByYear(t *testing.T) {
	items := []model.GalleryItem{
		{ID: 1, Year: 2024, ImageURL: "a.jpg"},
		{ID: 2, Year: 2026, ImageURL: "b.jpg"},
		{ID: 3, Year: 2024, ImageURL: "c.jpg"},
		{ID: 4, Year: 2025, ImageURL: "d.jpg"},
	}

	grouped := GalleryByYear(items)
	require.Len(t, grouped, 3)

	assert.Equal(t, 2026, grouped[0].Year)
	assert.Equal(t, 2025, grouped[1].Year)
	assert.Equal(t, 2024, grouped[2].Year)
	assert.Len(t, grouped[2].Items, 2)
}

func TestGalleryByYearEmpty(t *testing.T) {
	assert.Empty(t, GalleryByYear(nil))
}

func TestMembersByTeamPreservesFirstAppearance(t *testing.T) {
	members := []model.Member{
		{Name: "Linh", Team: "Operations"},
		{Name: "Minh", Team: "Research"},
		{Name: "Huong", Team: "Operations"},
		{Name: "An", Team: "Media"},
	}

	grouped := MembersByTeam(members)
	require.Len(t, grouped, 3)

	assert.Equal(t, "Operations", grouped[0].Team)
	assert.Len(t, grouped[0].Members, 2)
	assert.Equal(t, "Research", grouped[1].Team)
	assert.Equal(t, "Media", grouped[2].Team)
}

func TestListResearchNewestFirst(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.String()
		_ = json.NewEncoder(w).Encode([]model.ResearchItem{})
	})

	_, err := NewContentService(client).ListResearch(context.Background())
	require.NoError(t, err)
	assert.Contains(t, gotPath, "/rest/v1/research")
	assert.Contains(t, gotPath, "order=date.desc")
}

func TestUpdateMemberSkipsEmptyImage(t *testing.T) {
	var gotPatch map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPatch))
		w.WriteHeader(http.StatusNoContent)
	})

	err := NewContentService(client).UpdateMember(context.Background(), 3, model.Member{
		Name: "Linh", Role: "Lead", Team: "Operations",
	})
	require.NoError(t, err)

	assert.Equal(t, "Linh", gotPatch["name"])
	// An update without a new upload must not blank the existing photo.
	_, hasImage := gotPatch["image_url"]
	assert.False(t, hasImage)
}
