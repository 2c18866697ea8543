// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarangxanh/site/internal/model"
)

func validApplication() model.VolunteerApplication {
	return model.VolunteerApplication{
		Name:          "Tran Thi Mai",
		Email:         "mai@example.com",
		Phone:         "+84 90 123 4567",
		School:        "HCMC University of Science",
		Location:      "Ho Chi Minh City",
		Motivation:    "I want to help clean the Saigon River.",
		InterviewTime: "Weekday evenings",
	}
}

func TestSubmitApplicationStoresFormFields(t *testing.T) {
	var payload map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/rest/v1/volunteer_applications", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusCreated)
	})

	fieldErrs, err := NewOutreachService(client).SubmitApplication(context.Background(), validApplication())
	require.NoError(t, err)
	assert.Empty(t, fieldErrs)

	assert.Equal(t, "Tran Thi Mai", payload["name"])
	assert.Equal(t, "Weekday evenings", payload["interview_time"])
	_, hasCreatedAt := payload["created_at"]
	assert.False(t, hasCreatedAt)
}

func TestSubmitApplicationInvalidWritesNothing(t *testing.T) {
	var requests int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusCreated)
	})

	app := validApplication()
	app.Email = "not-an-address"
	app.Motivation = "   "

	fieldErrs, err := NewOutreachService(client).SubmitApplication(context.Background(), app)
	require.NoError(t, err)
	assert.Contains(t, fieldErrs, "email")
	assert.Contains(t, fieldErrs, "motivation")
	assert.NotContains(t, fieldErrs, "name")
	assert.Zero(t, requests, "invalid application must not reach the backend")
}

func TestSubscribeDonationNotifyInvokesFunction(t *testing.T) {
	var gotPath string
	var payload map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusOK)
	})

	err := NewOutreachService(client).SubscribeDonationNotify(context.Background(), "mai@example.com")
	require.NoError(t, err)
	assert.Equal(t, "/functions/v1/notify-donation", gotPath)
	assert.Equal(t, "mai@example.com", payload["email"])
}

func TestListApplicationsNewestFirst(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode([]model.VolunteerApplication{})
	})

	_, err := NewOutreachService(client).ListApplications(context.Background())
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "order=created_at.desc")
}

func TestDeleteDonationNotifyFiltersByID(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, NewOutreachService(client).DeleteDonationNotify(context.Background(), 11))
	assert.Contains(t, gotQuery, "id=eq.11")
}
