// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package platform

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageUpload(t *testing.T) {
	var gotPath, gotContentType, gotAuth, gotBody string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	})

	err := client.Storage("public-images").Upload(context.Background(),
		"gallery/1700000000-abc-beach.jpg", "image/jpeg", strings.NewReader("jpegdata"))
	require.NoError(t, err)

	assert.Equal(t, "/storage/v1/object/public-images/gallery/1700000000-abc-beach.jpg", gotPath)
	assert.Equal(t, "image/jpeg", gotContentType)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "jpegdata", gotBody)
}

func TestStorageUploadError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		_, _ = w.Write([]byte(`{"message":"The object exceeded the maximum allowed size"}`))
	})

	err := client.Storage("public-images").Upload(context.Background(),
		"gallery/too-big.jpg", "image/jpeg", strings.NewReader("x"))
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusRequestEntityTooLarge, apiErr.Status)
}

func TestStoragePublicURL(t *testing.T) {
	client := New(Options{BaseURL: "https://example.supabase.co", AnonKey: "k"})
	got := client.Storage("public-images").PublicURL("timeline/1-abc-event.png")
	assert.Equal(t,
		"https://example.supabase.co/storage/v1/object/public/public-images/timeline/1-abc-event.png",
		got)
}

func TestFunctionsNotifyDonation(t *testing.T) {
	var gotPath, gotBody string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	})

	err := client.Functions().NotifyDonation(context.Background(), "donor@example.com")
	require.NoError(t, err)
	assert.Equal(t, "/functions/v1/notify-donation", gotPath)
	assert.JSONEq(t, `{"email":"donor@example.com"}`, gotBody)
}
