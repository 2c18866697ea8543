// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarangxanh/site/internal/imaging"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))))
	return buf.Bytes()
}

func TestUploadImageStoresUnderPrefix(t *testing.T) {
	var gotPath, gotContentType string
	var gotBody []byte
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		var err error
		gotBody, err = io.ReadAll(r.Body)
		require.NoError(t, err)
		w.WriteHeader(http.StatusOK)
	})

	svc := NewUploadService(imaging.NewProcessor(imaging.Options{}), client.Storage("images"), nil)

	url, err := svc.UploadImage(context.Background(), UploadPrefixGallery, "Beach Day.PNG", bytes.NewReader(pngBytes(t, 32, 32)))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(gotPath, "/storage/v1/object/images/gallery/"), gotPath)
	assert.True(t, strings.HasSuffix(gotPath, ".png"), gotPath)
	assert.Equal(t, "image/png", gotContentType)

	// The stored bytes are the processed image, still decodable.
	_, err = png.Decode(bytes.NewReader(gotBody))
	require.NoError(t, err)

	assert.Contains(t, url, "/storage/v1/object/public/images/gallery/")
}

func TestUploadImageRejectsNonImage(t *testing.T) {
	var requests int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
	})

	svc := NewUploadService(imaging.NewProcessor(imaging.Options{}), client.Storage("images"), nil)

	_, err := svc.UploadImage(context.Background(), UploadPrefixMembers, "notes.txt", strings.NewReader("not an image"))
	require.Error(t, err)
	assert.Zero(t, requests, "rejected upload must not touch storage")
}

func TestDeleteImageIgnoresForeignURLs(t *testing.T) {
	var requests int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusOK)
	})

	svc := NewUploadService(imaging.NewProcessor(imaging.Options{}), client.Storage("images"), nil)

	svc.DeleteImage(context.Background(), "https://elsewhere.example.com/images/photo.jpg")
	assert.Zero(t, requests)
}

func TestDeleteImageRemovesOwnObject(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	storage := client.Storage("images")
	svc := NewUploadService(imaging.NewProcessor(imaging.Options{}), storage, nil)

	svc.DeleteImage(context.Background(), storage.PublicURL("timeline/2026-old.jpg"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/storage/v1/object/images/timeline/2026-old.jpg", gotPath)
}
