// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/sarangxanh/site/internal/imaging"
	"github.com/sarangxanh/site/internal/platform"
	"github.com/sarangxanh/site/internal/util"
)

// Storage path prefixes inside the public image bucket.
const (
	UploadPrefixGallery  = "gallery"
	UploadPrefixTimeline = "timeline"
	UploadPrefixMembers  = "members"
)

// UploadService processes admin image uploads and stores them in the
// platform's public bucket.
type UploadService struct {
	processor *imaging.Processor
	storage   *platform.Storage
	log       *slog.Logger
}

// NewUploadService creates an upload service.
func NewUploadService(processor *imaging.Processor, storage *platform.Storage, log *slog.Logger) *UploadService {
	if log == nil {
		log = slog.Default()
	}
	return &UploadService{
		processor: processor,
		storage:   storage,
		log:       log,
	}
}

// UploadImage processes an uploaded image and stores it under the given
// prefix. The object name carries a timestamp and random suffix, so two
// admins uploading "photo.jpg" at once never collide. Returns the public
// URL for the stored object.
func (s *UploadService) UploadImage(ctx context.Context, prefix, originalName string, r io.Reader) (string, error) {
	processed, err := s.processor.Process(r)
	if err != nil {
		return "", fmt.Errorf("process image: %w", err)
	}

	path := util.ObjectName(prefix, originalName, processed.Ext)
	if err := s.storage.Upload(ctx, path, processed.ContentType, bytes.NewReader(processed.Data)); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}

	return s.storage.PublicURL(path), nil
}

// DeleteImage removes the stored object behind a public URL, if the URL
// points into our bucket. Failures are logged, not returned: the row
// delete must not be blocked by a storage hiccup.
func (s *UploadService) DeleteImage(ctx context.Context, publicURL string) {
	path, ok := s.objectPath(publicURL)
	if !ok {
		return
	}
	if err := s.storage.Delete(ctx, path); err != nil {
		s.log.Warn("failed to delete stored image", "path", path, "error", err)
	}
}

// objectPath extracts the bucket-relative path from a public URL.
func (s *UploadService) objectPath(publicURL string) (string, bool) {
	base := s.storage.PublicURL("")
	if !strings.HasPrefix(publicURL, base) {
		return "", false
	}
	path := strings.TrimPrefix(publicURL, base)
	return path, path != ""
}
