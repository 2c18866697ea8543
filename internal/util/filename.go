// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SanitizeFilename extracts only the base filename, removing any directory
// components. This prevents path traversal via filenames like
// "../../../etc/passwd". Returns an error if the filename is invalid.
func SanitizeFilename(filename string) (string, error) {
	safe := filepath.Base(filename)
	if safe == "." || safe == ".." || safe == "" || safe == string(filepath.Separator) {
		return "", fmt.Errorf("invalid filename: %q", filename)
	}
	return safe, nil
}

// ObjectName builds a storage object path under the given feature prefix.
// The name carries a nanosecond timestamp plus a random suffix so that
// concurrent uploads of identically named files never collide, and a
// slugified form of the original name so objects stay recognizable.
func ObjectName(prefix, originalName, ext string) string {
	base := Slugify(strings.TrimSuffix(originalName, path.Ext(originalName)))
	if base == "" {
		base = "upload"
	}
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("%s/%d-%s-%s%s", prefix, time.Now().UnixNano(), suffix, base, ext)
}
