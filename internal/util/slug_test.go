// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Hello World", "hello-world"},
		{"accents stripped", "Café au Lait", "cafe-au-lait"},
		{"vietnamese", "Sức khỏe Việt Nam", "suc-khoe-viet-nam"},
		{"punctuation removed", "beach cleanup: phase #2!", "beach-cleanup-phase-2"},
		{"collapses hyphens", "a -- b", "a-b"},
		{"trims hyphens", " -edges- ", "edges"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsValidSlug(t *testing.T) {
	valid := []string{"a", "abc-123", "gallery-2026"}
	for _, s := range valid {
		if !IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "-leading", "trailing-", "double--hyphen", "Upper", "with space"}
	for _, s := range invalid {
		if IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = true, want false", s)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	got, err := SanitizeFilename("../../etc/passwd")
	if err != nil {
		t.Fatalf("SanitizeFilename error: %v", err)
	}
	if got != "passwd" {
		t.Errorf("SanitizeFilename = %q, want %q", got, "passwd")
	}

	if _, err := SanitizeFilename(".."); err == nil {
		t.Error("SanitizeFilename accepted \"..\"")
	}
	if _, err := SanitizeFilename(""); err == nil {
		t.Error("SanitizeFilename accepted empty name")
	}
}

func TestObjectName(t *testing.T) {
	name := ObjectName("gallery", "Bãi biển Đà Nẵng.JPG", ".jpg")

	if !strings.HasPrefix(name, "gallery/") {
		t.Errorf("ObjectName = %q, want gallery/ prefix", name)
	}
	if !strings.HasSuffix(name, ".jpg") {
		t.Errorf("ObjectName = %q, want .jpg suffix", name)
	}
	if !strings.Contains(name, "bai-bien-da-nang") {
		t.Errorf("ObjectName = %q, want slugified original name", name)
	}

	// Two calls must never produce the same object path.
	if other := ObjectName("gallery", "Bãi biển Đà Nẵng.JPG", ".jpg"); other == name {
		t.Error("ObjectName produced a duplicate path")
	}
}
