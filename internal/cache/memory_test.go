// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"testing"
	"time"
)

func newTestMemoryCache() *MemoryCache {
	return NewMemoryCache(MemoryOptions{DefaultTTL: time.Minute})
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := newTestMemoryCache()
	defer func() { _ = c.Close() }()

	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("Get returned %q, want %q", got, "v")
	}
}

func TestMemoryCache_Miss(t *testing.T) {
	c := newTestMemoryCache()
	defer func() { _ = c.Close() }()

	_, err := c.Get(context.Background(), "absent")
	if err != ErrCacheMiss {
		t.Errorf("Get error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := newTestMemoryCache()
	defer func() { _ = c.Close() }()

	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	if _, err := c.Get(ctx, "k"); err != ErrCacheMiss {
		t.Errorf("Get after expiry = %v, want ErrCacheMiss", err)
	}

	has, err := c.Has(ctx, "k")
	if err != nil {
		t.Fatalf("Has failed: %v", err)
	}
	if has {
		t.Error("Has returned true for expired key")
	}
}

func TestMemoryCache_DeleteByPrefix(t *testing.T) {
	c := newTestMemoryCache()
	defer func() { _ = c.Close() }()

	ctx := context.Background()

	_ = c.Set(ctx, "stats:totals", []byte("a"), 0)
	_ = c.Set(ctx, "stats:monthly", []byte("b"), 0)
	_ = c.Set(ctx, "gallery:2025", []byte("c"), 0)

	if err := c.DeleteByPrefix(ctx, "stats:"); err != nil {
		t.Fatalf("DeleteByPrefix failed: %v", err)
	}

	if _, err := c.Get(ctx, "stats:totals"); err != ErrCacheMiss {
		t.Error("stats:totals should be gone")
	}
	if _, err := c.Get(ctx, "gallery:2025"); err != nil {
		t.Errorf("gallery:2025 should survive, got %v", err)
	}
}

func TestMemoryCache_GetReturnsCopy(t *testing.T) {
	c := newTestMemoryCache()
	defer func() { _ = c.Close() }()

	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("abc"), 0)

	got, _ := c.Get(ctx, "k")
	got[0] = 'X'

	again, _ := c.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("cached value mutated: %q", again)
	}
}

func TestMemoryCache_Closed(t *testing.T) {
	c := newTestMemoryCache()
	_ = c.Close()

	ctx := context.Background()

	if _, err := c.Get(ctx, "k"); err != ErrCacheClosed {
		t.Errorf("Get after close = %v, want ErrCacheClosed", err)
	}
	if err := c.Set(ctx, "k", nil, 0); err != ErrCacheClosed {
		t.Errorf("Set after close = %v, want ErrCacheClosed", err)
	}

	// Close is idempotent.
	if err := c.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
}

func TestMemoryCache_Stats(t *testing.T) {
	c := newTestMemoryCache()
	defer func() { _ = c.Close() }()

	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("v"), 0)
	_, _ = c.Get(ctx, "k")
	_, _ = c.Get(ctx, "absent")

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Sets != 1 {
		t.Errorf("stats = %+v, want 1 hit, 1 miss, 1 set", stats)
	}
	if stats.HitRate != 50 {
		t.Errorf("hit rate = %v, want 50", stats.HitRate)
	}

	c.ResetStats()
	if s := c.Stats(); s.Hits != 0 || s.Misses != 0 {
		t.Errorf("stats after reset = %+v", s)
	}
}
