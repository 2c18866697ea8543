// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import "time"

// Options selects and configures a cache backend.
type Options struct {
	// RedisURL selects the Redis backend when non-empty.
	RedisURL string

	// Prefix is the Redis key prefix.
	Prefix string

	// DefaultTTL is the default TTL for entries.
	DefaultTTL time.Duration

	// MaxEntries bounds the memory backend (0 = unlimited).
	MaxEntries int
}

// New creates a cache from the options: Redis when a URL is configured,
// in-memory otherwise.
func New(opts Options) (Cache, error) {
	if opts.DefaultTTL == 0 {
		opts.DefaultTTL = time.Hour
	}

	if opts.RedisURL != "" {
		return NewRedisCache(RedisOptions{
			URL:        opts.RedisURL,
			Prefix:     opts.Prefix,
			DefaultTTL: opts.DefaultTTL,
		})
	}

	return NewMemoryCache(MemoryOptions{
		DefaultTTL:      opts.DefaultTTL,
		MaxEntries:      opts.MaxEntries,
		CleanupInterval: time.Minute,
	}), nil
}
