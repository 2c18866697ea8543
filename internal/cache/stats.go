// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"time"

	"github.com/sarangxanh/site/internal/model"
)

// Keys for cached impact statistics. They share the stats: prefix so the
// admin console can invalidate both with one call.
const (
	keyStatsTotals  = "stats:totals"
	keyStatsMonthly = "stats:monthly"
	statsPrefix     = "stats:"
)

// StatsCache caches the aggregated impact totals and the monthly series,
// the two queries behind the most visited pages.
type StatsCache struct {
	totals  *TypedCache[model.StatsTotals]
	monthly *TypedCache[[]model.MonthlyStat]
	backend Cache
}

// NewStatsCache creates a StatsCache over the given backend.
func NewStatsCache(backend Cache, ttl time.Duration) *StatsCache {
	return &StatsCache{
		totals:  NewTypedCache[model.StatsTotals](backend, ttl),
		monthly: NewTypedCache[[]model.MonthlyStat](backend, ttl),
		backend: backend,
	}
}

// Totals returns the cached totals, fetching and storing them on a miss.
func (c *StatsCache) Totals(ctx context.Context, fetch func() (*model.StatsTotals, error)) (*model.StatsTotals, error) {
	return c.totals.GetOrSet(ctx, keyStatsTotals, fetch)
}

// Monthly returns the cached monthly series, fetching on a miss.
func (c *StatsCache) Monthly(ctx context.Context, fetch func() (*[]model.MonthlyStat, error)) ([]model.MonthlyStat, error) {
	got, err := c.monthly.GetOrSet(ctx, keyStatsMonthly, fetch)
	if err != nil {
		return nil, err
	}
	return *got, nil
}

// Invalidate drops both stats entries. Call after any stats mutation so
// the public pages pick up the change on the next request.
func (c *StatsCache) Invalidate(ctx context.Context) error {
	return c.backend.DeleteByPrefix(ctx, statsPrefix)
}
