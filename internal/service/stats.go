// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"

	"github.com/sarangxanh/site/internal/cache"
	"github.com/sarangxanh/site/internal/model"
	"github.com/sarangxanh/site/internal/platform"
)

// statsTotalsRPC is the platform function aggregating the monthly table.
const statsTotalsRPC = "get_stats_totals"

// StatsService serves impact statistics. Reads are cached; every mutation
// invalidates the cache so the public pages never show stale figures for
// longer than one request.
type StatsService struct {
	read  *platform.Data
	write *platform.Data
	cache *cache.StatsCache
}

// NewStatsService creates a stats service. The cache is optional.
func NewStatsService(client *platform.Client, sc *cache.StatsCache) *StatsService {
	return &StatsService{
		read:  client.Data(),
		write: client.DataAsService(),
		cache: sc,
	}
}

// Totals returns the aggregated all-time figures from the get_stats_totals
// procedure. The procedure returns exactly the StatsTotals columns; any
// other shape is a platform contract error surfaced to the caller.
func (s *StatsService) Totals(ctx context.Context) (model.StatsTotals, error) {
	fetch := func() (*model.StatsTotals, error) {
		var totals model.StatsTotals
		if err := s.read.RPC(ctx, statsTotalsRPC, nil, &totals); err != nil {
			return nil, err
		}
		return &totals, nil
	}

	if s.cache == nil {
		totals, err := fetch()
		if err != nil {
			return model.StatsTotals{}, err
		}
		return *totals, nil
	}

	totals, err := s.cache.Totals(ctx, fetch)
	if err != nil {
		return model.StatsTotals{}, err
	}
	return *totals, nil
}

// Monthly returns the full monthly series, oldest month first.
func (s *StatsService) Monthly(ctx context.Context) ([]model.MonthlyStat, error) {
	fetch := func() (*[]model.MonthlyStat, error) {
		var stats []model.MonthlyStat
		if err := s.read.From(tableStatsMonthly).Order("month", false).Get(ctx, &stats); err != nil {
			return nil, err
		}
		return &stats, nil
	}

	if s.cache == nil {
		stats, err := fetch()
		if err != nil {
			return nil, err
		}
		return *stats, nil
	}

	return s.cache.Monthly(ctx, fetch)
}

// Upsert writes one month's figures, overwriting any existing row for the
// same month. Re-entering a month is an update, never a duplicate.
func (s *StatsService) Upsert(ctx context.Context, stat model.MonthlyStat) error {
	// The id column is platform-generated; sending it on a fresh month
	// would collide with the sequence.
	stat.ID = nil

	if err := s.write.Upsert(ctx, tableStatsMonthly, stat, "month"); err != nil {
		return err
	}
	return s.invalidate(ctx)
}

// Delete removes a month's figures by row id when known, by month key
// otherwise.
func (s *StatsService) Delete(ctx context.Context, id *int64, month string) error {
	m := s.write.Delete(tableStatsMonthly)
	if id != nil {
		m = m.Eq("id", *id)
	} else {
		m = m.Eq("month", month)
	}
	if err := m.Exec(ctx); err != nil {
		return err
	}
	return s.invalidate(ctx)
}

// WarmCache re-primes the cached totals and monthly series. The scheduler
// calls this so the first visitor after an expiry never pays the fetch.
func (s *StatsService) WarmCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.invalidate(ctx); err != nil {
		return err
	}
	if _, err := s.Totals(ctx); err != nil {
		return err
	}
	_, err := s.Monthly(ctx)
	return err
}

func (s *StatsService) invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx)
}
