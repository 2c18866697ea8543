// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// warmTimeout bounds one cache-warm run.
const warmTimeout = 30 * time.Second

// StatsWarmer re-primes the cached impact statistics.
type StatsWarmer interface {
	WarmCache(ctx context.Context) error
}

// Scheduler runs periodic background jobs.
type Scheduler struct {
	cron   *cron.Cron
	stats  StatsWarmer
	logger *slog.Logger
}

// New creates a new scheduler instance.
func New(stats StatsWarmer, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		stats:  stats,
		logger: logger,
	}
}

// Start registers the stats warm job on the given cron schedule and begins
// the scheduler. An empty schedule disables the job.
func (s *Scheduler) Start(schedule string) error {
	if schedule != "" {
		if _, err := s.cron.AddFunc(schedule, s.warmStats); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) warmStats() {
	ctx, cancel := context.WithTimeout(context.Background(), warmTimeout)
	defer cancel()

	start := time.Now()
	if err := s.stats.WarmCache(ctx); err != nil {
		s.logger.Error("failed to warm stats cache", "error", err)
		return
	}
	s.logger.Info("stats cache warmed", "duration", time.Since(start))
}
