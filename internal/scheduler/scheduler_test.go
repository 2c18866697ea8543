// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWarmer struct {
	calls atomic.Int64
	err   error
}

func (f *fakeWarmer) WarmCache(context.Context) error {
	f.calls.Add(1)
	return f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := New(&fakeWarmer{}, discardLogger())
	err := s.Start("not a cron expression")
	require.Error(t, err)
}

func TestStartStopWithValidSchedule(t *testing.T) {
	s := New(&fakeWarmer{}, discardLogger())
	require.NoError(t, s.Start("@hourly"))
	s.Stop()
}

func TestEmptyScheduleDisablesJob(t *testing.T) {
	s := New(&fakeWarmer{}, discardLogger())
	require.NoError(t, s.Start(""))
	defer s.Stop()
	assert.Empty(t, s.cron.Entries())
}

func TestWarmStatsSwallowsErrors(t *testing.T) {
	w := &fakeWarmer{err: errors.New("backend down")}
	s := New(w, discardLogger())

	s.warmStats()
	assert.Equal(t, int64(1), w.calls.Load())
}
