// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that mirrors WARN and ERROR
// records into the local event_log table so operational problems survive
// process restarts and log rotation.
package logging

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
)

// Event log levels.
const (
	LevelWarning = "warning"
	LevelError   = "error"
)

// Event log categories.
const (
	CategoryAuth     = "auth"
	CategoryContent  = "content"
	CategoryPlatform = "platform"
	CategoryCache    = "cache"
	CategorySystem   = "system"
)

// EventLogHandler is a slog.Handler that wraps another handler and also
// writes WARN and ERROR level records to the event_log table.
type EventLogHandler struct {
	inner slog.Handler
	db    *sql.DB
	level slog.Level
}

// NewEventLogHandler creates a handler that forwards every record to inner
// and persists records at WARN level and above.
func NewEventLogHandler(inner slog.Handler, db *sql.DB) *EventLogHandler {
	return &EventLogHandler{inner: inner, db: db, level: slog.LevelWarn}
}

// NewEventLogHandlerWithLevel creates a handler with a custom persistence threshold.
func NewEventLogHandlerWithLevel(inner slog.Handler, db *sql.DB, level slog.Level) *EventLogHandler {
	return &EventLogHandler{inner: inner, db: db, level: level}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		h.persist(r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EventLogHandler{inner: h.inner.WithAttrs(attrs), db: h.db, level: h.level}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{inner: h.inner.WithGroup(name), db: h.db, level: h.level}
}

// persist writes a record to the event_log table. A background context is
// used so the event survives request cancellation; write failures are
// swallowed because logging must never take the request down with it.
func (h *EventLogHandler) persist(r slog.Record) {
	level := LevelWarning
	if r.Level >= slog.LevelError {
		level = LevelError
	}

	_, _ = h.db.ExecContext(context.Background(),
		`INSERT INTO event_log (level, category, message, metadata, created_at) VALUES (?, ?, ?, ?, ?)`,
		level, categorize(r), r.Message, formatAttrs(r), r.Time,
	)
}

// categorize picks an event category from an explicit "category" attribute,
// falling back to keyword matching on the message.
func categorize(r slog.Record) string {
	var category string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			category = a.Value.String()
			return false
		}
		return true
	})
	if category != "" {
		return category
	}

	msg := strings.ToLower(r.Message)
	switch {
	case strings.Contains(msg, "auth") || strings.Contains(msg, "login") || strings.Contains(msg, "sign"):
		return CategoryAuth
	case strings.Contains(msg, "timeline") || strings.Contains(msg, "gallery") ||
		strings.Contains(msg, "research") || strings.Contains(msg, "member"):
		return CategoryContent
	case strings.Contains(msg, "platform") || strings.Contains(msg, "storage") ||
		strings.Contains(msg, "checkout"):
		return CategoryPlatform
	case strings.Contains(msg, "cache"):
		return CategoryCache
	default:
		return CategorySystem
	}
}

// formatAttrs renders the record attributes as "key=value" pairs.
func formatAttrs(r slog.Record) string {
	var b strings.Builder
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			return true
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(a.Key)
		b.WriteByte('=')
		b.WriteString(a.Value.String())
		return true
	})
	return b.String()
}
