// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/sarangxanh/site/internal/render"
	"github.com/sarangxanh/site/internal/service"
)

// AdminHandler serves the admin console landing page.
type AdminHandler struct {
	renderer *render.Renderer
	content  *service.ContentService
	stats    *service.StatsService
	outreach *service.OutreachService
	log      *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(renderer *render.Renderer, content *service.ContentService, stats *service.StatsService, outreach *service.OutreachService, log *slog.Logger) *AdminHandler {
	return &AdminHandler{
		renderer: renderer,
		content:  content,
		stats:    stats,
		outreach: outreach,
		log:      log,
	}
}

// DashboardData is the view model for the admin dashboard.
type DashboardData struct {
	TimelineCount    int
	StatsCount       int
	GalleryCount     int
	ResearchCount    int
	MemberCount      int
	ApplicationCount int
	NotifyCount      int
}

// Dashboard renders the admin landing page with per-table counts. Each
// count degrades independently to zero on a backend error.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var d DashboardData

	if events, err := h.content.ListTimeline(ctx); err != nil {
		h.log.Error("failed to count timeline events", "error", err)
	} else {
		d.TimelineCount = len(events)
	}
	if stats, err := h.stats.Monthly(ctx); err != nil {
		h.log.Error("failed to count monthly stats", "error", err)
	} else {
		d.StatsCount = len(stats)
	}
	if items, err := h.content.ListGallery(ctx); err != nil {
		h.log.Error("failed to count gallery items", "error", err)
	} else {
		d.GalleryCount = len(items)
	}
	if items, err := h.content.ListResearch(ctx); err != nil {
		h.log.Error("failed to count research items", "error", err)
	} else {
		d.ResearchCount = len(items)
	}
	if members, err := h.content.ListMembers(ctx); err != nil {
		h.log.Error("failed to count members", "error", err)
	} else {
		d.MemberCount = len(members)
	}
	if apps, err := h.outreach.ListApplications(ctx); err != nil {
		h.log.Error("failed to count applications", "error", err)
	} else {
		d.ApplicationCount = len(apps)
	}
	if entries, err := h.outreach.ListDonationNotify(ctx); err != nil {
		h.log.Error("failed to count donation notify entries", "error", err)
	} else {
		d.NotifyCount = len(entries)
	}

	data := baseData(r, "Dashboard")
	data.Data = d
	if err := h.renderer.Render(w, r, "admin/dashboard", data); err != nil {
		logAndInternalError(w, "failed to render dashboard", "error", err)
	}
}
