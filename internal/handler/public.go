// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/sarangxanh/site/internal/model"
	"github.com/sarangxanh/site/internal/render"
	"github.com/sarangxanh/site/internal/service"
)

// PublicHandler serves the public site pages. Every data fetch degrades
// independently: a backend error is logged and the section renders empty
// rather than failing the whole page.
type PublicHandler struct {
	renderer *render.Renderer
	content  *service.ContentService
	stats    *service.StatsService
	log      *slog.Logger
}

// NewPublicHandler creates a new PublicHandler.
func NewPublicHandler(renderer *render.Renderer, content *service.ContentService, stats *service.StatsService, log *slog.Logger) *PublicHandler {
	return &PublicHandler{
		renderer: renderer,
		content:  content,
		stats:    stats,
		log:      log,
	}
}

// HomeData is the view model for the homepage.
type HomeData struct {
	Totals   model.StatsTotals
	Timeline []model.TimelineEvent
}

// Home renders the homepage with aggregate impact totals and the timeline.
func (h *PublicHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var home HomeData

	totals, err := h.stats.Totals(ctx)
	if err != nil {
		h.log.Error("failed to load stats totals", "error", err)
	} else {
		home.Totals = totals
	}

	home.Timeline, err = h.content.ListTimeline(ctx)
	if err != nil {
		h.log.Error("failed to load timeline", "error", err)
		home.Timeline = nil
	}

	data := baseData(r, "Sarang Xanh — For a Greener Vietnam")
	data.Data = home
	if err := h.renderer.Render(w, r, "public/home", data); err != nil {
		logAndInternalError(w, "failed to render homepage", "error", err)
	}
}

// About renders the static about page.
func (h *PublicHandler) About(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "public/about", baseData(r, "About Us")); err != nil {
		logAndInternalError(w, "failed to render about page", "error", err)
	}
}

// Shop renders the shop placeholder page.
func (h *PublicHandler) Shop(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "public/shop", baseData(r, "Shop")); err != nil {
		logAndInternalError(w, "failed to render shop page", "error", err)
	}
}

// Members renders the team roster grouped by team.
func (h *PublicHandler) Members(w http.ResponseWriter, r *http.Request) {
	members, err := h.content.ListMembers(r.Context())
	if err != nil {
		h.log.Error("failed to load members", "error", err)
		members = nil
	}

	data := baseData(r, "Our Team")
	data.Data = service.MembersByTeam(members)
	if err := h.renderer.Render(w, r, "public/members", data); err != nil {
		logAndInternalError(w, "failed to render members page", "error", err)
	}
}

// StatsPageData is the view model for the data page.
type StatsPageData struct {
	Totals  model.StatsTotals
	Monthly []model.MonthlyStat
}

// Data renders the impact statistics page: all-time totals plus the
// monthly series the charts draw from.
func (h *PublicHandler) Data(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var page StatsPageData

	totals, err := h.stats.Totals(ctx)
	if err != nil {
		h.log.Error("failed to load stats totals", "error", err)
	} else {
		page.Totals = totals
	}

	page.Monthly, err = h.stats.Monthly(ctx)
	if err != nil {
		h.log.Error("failed to load monthly stats", "error", err)
		page.Monthly = nil
	}

	data := baseData(r, "Our Impact")
	data.Data = page
	if err := h.renderer.Render(w, r, "public/data", data); err != nil {
		logAndInternalError(w, "failed to render data page", "error", err)
	}
}

// Gallery renders the photo gallery grouped by year, newest year first.
func (h *PublicHandler) Gallery(w http.ResponseWriter, r *http.Request) {
	items, err := h.content.ListGallery(r.Context())
	if err != nil {
		h.log.Error("failed to load gallery", "error", err)
		items = nil
	}

	data := baseData(r, "Gallery")
	data.Data = service.GalleryByYear(items)
	if err := h.renderer.Render(w, r, "public/gallery", data); err != nil {
		logAndInternalError(w, "failed to render gallery page", "error", err)
	}
}

// Research renders news, papers and reports, newest first. Descriptions
// are markdown, rendered and sanitized by the template layer.
func (h *PublicHandler) Research(w http.ResponseWriter, r *http.Request) {
	items, err := h.content.ListResearch(r.Context())
	if err != nil {
		h.log.Error("failed to load research", "error", err)
		items = nil
	}

	data := baseData(r, "Research & News")
	data.Data = items
	if err := h.renderer.Render(w, r, "public/research", data); err != nil {
		logAndInternalError(w, "failed to render research page", "error", err)
	}
}

// NotFound renders the 404 page.
func (h *PublicHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	data := baseData(r, "Page Not Found")
	if err := h.renderer.Render(w, r, "public/404", data); err != nil {
		h.log.Error("failed to render 404 page", "error", err)
		http.Error(w, "Page not found", http.StatusNotFound)
	}
}
