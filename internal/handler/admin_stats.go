// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/sarangxanh/site/internal/model"
	"github.com/sarangxanh/site/internal/render"
	"github.com/sarangxanh/site/internal/service"
)

// StatsHandler manages the monthly impact figures from the admin console.
type StatsHandler struct {
	renderer *render.Renderer
	stats    *service.StatsService
	log      *slog.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(renderer *render.Renderer, stats *service.StatsService, log *slog.Logger) *StatsHandler {
	return &StatsHandler{
		renderer: renderer,
		stats:    stats,
		log:      log,
	}
}

// StatsAdminData is the view model for the stats admin page: the current
// series plus the (possibly invalid, re-rendered) form values.
type StatsAdminData struct {
	Monthly []model.MonthlyStat
	Form    model.MonthlyStat
}

// List renders the monthly series with the entry form.
func (h *StatsHandler) List(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, model.MonthlyStat{}, nil, http.StatusOK)
}

// Save upserts one month's figures. Saving an existing month overwrites
// it; the public cache is invalidated either way.
func (h *StatsHandler) Save(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteAdminStats) {
		return
	}

	stat, fieldErrs := parseStatForm(r)
	if len(fieldErrs) > 0 {
		h.renderList(w, r, stat, fieldErrs, http.StatusUnprocessableEntity)
		return
	}

	if err := h.stats.Upsert(r.Context(), stat); err != nil {
		h.log.Error("failed to save monthly stat", "error", err, "month", stat.Month)
		flashError(w, r, h.renderer, RouteAdminStats, "Failed to save the figures")
		return
	}

	flashSuccess(w, r, h.renderer, RouteAdminStats, "Figures for "+stat.Month+" saved")
}

// Delete removes a month's figures, by row id when the form carries one,
// by month key otherwise.
func (h *StatsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteAdminStats) {
		return
	}

	var id *int64
	if raw := r.FormValue("id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			flashError(w, r, h.renderer, RouteAdminStats, "Invalid row id")
			return
		}
		id = &parsed
	}
	month := strings.TrimSpace(r.FormValue("month"))
	if id == nil && month == "" {
		flashError(w, r, h.renderer, RouteAdminStats, "Nothing to delete")
		return
	}

	if err := h.stats.Delete(r.Context(), id, month); err != nil {
		h.log.Error("failed to delete monthly stat", "error", err, "month", month)
		flashError(w, r, h.renderer, RouteAdminStats, "Failed to delete the figures")
		return
	}

	flashSuccess(w, r, h.renderer, RouteAdminStats, "Figures deleted")
}

func (h *StatsHandler) renderList(w http.ResponseWriter, r *http.Request, form model.MonthlyStat, fieldErrs map[string]string, status int) {
	monthly, err := h.stats.Monthly(r.Context())
	if err != nil {
		h.log.Error("failed to list monthly stats", "error", err)
		monthly = nil
	}

	data := baseData(r, "Impact Figures")
	data.Data = StatsAdminData{Monthly: monthly, Form: form}
	data.Errors = fieldErrs
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := h.renderer.Render(w, r, "admin/stats", data); err != nil {
		logAndInternalError(w, "failed to render stats page", "error", err)
	}
}

// parseStatForm reads the month figures form and validates it.
func parseStatForm(r *http.Request) (model.MonthlyStat, map[string]string) {
	stat := model.MonthlyStat{
		Month: strings.TrimSpace(r.FormValue("month")),
	}

	fieldErrs := make(map[string]string)
	var err error
	if stat.PlasticCollected, err = parseFloatField(r.FormValue("plastic_collected")); err != nil {
		fieldErrs["plastic_collected"] = "Enter a number."
	}
	if stat.PlasticRecycled, err = parseFloatField(r.FormValue("plastic_recycled")); err != nil {
		fieldErrs["plastic_recycled"] = "Enter a number."
	}
	if stat.Volunteers, err = parseIntField(r.FormValue("volunteers")); err != nil {
		fieldErrs["volunteers"] = "Enter a whole number."
	}

	for field, msg := range stat.Validate() {
		if _, taken := fieldErrs[field]; !taken {
			fieldErrs[field] = msg
		}
	}
	return stat, fieldErrs
}

func parseFloatField(raw string) (float64, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.TrimSpace(raw), 64)
}

func parseIntField(raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	return strconv.Atoi(strings.TrimSpace(raw))
}
