// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/sarangxanh/site/internal/model"
	"github.com/sarangxanh/site/internal/render"
	"github.com/sarangxanh/site/internal/service"
)

// ResearchHandler manages research entries from the admin console.
type ResearchHandler struct {
	renderer *render.Renderer
	content  *service.ContentService
	log      *slog.Logger
}

// NewResearchHandler creates a new ResearchHandler.
func NewResearchHandler(renderer *render.Renderer, content *service.ContentService, log *slog.Logger) *ResearchHandler {
	return &ResearchHandler{
		renderer: renderer,
		content:  content,
		log:      log,
	}
}

// List renders the research overview.
func (h *ResearchHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.content.ListResearch(r.Context())
	if err != nil {
		h.log.Error("failed to list research", "error", err)
		items = nil
	}

	data := baseData(r, "Research")
	data.Data = items
	if err := h.renderer.Render(w, r, "admin/research", data); err != nil {
		logAndInternalError(w, "failed to render research list", "error", err)
	}
}

// NewForm renders the empty research entry form.
func (h *ResearchHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	data := baseData(r, "New Research Entry")
	data.Data = model.ResearchItem{}
	if err := h.renderer.Render(w, r, "admin/research_form", data); err != nil {
		logAndInternalError(w, "failed to render research form", "error", err)
	}
}

// Create stores a new research entry.
func (h *ResearchHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteAdminResearch) {
		return
	}

	item := parseResearchForm(r)
	if fieldErrs := item.Validate(); len(fieldErrs) > 0 {
		h.rerenderForm(w, r, "New Research Entry", item, fieldErrs)
		return
	}

	if err := h.content.CreateResearchItem(r.Context(), item); err != nil {
		h.log.Error("failed to create research entry", "error", err)
		flashError(w, r, h.renderer, RouteAdminResearch, "Failed to save the entry")
		return
	}

	flashSuccess(w, r, h.renderer, RouteAdminResearch, "Entry created")
}

// EditForm renders the form pre-filled with an existing entry.
func (h *ResearchHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	item, err := h.content.GetResearchItem(r.Context(), id)
	if err != nil {
		h.log.Error("failed to load research entry", "error", err, "id", id)
		flashError(w, r, h.renderer, RouteAdminResearch, "Entry not found")
		return
	}

	data := baseData(r, "Edit Research Entry")
	data.Data = item
	if err := h.renderer.Render(w, r, "admin/research_form", data); err != nil {
		logAndInternalError(w, "failed to render research form", "error", err)
	}
}

// Update saves changes to an existing entry.
func (h *ResearchHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, RouteAdminResearch) {
		return
	}

	item := parseResearchForm(r)
	item.ID = id
	if fieldErrs := item.Validate(); len(fieldErrs) > 0 {
		h.rerenderForm(w, r, "Edit Research Entry", item, fieldErrs)
		return
	}

	if err := h.content.UpdateResearchItem(r.Context(), id, item); err != nil {
		h.log.Error("failed to update research entry", "error", err, "id", id)
		flashError(w, r, h.renderer, RouteAdminResearch, "Failed to save the entry")
		return
	}

	flashSuccess(w, r, h.renderer, RouteAdminResearch, "Entry updated")
}

// Delete removes a research entry.
func (h *ResearchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.content.DeleteResearchItem(r.Context(), id); err != nil {
		h.log.Error("failed to delete research entry", "error", err, "id", id)
		flashError(w, r, h.renderer, RouteAdminResearch, "Failed to delete the entry")
		return
	}

	flashSuccess(w, r, h.renderer, RouteAdminResearch, "Entry deleted")
}

func (h *ResearchHandler) rerenderForm(w http.ResponseWriter, r *http.Request, title string, item model.ResearchItem, fieldErrs map[string]string) {
	data := baseData(r, title)
	data.Data = item
	data.Errors = fieldErrs
	w.WriteHeader(http.StatusUnprocessableEntity)
	if err := h.renderer.Render(w, r, "admin/research_form", data); err != nil {
		logAndInternalError(w, "failed to render research form", "error", err)
	}
}

func parseResearchForm(r *http.Request) model.ResearchItem {
	return model.ResearchItem{
		Type:        r.FormValue("type"),
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Source:      strings.TrimSpace(r.FormValue("source")),
		Date:        strings.TrimSpace(r.FormValue("date")),
		Link:        strings.TrimSpace(r.FormValue("link")),
	}
}
