// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/sarangxanh/site/internal/imaging"
	"github.com/sarangxanh/site/internal/model"
	"github.com/sarangxanh/site/internal/render"
	"github.com/sarangxanh/site/internal/service"
)

// TimelineHandler manages the public timeline from the admin console.
type TimelineHandler struct {
	renderer *render.Renderer
	content  *service.ContentService
	uploads  *service.UploadService
	log      *slog.Logger
}

// NewTimelineHandler creates a new TimelineHandler.
func NewTimelineHandler(renderer *render.Renderer, content *service.ContentService, uploads *service.UploadService, log *slog.Logger) *TimelineHandler {
	return &TimelineHandler{
		renderer: renderer,
		content:  content,
		uploads:  uploads,
		log:      log,
	}
}

// List renders the timeline overview.
func (h *TimelineHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.content.ListTimeline(r.Context())
	if err != nil {
		h.log.Error("failed to list timeline events", "error", err)
		events = nil
	}

	data := baseData(r, "Timeline")
	data.Data = events
	if err := h.renderer.Render(w, r, "admin/timeline", data); err != nil {
		logAndInternalError(w, "failed to render timeline list", "error", err)
	}
}

// NewForm renders the empty event form.
func (h *TimelineHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	data := baseData(r, "New Timeline Event")
	data.Data = model.TimelineEvent{}
	if err := h.renderer.Render(w, r, "admin/timeline_form", data); err != nil {
		logAndInternalError(w, "failed to render timeline form", "error", err)
	}
}

// Create stores a new timeline event, optionally with an uploaded image.
// An upload failure aborts the save; no row is written.
func (h *TimelineHandler) Create(w http.ResponseWriter, r *http.Request) {
	event, fieldErrs, ok := h.parseEventForm(w, r)
	if !ok {
		return
	}
	if len(fieldErrs) > 0 {
		h.rerenderForm(w, r, "New Timeline Event", event, fieldErrs)
		return
	}

	if _, err := h.content.CreateTimelineEvent(r.Context(), event); err != nil {
		h.log.Error("failed to create timeline event", "error", err)
		flashError(w, r, h.renderer, RouteAdminTimeline, "Failed to save the event")
		return
	}

	flashSuccess(w, r, h.renderer, RouteAdminTimeline, "Event created")
}

// EditForm renders the form pre-filled with an existing event.
func (h *TimelineHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	event, err := h.content.GetTimelineEvent(r.Context(), id)
	if err != nil {
		h.log.Error("failed to load timeline event", "error", err, "id", id)
		flashError(w, r, h.renderer, RouteAdminTimeline, "Event not found")
		return
	}

	data := baseData(r, "Edit Timeline Event")
	data.Data = event
	if err := h.renderer.Render(w, r, "admin/timeline_form", data); err != nil {
		logAndInternalError(w, "failed to render timeline form", "error", err)
	}
}

// Update saves changes to an existing event. A newly uploaded image
// replaces the stored one; without an upload the existing image stays.
func (h *TimelineHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	event, fieldErrs, formOK := h.parseEventForm(w, r)
	if !formOK {
		return
	}
	event.ID = id
	if len(fieldErrs) > 0 {
		h.rerenderForm(w, r, "Edit Timeline Event", event, fieldErrs)
		return
	}

	if err := h.content.UpdateTimelineEvent(r.Context(), id, event); err != nil {
		h.log.Error("failed to update timeline event", "error", err, "id", id)
		flashError(w, r, h.renderer, RouteAdminTimeline, "Failed to save the event")
		return
	}

	flashSuccess(w, r, h.renderer, RouteAdminTimeline, "Event updated")
}

// Delete removes an event and its stored image.
func (h *TimelineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	event, err := h.content.GetTimelineEvent(ctx, id)
	if err != nil {
		h.log.Error("failed to load timeline event for delete", "error", err, "id", id)
		flashError(w, r, h.renderer, RouteAdminTimeline, "Event not found")
		return
	}

	if err := h.content.DeleteTimelineEvent(ctx, id); err != nil {
		h.log.Error("failed to delete timeline event", "error", err, "id", id)
		flashError(w, r, h.renderer, RouteAdminTimeline, "Failed to delete the event")
		return
	}
	if event.ImageURL != "" {
		h.uploads.DeleteImage(ctx, event.ImageURL)
	}

	flashSuccess(w, r, h.renderer, RouteAdminTimeline, "Event deleted")
}

// parseEventForm reads the multipart event form, processing an optional
// image upload. Returns ok=false when the response has already been
// written.
func (h *TimelineHandler) parseEventForm(w http.ResponseWriter, r *http.Request) (model.TimelineEvent, map[string]string, bool) {
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		flashError(w, r, h.renderer, RouteAdminTimeline, "Invalid form data")
		return model.TimelineEvent{}, nil, false
	}

	event := model.TimelineEvent{
		Date:        strings.TrimSpace(r.FormValue("date")),
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}

	fieldErrs := event.Validate()
	if len(fieldErrs) > 0 {
		return event, fieldErrs, true
	}

	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return event, nil, true
	}
	if err != nil {
		flashError(w, r, h.renderer, RouteAdminTimeline, "Invalid image upload")
		return model.TimelineEvent{}, nil, false
	}
	defer file.Close()

	url, err := h.uploads.UploadImage(r.Context(), service.UploadPrefixTimeline, header.Filename, file)
	if err != nil {
		h.log.Error("failed to upload timeline image", "error", err)
		flashError(w, r, h.renderer, RouteAdminTimeline, "Image upload failed; the event was not saved")
		return model.TimelineEvent{}, nil, false
	}
	event.ImageURL = url

	return event, nil, true
}

func (h *TimelineHandler) rerenderForm(w http.ResponseWriter, r *http.Request, title string, event model.TimelineEvent, fieldErrs map[string]string) {
	data := baseData(r, title)
	data.Data = event
	data.Errors = fieldErrs
	w.WriteHeader(http.StatusUnprocessableEntity)
	if err := h.renderer.Render(w, r, "admin/timeline_form", data); err != nil {
		logAndInternalError(w, "failed to render timeline form", "error", err)
	}
}
