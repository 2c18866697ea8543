// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/sarangxanh/site/internal/render"
	"github.com/sarangxanh/site/internal/service"
)

// OutreachAdminHandler lists and prunes the public form submissions.
type OutreachAdminHandler struct {
	renderer *render.Renderer
	outreach *service.OutreachService
	log      *slog.Logger
}

// NewOutreachAdminHandler creates a new OutreachAdminHandler.
func NewOutreachAdminHandler(renderer *render.Renderer, outreach *service.OutreachService, log *slog.Logger) *OutreachAdminHandler {
	return &OutreachAdminHandler{
		renderer: renderer,
		outreach: outreach,
		log:      log,
	}
}

// Applications renders the volunteer applications, newest first.
func (h *OutreachAdminHandler) Applications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.outreach.ListApplications(r.Context())
	if err != nil {
		h.log.Error("failed to list applications", "error", err)
		apps = nil
	}

	data := baseData(r, "Volunteer Applications")
	data.Data = apps
	if err := h.renderer.Render(w, r, "admin/applications", data); err != nil {
		logAndInternalError(w, "failed to render applications list", "error", err)
	}
}

// DeleteApplication removes an application.
func (h *OutreachAdminHandler) DeleteApplication(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.outreach.DeleteApplication(r.Context(), id); err != nil {
		h.log.Error("failed to delete application", "error", err, "id", id)
		flashError(w, r, h.renderer, RouteAdminApplications, "Failed to delete the application")
		return
	}

	flashSuccess(w, r, h.renderer, RouteAdminApplications, "Application deleted")
}

// Donations renders the donation notify sign-ups, newest first.
func (h *OutreachAdminHandler) Donations(w http.ResponseWriter, r *http.Request) {
	entries, err := h.outreach.ListDonationNotify(r.Context())
	if err != nil {
		h.log.Error("failed to list donation notify entries", "error", err)
		entries = nil
	}

	data := baseData(r, "Donation Notifications")
	data.Data = entries
	if err := h.renderer.Render(w, r, "admin/donations", data); err != nil {
		logAndInternalError(w, "failed to render donations list", "error", err)
	}
}

// DeleteDonation removes a donation notify entry.
func (h *OutreachAdminHandler) DeleteDonation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.outreach.DeleteDonationNotify(r.Context(), id); err != nil {
		h.log.Error("failed to delete donation notify entry", "error", err, "id", id)
		flashError(w, r, h.renderer, RouteAdminDonations, "Failed to delete the entry")
		return
	}

	flashSuccess(w, r, h.renderer, RouteAdminDonations, "Entry deleted")
}
