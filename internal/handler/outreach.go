// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/sarangxanh/site/internal/model"
	"github.com/sarangxanh/site/internal/platform"
	"github.com/sarangxanh/site/internal/render"
	"github.com/sarangxanh/site/internal/service"
)

// OutreachHandler serves the volunteer application and donation pages.
type OutreachHandler struct {
	renderer *render.Renderer
	outreach *service.OutreachService
	checkout *platform.Checkout
	log      *slog.Logger
}

// NewOutreachHandler creates a new OutreachHandler.
func NewOutreachHandler(renderer *render.Renderer, outreach *service.OutreachService, checkout *platform.Checkout, log *slog.Logger) *OutreachHandler {
	return &OutreachHandler{
		renderer: renderer,
		outreach: outreach,
		checkout: checkout,
		log:      log,
	}
}

// ApplyForm renders the volunteer application form.
func (h *OutreachHandler) ApplyForm(w http.ResponseWriter, r *http.Request) {
	data := baseData(r, "Join Us")
	data.Data = model.VolunteerApplication{}
	if err := h.renderer.Render(w, r, "public/apply", data); err != nil {
		logAndInternalError(w, "failed to render apply page", "error", err)
	}
}

// ApplySubmit handles the volunteer application submission. Validation
// failures re-render the form with field errors and the entered values;
// nothing is stored until every field passes.
func (h *OutreachHandler) ApplySubmit(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteApply) {
		return
	}

	app := model.VolunteerApplication{
		Name:          strings.TrimSpace(r.FormValue("name")),
		Email:         strings.TrimSpace(r.FormValue("email")),
		Phone:         strings.TrimSpace(r.FormValue("phone")),
		School:        strings.TrimSpace(r.FormValue("school")),
		Location:      strings.TrimSpace(r.FormValue("location")),
		Motivation:    strings.TrimSpace(r.FormValue("motivation")),
		InterviewTime: strings.TrimSpace(r.FormValue("interview_time")),
	}

	fieldErrs, err := h.outreach.SubmitApplication(r.Context(), app)
	if err != nil {
		h.log.Error("failed to store volunteer application", "error", err)
		flashError(w, r, h.renderer, RouteApply, "Something went wrong. Please try again.")
		return
	}
	if len(fieldErrs) > 0 {
		data := baseData(r, "Join Us")
		data.Data = app
		data.Errors = fieldErrs
		w.WriteHeader(http.StatusUnprocessableEntity)
		if err := h.renderer.Render(w, r, "public/apply", data); err != nil {
			logAndInternalError(w, "failed to render apply page", "error", err)
		}
		return
	}

	flashSuccess(w, r, h.renderer, RouteApply, "Thank you for applying! We will reach out to schedule your interview.")
}

// Donate renders the donation page.
func (h *OutreachHandler) Donate(w http.ResponseWriter, r *http.Request) {
	data := baseData(r, "Donate")
	data.Data = h.checkout.Configured()
	if err := h.renderer.Render(w, r, "public/donate", data); err != nil {
		logAndInternalError(w, "failed to render donate page", "error", err)
	}
}

// DonateNotify registers an email for the donations launch announcement.
func (h *OutreachHandler) DonateNotify(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteDonate) {
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	if !model.ValidEmail(email) {
		flashError(w, r, h.renderer, RouteDonate, "Enter a valid email address.")
		return
	}

	if err := h.outreach.SubscribeDonationNotify(r.Context(), email); err != nil {
		h.log.Error("failed to subscribe donation notify", "error", err)
		flashError(w, r, h.renderer, RouteDonate, "Something went wrong. Please try again.")
		return
	}

	flashSuccess(w, r, h.renderer, RouteDonate, "Thank you! We will email you when donations open.")
}

// DonateCheckout starts a payment checkout session and redirects the
// browser to the payment page. While the checkout service is not
// configured this reports a clear notice instead of silently succeeding.
func (h *OutreachHandler) DonateCheckout(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteDonate) {
		return
	}

	amount, err := strconv.ParseFloat(r.FormValue("amount"), 64)
	if err != nil || amount <= 0 {
		flashError(w, r, h.renderer, RouteDonate, "Enter a valid donation amount.")
		return
	}
	recurrence := r.FormValue("recurrence")

	redirectURL, err := h.checkout.CreateSession(r.Context(), amount, recurrence)
	if err != nil {
		if errors.Is(err, platform.ErrCheckoutNotConfigured) {
			flashError(w, r, h.renderer, RouteDonate, "Online donations are not open yet. Leave your email and we will let you know.")
			return
		}
		h.log.Error("failed to create checkout session", "error", err)
		flashError(w, r, h.renderer, RouteDonate, "Something went wrong. Please try again.")
		return
	}

	http.Redirect(w, r, redirectURL, http.StatusSeeOther)
}
