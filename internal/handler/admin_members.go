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

// MembersHandler manages the team roster from the admin console.
type MembersHandler struct {
	renderer *render.Renderer
	content  *service.ContentService
	uploads  *service.UploadService
	log      *slog.Logger
}

// NewMembersHandler creates a new MembersHandler.
func NewMembersHandler(renderer *render.Renderer, content *service.ContentService, uploads *service.UploadService, log *slog.Logger) *MembersHandler {
	return &MembersHandler{
		renderer: renderer,
		content:  content,
		uploads:  uploads,
		log:      log,
	}
}

// List renders the roster.
func (h *MembersHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.content.ListMembers(r.Context())
	if err != nil {
		h.log.Error("failed to list members", "error", err)
		members = nil
	}

	data := baseData(r, "Members")
	data.Data = members
	if err := h.renderer.Render(w, r, "admin/members", data); err != nil {
		logAndInternalError(w, "failed to render members list", "error", err)
	}
}

// NewForm renders the empty member form.
func (h *MembersHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	data := baseData(r, "New Member")
	data.Data = model.Member{}
	if err := h.renderer.Render(w, r, "admin/members_form", data); err != nil {
		logAndInternalError(w, "failed to render member form", "error", err)
	}
}

// Create stores a new member, optionally with a portrait upload.
func (h *MembersHandler) Create(w http.ResponseWriter, r *http.Request) {
	member, fieldErrs, ok := h.parseMemberForm(w, r)
	if !ok {
		return
	}
	if len(fieldErrs) > 0 {
		h.rerenderForm(w, r, "New Member", member, fieldErrs)
		return
	}

	if err := h.content.CreateMember(r.Context(), member); err != nil {
		h.log.Error("failed to create member", "error", err)
		flashError(w, r, h.renderer, RouteAdminMembers, "Failed to save the member")
		return
	}

	flashSuccess(w, r, h.renderer, RouteAdminMembers, "Member added")
}

// EditForm renders the form pre-filled with an existing member.
func (h *MembersHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	member, err := h.content.GetMember(r.Context(), id)
	if err != nil {
		h.log.Error("failed to load member", "error", err, "id", id)
		flashError(w, r, h.renderer, RouteAdminMembers, "Member not found")
		return
	}

	data := baseData(r, "Edit Member")
	data.Data = member
	if err := h.renderer.Render(w, r, "admin/members_form", data); err != nil {
		logAndInternalError(w, "failed to render member form", "error", err)
	}
}

// Update saves changes to an existing member. A new portrait replaces the
// stored one; without an upload the existing portrait stays.
func (h *MembersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	member, fieldErrs, formOK := h.parseMemberForm(w, r)
	if !formOK {
		return
	}
	member.ID = id
	if len(fieldErrs) > 0 {
		h.rerenderForm(w, r, "Edit Member", member, fieldErrs)
		return
	}

	if err := h.content.UpdateMember(r.Context(), id, member); err != nil {
		h.log.Error("failed to update member", "error", err, "id", id)
		flashError(w, r, h.renderer, RouteAdminMembers, "Failed to save the member")
		return
	}

	flashSuccess(w, r, h.renderer, RouteAdminMembers, "Member updated")
}

// Delete removes a member and their stored portrait.
func (h *MembersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	member, err := h.content.GetMember(ctx, id)
	if err != nil {
		h.log.Error("failed to load member for delete", "error", err, "id", id)
		flashError(w, r, h.renderer, RouteAdminMembers, "Member not found")
		return
	}

	if err := h.content.DeleteMember(ctx, id); err != nil {
		h.log.Error("failed to delete member", "error", err, "id", id)
		flashError(w, r, h.renderer, RouteAdminMembers, "Failed to delete the member")
		return
	}
	if member.ImageURL != "" {
		h.uploads.DeleteImage(ctx, member.ImageURL)
	}

	flashSuccess(w, r, h.renderer, RouteAdminMembers, "Member deleted")
}

func (h *MembersHandler) parseMemberForm(w http.ResponseWriter, r *http.Request) (model.Member, map[string]string, bool) {
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		flashError(w, r, h.renderer, RouteAdminMembers, "Invalid form data")
		return model.Member{}, nil, false
	}

	member := model.Member{
		Name: strings.TrimSpace(r.FormValue("name")),
		Role: strings.TrimSpace(r.FormValue("role")),
		Team: strings.TrimSpace(r.FormValue("team")),
	}

	fieldErrs := make(map[string]string)
	if member.Name == "" {
		fieldErrs["name"] = "Name is required."
	}
	if member.Team == "" {
		fieldErrs["team"] = "Team is required."
	}
	if len(fieldErrs) > 0 {
		return member, fieldErrs, true
	}

	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return member, nil, true
	}
	if err != nil {
		flashError(w, r, h.renderer, RouteAdminMembers, "Invalid image upload")
		return model.Member{}, nil, false
	}
	defer file.Close()

	url, err := h.uploads.UploadImage(r.Context(), service.UploadPrefixMembers, header.Filename, file)
	if err != nil {
		h.log.Error("failed to upload member portrait", "error", err)
		flashError(w, r, h.renderer, RouteAdminMembers, "Image upload failed; the member was not saved")
		return model.Member{}, nil, false
	}
	member.ImageURL = url

	return member, nil, true
}

func (h *MembersHandler) rerenderForm(w http.ResponseWriter, r *http.Request, title string, member model.Member, fieldErrs map[string]string) {
	data := baseData(r, title)
	data.Data = member
	data.Errors = fieldErrs
	w.WriteHeader(http.StatusUnprocessableEntity)
	if err := h.renderer.Render(w, r, "admin/members_form", data); err != nil {
		logAndInternalError(w, "failed to render member form", "error", err)
	}
}
