// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/sarangxanh/site/internal/imaging"
	"github.com/sarangxanh/site/internal/model"
	"github.com/sarangxanh/site/internal/render"
	"github.com/sarangxanh/site/internal/service"
)

// maxGalleryBatch bounds one multi-upload request.
const maxGalleryBatch = 20

// GalleryHandler manages the photo gallery from the admin console.
type GalleryHandler struct {
	renderer *render.Renderer
	content  *service.ContentService
	uploads  *service.UploadService
	log      *slog.Logger
}

// NewGalleryHandler creates a new GalleryHandler.
func NewGalleryHandler(renderer *render.Renderer, content *service.ContentService, uploads *service.UploadService, log *slog.Logger) *GalleryHandler {
	return &GalleryHandler{
		renderer: renderer,
		content:  content,
		uploads:  uploads,
		log:      log,
	}
}

// List renders the gallery grouped by year with the upload form.
func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.content.ListGallery(r.Context())
	if err != nil {
		h.log.Error("failed to list gallery", "error", err)
		items = nil
	}

	data := baseData(r, "Gallery")
	data.Data = service.GalleryByYear(items)
	if err := h.renderer.Render(w, r, "admin/gallery", data); err != nil {
		logAndInternalError(w, "failed to render gallery page", "error", err)
	}
}

// Upload stores a batch of images under one year. Files are processed one
// by one; a bad file skips that file only, and the flash reports how many
// made it.
func (h *GalleryHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		flashError(w, r, h.renderer, RouteAdminGallery, "Invalid form data")
		return
	}

	year, err := strconv.Atoi(r.FormValue("year"))
	if err != nil || year < 2000 || year > time.Now().Year()+1 {
		flashError(w, r, h.renderer, RouteAdminGallery, "Enter a valid year")
		return
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File["images"]) == 0 {
		flashError(w, r, h.renderer, RouteAdminGallery, "Choose at least one image")
		return
	}
	files := r.MultipartForm.File["images"]
	if len(files) > maxGalleryBatch {
		flashError(w, r, h.renderer, RouteAdminGallery, fmt.Sprintf("At most %d images per upload", maxGalleryBatch))
		return
	}

	ctx := r.Context()
	var stored, failed int
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			h.log.Error("failed to open uploaded file", "error", err, "filename", header.Filename)
			failed++
			continue
		}

		url, err := h.uploads.UploadImage(ctx, service.UploadPrefixGallery, header.Filename, file)
		_ = file.Close()
		if err != nil {
			h.log.Error("failed to process gallery image", "error", err, "filename", header.Filename)
			failed++
			continue
		}

		if err := h.content.CreateGalleryItem(ctx, model.GalleryItem{Year: year, ImageURL: url}); err != nil {
			h.log.Error("failed to store gallery item", "error", err, "url", url)
			h.uploads.DeleteImage(ctx, url)
			failed++
			continue
		}
		stored++
	}

	switch {
	case stored == 0:
		flashError(w, r, h.renderer, RouteAdminGallery, "No images could be uploaded")
	case failed > 0:
		flashSuccess(w, r, h.renderer, RouteAdminGallery, fmt.Sprintf("%d images uploaded, %d failed", stored, failed))
	default:
		flashSuccess(w, r, h.renderer, RouteAdminGallery, fmt.Sprintf("%d images uploaded", stored))
	}
}

// Delete removes a gallery item and its stored image.
func (h *GalleryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	item, err := h.content.GetGalleryItem(ctx, id)
	if err != nil {
		h.log.Error("failed to load gallery item for delete", "error", err, "id", id)
		flashError(w, r, h.renderer, RouteAdminGallery, "Image not found")
		return
	}

	if err := h.content.DeleteGalleryItem(ctx, id); err != nil {
		h.log.Error("failed to delete gallery item", "error", err, "id", id)
		flashError(w, r, h.renderer, RouteAdminGallery, "Failed to delete the image")
		return
	}
	h.uploads.DeleteImage(ctx, item.ImageURL)

	flashSuccess(w, r, h.renderer, RouteAdminGallery, "Image deleted")
}
