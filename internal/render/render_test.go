// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"text/template"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": {Data: []byte(
			`{{define "base"}}<html><body>{{block "content" .}}{{end}}</body></html>{{end}}`,
		)},
		"layouts/admin.html": {Data: []byte(
			`{{define "admin-nav"}}<nav>console</nav>{{end}}`,
		)},
		"partials/flash.html": {Data: []byte(
			`{{define "flash"}}{{if .Flash}}<div class="{{.FlashType}}">{{.Flash}}</div>{{end}}{{end}}`,
		)},
		"public/home.html": {Data: []byte(
			`{{define "content"}}{{template "flash" .}}<h1>{{.Title}}</h1>{{end}}`,
		)},
		"admin/dashboard.html": {Data: []byte(
			`{{define "content"}}{{template "admin-nav" .}}<p>{{.Data}}</p>{{end}}`,
		)},
	}
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(Config{TemplatesFS: testFS()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return r
}

func TestRenderPublicPage(t *testing.T) {
	r := newTestRenderer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if err := r.Render(rec, req, "public/home", TemplateData{Title: "SarangXanh"}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "<h1>SarangXanh</h1>") {
		t.Errorf("body = %q", body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestRenderAdminPageGetsConsoleChrome(t *testing.T) {
	r := newTestRenderer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)

	if err := r.Render(rec, req, "admin/dashboard", TemplateData{Data: "42 applications"}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "<nav>console</nav>") {
		t.Errorf("admin layout missing: %q", body)
	}
	if !strings.Contains(body, "42 applications") {
		t.Errorf("page data missing: %q", body)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	r := newTestRenderer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if err := r.Render(rec, req, "public/missing", TemplateData{}); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func execFunc(t *testing.T, expr string, data any) string {
	t.Helper()
	r := &Renderer{}
	tmpl, err := template.New("f").Funcs(template.FuncMap(r.templateFuncs())).Parse(expr)
	if err != nil {
		t.Fatalf("parse %q: %v", expr, err)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		t.Fatalf("exec %q: %v", expr, err)
	}
	return sb.String()
}

func TestTemplateFuncs(t *testing.T) {
	tests := []struct {
		name string
		expr string
		data any
		want string
	}{
		{"formatDate", `{{formatDate .}}`, "2026-03-09", "Mar 9, 2026"},
		{"formatDate invalid passes through", `{{formatDate .}}`, "soon", "soon"},
		{"formatMonth", `{{formatMonth .}}`, "2026-01", "January 2026"},
		{"formatNumber groups thousands", `{{formatNumber .}}`, 12345.67, "12,345.7"},
		{"formatCount", `{{formatCount .}}`, 1200, "1,200"},
		{"truncate", `{{truncate . 5}}`, "plastic", "plast..."},
		{"add", `{{add 2 3}}`, nil, "5"},
		{"sub", `{{sub 5 2}}`, nil, "3"},
		{"seq", `{{range seq 1 3}}{{.}}{{end}}`, nil, "123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := execFunc(t, tt.expr, tt.data); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMarkdownFuncSanitizes(t *testing.T) {
	got := execFunc(t, `{{markdown .}}`, "# Research\n\n<script>alert(1)</script>*update*")

	if !strings.Contains(got, "<h1") {
		t.Errorf("heading not rendered: %q", got)
	}
	if strings.Contains(got, "<script>") {
		t.Errorf("script not stripped: %q", got)
	}
	if !strings.Contains(got, "<em>update</em>") {
		t.Errorf("emphasis not rendered: %q", got)
	}
}
