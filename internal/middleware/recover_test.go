// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAdminRecoverer_RendersErrorPage(t *testing.T) {
	var gotErr error
	renderFn := func(w http.ResponseWriter, _ *http.Request, err error) {
		gotErr = err
		_, _ = w.Write([]byte("error page"))
	}

	h := AdminRecoverer(nil, renderFn)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(errors.New("stats page blew up"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "error page") {
		t.Errorf("body = %q", rec.Body.String())
	}
	if gotErr == nil || gotErr.Error() != "stats page blew up" {
		t.Errorf("rendered error = %v", gotErr)
	}
}

func TestAdminRecoverer_NonErrorPanic(t *testing.T) {
	h := AdminRecoverer(nil, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("string panic")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestAdminRecoverer_PassesThrough(t *testing.T) {
	h := AdminRecoverer(nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want passthrough", rec.Code)
	}
}

func TestAdminRecoverer_RethrowsAbortHandler(t *testing.T) {
	h := AdminRecoverer(nil, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if recover() != http.ErrAbortHandler {
			t.Error("ErrAbortHandler should propagate")
		}
	}()

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/admin", nil))
}
