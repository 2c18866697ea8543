// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// AdminRecoverer confines a panic in any admin page to that page: the
// request gets an error response with a reload link instead of taking the
// whole server connection down. The renderFn renders the error page; when
// nil a plain-text fallback is used.
func AdminRecoverer(log *slog.Logger, renderFn func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("%v", rec)
				}

				log.Error("admin page panic",
					"error", err,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				if renderFn != nil {
					w.WriteHeader(http.StatusInternalServerError)
					renderFn(w, r, err)
					return
				}

				http.Error(w, "Something went wrong. Reload the page to continue.", http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
