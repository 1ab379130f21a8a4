package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/harrier/pkg/domain/model"
)

// notFoundErrors are the sentinel errors that map to HTTP 404
var notFoundErrors = []error{
	model.ErrEventNotFound,
	model.ErrMalwareNotFound,
	model.ErrPhishNotFound,
	model.ErrIOCNotFound,
	model.ErrMitigationNotFound,
	model.ErrAPTNotFound,
	model.ErrVulnerabilityNotFound,
	model.ErrClusterNotFound,
	model.ErrFamilyNotFound,
	model.ErrCategoryNotFound,
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders the error as a JSON body. Missing entities become
// 404, everything else the caller's fallback status.
func writeError(w http.ResponseWriter, r *http.Request, err error, fallback int) {
	status := fallback
	for _, sentinel := range notFoundErrors {
		if errors.Is(err, sentinel) {
			status = http.StatusNotFound
			break
		}
	}
	if status >= http.StatusInternalServerError {
		ctxlog.From(r.Context()).Error("request failed",
			"error", err, "path", r.URL.Path)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// idParam reads a positive integer path parameter; ok is false otherwise
func idParam(r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// intQuery reads an integer query parameter with a default
func intQuery(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
