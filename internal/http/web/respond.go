// Package web holds the request decoding and response helpers shared by the API handlers.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

// SyncErrorHeader carries a remote sync failure on an otherwise successful response.
const SyncErrorHeader = "X-Sync-Error"

type errorResponse struct {
	Error string `json:"error"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// StatusFor maps ledger errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrRemoteSync):
		return http.StatusBadGateway
	case errors.Is(err, ledger.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrDuplicateName),
		errors.Is(err, ledger.ErrDuplicateTarget),
		errors.Is(err, ledger.ErrCategoryInUse):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as a JSON error body. Internal errors are logged and not exposed.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		msg = "internal error"
	}

	JSON(w, status, errorResponse{Error: msg})
}

// Result writes the outcome of a mutation. A remote sync failure does not undo the
// local change, so it is reported in SyncErrorHeader next to the normal response.
func Result(w http.ResponseWriter, r *http.Request, status int, v any, err error) {
	if err != nil {
		if !errors.Is(err, ledger.ErrRemoteSync) {
			Error(w, r, err)
			return
		}

		w.Header().Set(SyncErrorHeader, headerValue(err.Error()))
	}

	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	JSON(w, status, v)
}

func headerValue(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Decode reads a JSON request body into v.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %w", ledger.ErrValidation, err)
	}

	return nil
}

// PathParam returns the named path parameter decoded exactly once. chi matches on
// r.URL.RawPath when it is set, so only then is the value still escaped.
func PathParam(r *http.Request, name string) (string, error) {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v, nil
	}

	decoded, err := url.PathUnescape(v)
	if err != nil {
		return "", fmt.Errorf("%w: invalid %s", ledger.ErrValidation, name)
	}

	return decoded, nil
}

// PathID parses the UUID route parameter called name.
func PathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid id", ledger.ErrValidation)
	}

	return id, nil
}
