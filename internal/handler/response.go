// Package handler translates HTTP requests into service calls and service
// results into HTTP responses.
package handler

// RESPONSE HELPERS:
// Every handler writes through these functions so status codes and error
// bodies stay consistent:
//
//	writeJSON(w, http.StatusOK, data)
//	writeError(w, logger, err)
//
// ERROR FORMAT:
// Client errors carry a JSON body of one shape:
//
//	{"error": "validation_error", "message": "animal name is required", "field": "nomAn"}
//
// Not-found is the exception: it is a bare 404 with no body, which is what
// the front-end checks for.

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/buscadorpelut/buscadorpelut/internal/apperror"
)

// maxBodyBytes caps request bodies. The largest legitimate body is an
// animal with a long description.
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every 400/401/403/500 JSON response.
type ErrorResponse struct {
	Error   string `json:"error"`           // Machine-readable error type (e.g., "validation_error")
	Message string `json:"message"`         // Human-readable description
	Field   string `json:"field,omitempty"` // Offending field, when known
}

// writeJSON sends a JSON response with the given status code.
//
// HEADER ORDER MATTERS:
// Headers and status must be set BEFORE the body is written. Once Encode
// writes the first byte, later header changes are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeText sends a plain-text response. Register and login answer with
// bare strings.
func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, text)
}

// writeError maps a domain error to an HTTP status and sends it.
//
// ERROR MAPPING:
//
//	ErrNotFound                  -> 404, empty body
//	ErrValidation, ErrConflict   -> 400
//	ErrUnauthorized              -> 401
//	ErrForbidden                 -> 403
//	anything else                -> 500, generic message, logged
//
// errors.Is walks the whole Unwrap chain, so a service may wrap an
// AppError with fmt.Errorf("...: %w") and the mapping still works.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if errors.Is(err, apperror.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status, errorType = http.StatusBadRequest, "validation_error"
		case errors.Is(err, apperror.ErrConflict):
			status, errorType = http.StatusBadRequest, "conflict"
		case errors.Is(err, apperror.ErrUnauthorized):
			status, errorType = http.StatusUnauthorized, "unauthorized"
		case errors.Is(err, apperror.ErrForbidden):
			status, errorType = http.StatusForbidden, "forbidden"
		}

		if status != http.StatusInternalServerError {
			writeJSON(w, status, ErrorResponse{
				Error:   errorType,
				Message: appErr.Message,
				Field:   appErr.Field,
			})
			return
		}
	}

	// NEVER expose internal error details to the client: the raw message
	// might contain SQL or file paths.
	logger.Error("request failed", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// pathID parses the {id} URL parameter. Non-numeric ids are a 400.
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperror.ValidationFailed("id", fmt.Sprintf("invalid id %q", raw))
	}
	return id, nil
}

// decodeJSON reads a JSON request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.ValidationFailed("", "invalid JSON body: "+err.Error())
	}
	return nil
}

// idMismatch rejects a PUT whose body names a different record than the URL.
func idMismatch(pathID, bodyID int64) error {
	return apperror.ValidationFailed("id",
		fmt.Sprintf("id in path (%d) does not match id in body (%d)", pathID, bodyID))
}

func isUnauthorized(err error) bool {
	return errors.Is(err, apperror.ErrUnauthorized)
}
