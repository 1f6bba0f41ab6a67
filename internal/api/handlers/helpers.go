package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"office-locator-service/internal/domain"
	"office-locator-service/internal/platform/obs"

	"github.com/goccy/go-json"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "encode failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			obs.Err(err),
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// allowMethod writes 405 and returns false when r does not use method.
func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// decodeJSON reads exactly one JSON object from the body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// statusFor maps domain failures to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrDatasetUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrLocationUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNoMatchFound), errors.Is(err, domain.ErrUnknownOffice):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrLookupFailed):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrNoReference):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidCoordinate):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeDomainError logs err and writes its mapped status. Internal errors
// are not echoed to the client.
func writeDomainError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	slog.WarnContext(r.Context(), op+" failed",
		slog.String("req_id", obs.RequestID(r.Context())),
		slog.Int("status", status),
		obs.Err(err),
	)
	if status == http.StatusInternalServerError {
		writeError(w, r, status, "internal server error")
		return
	}
	writeError(w, r, status, err.Error())
}
