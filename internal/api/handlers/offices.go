package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"office-locator-service/internal/api/dto"
	"office-locator-service/internal/domain"
	"office-locator-service/internal/services"
	"strconv"
	"strings"
)

// DatasetLoader fetches and parses the office dataset.
type DatasetLoader func(ctx context.Context) (services.DatasetLoad, error)

// OfficeHandler exposes the ranked office list and office focus.
type OfficeHandler struct {
	Engine *services.Engine
	Load   DatasetLoader
}

// List returns the current snapshot; ?limit=N keeps the N nearest offices.
func (h *OfficeHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	writeJSON(w, r, http.StatusOK, dto.Snapshot(h.Engine.Snapshot(), limit))
}

// Reload refetches the dataset and replaces the office set.
// On failure the current offices stay in place.
func (h *OfficeHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	if h.Load == nil {
		writeError(w, r, http.StatusNotImplemented, "dataset reload is not configured")
		return
	}

	load, err := h.Load(r.Context())
	if err != nil {
		writeDomainError(w, r, "reload offices", err)
		return
	}

	snap := h.Engine.SetOffices(load.Offices)
	slog.InfoContext(r.Context(), "offices reloaded",
		slog.Int("offices", len(load.Offices)),
		slog.Int("diagnostics", len(load.Diagnostics)),
	)

	writeJSON(w, r, http.StatusOK, dto.ReloadResponse{
		OfficeCount: len(load.Offices),
		Diagnostics: dto.Diagnostics(load.Diagnostics),
		Snapshot:    dto.Snapshot(snap, 0),
	})
}

// Focus returns the map focus for one office of the current ranking.
func (h *OfficeHandler) Focus(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "office id is required")
		return
	}

	focus, err := h.Engine.FocusOffice(id)
	if err != nil {
		writeDomainError(w, r, "focus office", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.Focus(focus))
}

// Recenter returns the focus on the reference location, or the overview
// focus with 409 when no reference is known yet.
func (h *OfficeHandler) Recenter(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	focus, err := h.Engine.Recenter()
	res := dto.Focus(focus)
	if errors.Is(err, domain.ErrNoReference) {
		res.Error = err.Error()
		writeJSON(w, r, statusFor(err), res)
		return
	}
	if err != nil {
		writeDomainError(w, r, "recenter", err)
		return
	}

	writeJSON(w, r, http.StatusOK, res)
}
