package handlers

import (
	"context"
	"fmt"
	"net/http"
	"office-locator-service/internal/api/dto"
	"office-locator-service/internal/domain"
	"office-locator-service/internal/ports"
	"office-locator-service/internal/services"
	"strings"
)

// LocationHandler accepts reference locations from lookups and from the
// client's own geolocation.
type LocationHandler struct {
	Engine   *services.Engine
	Provider *services.LocationProvider
}

func (h *LocationHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.LookupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.Provider.Lookup(r.Context(), req.Query)
	if err != nil {
		writeDomainError(w, r, "lookup", err)
		return
	}

	writeJSON(w, r, http.StatusOK, h.resolution(res))
}

// Device installs the fix reported by the client. Reported errors such as
// "denied" resolve to 422 and leave the current reference untouched.
func (h *LocationHandler) Device(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.DeviceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	reported := strings.TrimSpace(req.Error)
	if reported == "" && (req.Lat == nil || req.Lon == nil) {
		writeError(w, r, http.StatusBadRequest, "lat and lon are required unless error is set")
		return
	}

	locator := ports.DeviceLocatorFunc(func(ctx context.Context) (domain.Coordinate, error) {
		if reported != "" {
			return domain.Coordinate{}, fmt.Errorf("%w: %s", domain.ErrLocationUnavailable, reported)
		}
		return domain.Coordinate{Lon: *req.Lon, Lat: *req.Lat}, nil
	})

	res, err := h.Provider.ResolveWith(r.Context(), locator)
	if err != nil {
		writeDomainError(w, r, "device location", err)
		return
	}

	writeJSON(w, r, http.StatusOK, h.resolution(res))
}

func (h *LocationHandler) resolution(res services.Resolution) dto.ResolutionResponse {
	snap := res.Snapshot
	if !res.Applied {
		snap = h.Engine.Snapshot()
	}

	out := dto.ResolutionResponse{
		Applied:  res.Applied,
		Snapshot: dto.Snapshot(snap, 0),
	}
	if res.Applied {
		ref := res.Reference
		out.Reference = dto.Reference(&ref)
	}
	return out
}
