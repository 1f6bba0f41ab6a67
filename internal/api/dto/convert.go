package dto

import (
	"office-locator-service/internal/domain"
	"office-locator-service/internal/services"
)

func Coordinate(c domain.Coordinate) CoordinateResponse {
	return CoordinateResponse{Lon: c.Lon, Lat: c.Lat}
}

func Reference(ref *domain.ReferenceLocation) *ReferenceResponse {
	if ref == nil {
		return nil
	}
	return &ReferenceResponse{
		Coordinate: Coordinate(ref.Coordinate),
		Source:     string(ref.Source),
		RawInput:   ref.RawInput,
		ResolvedAt: ref.ResolvedAt,
	}
}

// Snapshot converts an engine snapshot, keeping at most limit offices
// (limit <= 0 keeps all).
func Snapshot(s services.Snapshot, limit int) SnapshotResponse {
	offices := s.Result.Offices
	if limit > 0 && limit < len(offices) {
		offices = offices[:limit]
	}

	res := SnapshotResponse{
		Version:     s.Version,
		Unit:        s.Result.Unit,
		OfficeCount: s.OfficeCount,
		Reference:   Reference(s.Reference),
		Offices:     make([]RankedOfficeResponse, 0, len(offices)),
	}
	for _, o := range offices {
		res.Offices = append(res.Offices, RankedOfficeResponse{
			ID:         o.ID,
			Name:       o.Name,
			Coordinate: Coordinate(o.Coordinate),
			URL:        o.URL,
			Distance:   o.Distance,
			Metadata:   o.Metadata,
		})
	}
	return res
}

func Focus(f services.Focus) FocusResponse {
	return FocusResponse{Center: Coordinate(f.Center), Zoom: f.Zoom}
}

func Diagnostics(diags []services.RowDiagnostic) []DiagnosticResponse {
	out := make([]DiagnosticResponse, 0, len(diags))
	for _, d := range diags {
		out = append(out, DiagnosticResponse{
			Line:      d.Line,
			Field:     d.Field,
			Value:     d.Value,
			Reason:    d.Reason,
			Defaulted: d.Defaulted,
			Excluded:  d.Excluded,
		})
	}
	return out
}
