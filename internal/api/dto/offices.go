package dto

import "time"

type CoordinateResponse struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

type ReferenceResponse struct {
	Coordinate CoordinateResponse `json:"coordinate"`
	Source     string             `json:"source"`
	RawInput   string             `json:"raw_input,omitempty"`
	ResolvedAt time.Time          `json:"resolved_at"`
}

type RankedOfficeResponse struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Coordinate CoordinateResponse `json:"coordinate"`
	URL        string             `json:"url"`
	Distance   float64            `json:"distance"`
	Metadata   map[string]string  `json:"metadata,omitempty"`
}

type SnapshotResponse struct {
	Version     uint64                 `json:"version"`
	Unit        string                 `json:"unit"`
	OfficeCount int                    `json:"office_count"`
	Reference   *ReferenceResponse     `json:"reference"`
	Offices     []RankedOfficeResponse `json:"offices"`
}

type DiagnosticResponse struct {
	Line      int    `json:"line"`
	Field     string `json:"field"`
	Value     string `json:"value"`
	Reason    string `json:"reason"`
	Defaulted bool   `json:"defaulted"`
	Excluded  bool   `json:"excluded"`
}

type ReloadResponse struct {
	OfficeCount int                  `json:"office_count"`
	Diagnostics []DiagnosticResponse `json:"diagnostics"`
	Snapshot    SnapshotResponse     `json:"snapshot"`
}

type FocusResponse struct {
	Center CoordinateResponse `json:"center"`
	Zoom   int                `json:"zoom"`
	Error  string             `json:"error,omitempty"`
}
