package domain

import "time"

// LocationSource names how a reference location was resolved.
type LocationSource string

const (
	SourceDevice LocationSource = "device"
	SourceLookup LocationSource = "lookup"
)

// The coordinate from which distances to offices are measured.
// A new value replaces the previous one wholesale; no history is kept.
type ReferenceLocation struct {
	Coordinate Coordinate
	Source     LocationSource
	RawInput   string
	ResolvedAt time.Time
}
