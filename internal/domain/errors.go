package domain

import "errors"

var (
	// ErrDatasetUnavailable is returned when the raw office dataset cannot be fetched or read.
	ErrDatasetUnavailable = errors.New("office dataset unavailable")
	// ErrLocationUnavailable is returned when device geolocation is denied or unsupported.
	ErrLocationUnavailable = errors.New("device location unavailable")
	// ErrNoMatchFound is returned when a lookup query matched no candidate.
	ErrNoMatchFound = errors.New("no match found")
	// ErrLookupFailed is returned on network, service or decode failures during a lookup.
	ErrLookupFailed = errors.New("location lookup failed")
	// ErrUnknownOffice is returned when an office id is absent from the current ranking.
	ErrUnknownOffice = errors.New("unknown office")
	// ErrNoReference is returned when an operation needs a reference location and none was resolved yet.
	ErrNoReference = errors.New("no reference location")
	// ErrInvalidCoordinate is returned for coordinates outside the valid lon/lat ranges.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)
