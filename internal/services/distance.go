package services

import (
	"fmt"
	"math"
	"office-locator-service/internal/domain"
	"strings"
)

// Unit is a distance unit expressed as the sphere radius in that unit.
type Unit struct {
	Name   string
	Radius float64
}

var (
	Kilometers = Unit{Name: "km", Radius: 6371}
	Miles      = Unit{Name: "mi", Radius: 3959}
)

// ParseUnit maps a unit name (km, mi and their long forms) to a Unit.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "km", "kilometer", "kilometers", "kilometre", "kilometres":
		return Kilometers, nil
	case "mi", "mile", "miles":
		return Miles, nil
	}
	return Unit{}, fmt.Errorf("parse unit: unsupported distance unit %q", s)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Distance returns the great-circle distance between a and b on a sphere
// of the given radius, using the haversine formula. The result is in the
// unit of radius.
func Distance(a, b domain.Coordinate, radius float64) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)

	dLat := lat2 - lat1
	dLon := toRadians(b.Lon) - toRadians(a.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	// Rounding can push h slightly outside [0, 1] for near-antipodal points.
	h = math.Min(1, math.Max(0, h))

	return 2 * radius * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
