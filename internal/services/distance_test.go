package services

import (
	"math"
	"office-locator-service/internal/domain"
	"testing"

	"github.com/jftuga/geodist"
)

var sampleCoords = []domain.Coordinate{
	{Lon: 0, Lat: 0},
	{Lon: 0, Lat: 1},
	{Lon: -73.935242, Lat: 40.73061},
	{Lon: -118.243683, Lat: 34.052235},
	{Lon: -87.623177, Lat: 41.881832},
	{Lon: 151.2093, Lat: -33.8688},
	{Lon: 180, Lat: 90},
	{Lon: -180, Lat: -90},
}

func TestDistanceIdentity(t *testing.T) {
	for _, c := range sampleCoords {
		if d := Distance(c, c, Kilometers.Radius); d != 0 {
			t.Errorf("Distance(%v, %v) = %v, want 0", c, c, d)
		}
	}
}

func TestDistanceSymmetry(t *testing.T) {
	for _, a := range sampleCoords {
		for _, b := range sampleCoords {
			ab := Distance(a, b, Miles.Radius)
			ba := Distance(b, a, Miles.Radius)
			if math.Abs(ab-ba) > 1e-9 {
				t.Errorf("Distance(%v,%v)=%v but Distance(%v,%v)=%v", a, b, ab, b, a, ba)
			}
		}
	}
}

func TestDistanceAntipodal(t *testing.T) {
	pairs := [][2]domain.Coordinate{
		{{Lon: 0, Lat: 0}, {Lon: 180, Lat: 0}},
		{{Lon: 10, Lat: 45}, {Lon: -170, Lat: -45}},
		{{Lon: 0, Lat: 90}, {Lon: 0, Lat: -90}},
	}
	for _, p := range pairs {
		for _, u := range []Unit{Kilometers, Miles} {
			got := Distance(p[0], p[1], u.Radius)
			want := math.Pi * u.Radius
			if math.IsNaN(got) || math.Abs(got-want) > want*1e-6 {
				t.Errorf("Distance(%v,%v,%s) = %v, want %v", p[0], p[1], u.Name, got, want)
			}
		}
	}
}

func TestDistanceOneDegreeOfLatitude(t *testing.T) {
	got := Distance(domain.Coordinate{Lon: 0, Lat: 0}, domain.Coordinate{Lon: 0, Lat: 1}, 6371)
	if math.Abs(got-111.19) > 0.01 {
		t.Fatalf("distance = %v, want ~111.19 km", got)
	}
}

func TestDistanceAgreesWithVincenty(t *testing.T) {
	ny := domain.Coordinate{Lon: -73.935242, Lat: 40.73061}
	la := domain.Coordinate{Lon: -118.243683, Lat: 34.052235}

	_, km, err := geodist.VincentyDistance(
		geodist.Coord{Lat: ny.Lat, Lon: ny.Lon},
		geodist.Coord{Lat: la.Lat, Lon: la.Lon},
	)
	if err != nil {
		t.Fatalf("vincenty: %v", err)
	}

	got := Distance(ny, la, Kilometers.Radius)
	// The sphere and the ellipsoid disagree by well under 1%.
	if math.Abs(got-km)/km > 0.01 {
		t.Fatalf("haversine = %.2f km, vincenty = %.2f km", got, km)
	}
}

func TestParseUnit(t *testing.T) {
	for in, want := range map[string]Unit{"km": Kilometers, " Miles ": Miles, "mi": Miles} {
		got, err := ParseUnit(in)
		if err != nil || got != want {
			t.Errorf("ParseUnit(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseUnit("furlongs"); err == nil {
		t.Error("ParseUnit(furlongs) should fail")
	}
}
