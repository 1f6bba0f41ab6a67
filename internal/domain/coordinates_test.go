package domain

import (
	"errors"
	"testing"
)

func TestCoordinateValidate(t *testing.T) {
	valid := []Coordinate{
		{Lon: 0, Lat: 0},
		{Lon: -180, Lat: -90},
		{Lon: 180, Lat: 90},
		{Lon: -73.935242, Lat: 40.73061},
	}
	for _, c := range valid {
		if err := c.Validate(); err != nil {
			t.Errorf("Validate(%v) = %v, want nil", c, err)
		}
	}

	invalid := []Coordinate{
		{Lon: 180.0001, Lat: 0},
		{Lon: -181, Lat: 0},
		{Lon: 0, Lat: 90.5},
		{Lon: 0, Lat: -91},
	}
	for _, c := range invalid {
		err := c.Validate()
		if !errors.Is(err, ErrInvalidCoordinate) {
			t.Errorf("Validate(%v) = %v, want ErrInvalidCoordinate", c, err)
		}
	}
}

func TestRankedResultFind(t *testing.T) {
	res := RankedResult{
		Unit: "km",
		Offices: []RankedOffice{
			{OfficeRecord: OfficeRecord{ID: "a", Name: "A"}, Distance: 1},
			{OfficeRecord: OfficeRecord{ID: "b", Name: "B"}, Distance: 2},
		},
	}

	o, ok := res.Find("b")
	if !ok || o.Name != "B" {
		t.Fatalf("Find(b) = %v, %v", o, ok)
	}
	if _, ok := res.Find("missing"); ok {
		t.Fatal("Find(missing) should not find anything")
	}
}
