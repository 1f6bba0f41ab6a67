package services

import (
	"math"
	"math/rand"
	"office-locator-service/internal/domain"
	"reflect"
	"testing"
)

func office(name string, lon, lat float64, pos int) domain.OfficeRecord {
	return domain.OfficeRecord{
		ID:         name,
		Name:       name,
		Coordinate: domain.Coordinate{Lon: lon, Lat: lat},
		URL:        "#",
		Position:   pos,
	}
}

func TestRankExample(t *testing.T) {
	offices := []domain.OfficeRecord{
		office("B", 0, 1, 0),
		office("A", 0, 0, 1),
	}
	ref := domain.ReferenceLocation{Coordinate: domain.Coordinate{Lon: 0, Lat: 0}}

	res := Rank(offices, ref, Unit{Name: "km", Radius: 6371})

	if len(res.Offices) != 2 {
		t.Fatalf("expected 2 ranked offices, got %d", len(res.Offices))
	}
	if res.Offices[0].Name != "A" || res.Offices[1].Name != "B" {
		t.Fatalf("order = [%s %s], want [A B]", res.Offices[0].Name, res.Offices[1].Name)
	}
	if res.Offices[0].Distance != 0 {
		t.Fatalf("A.distance = %v, want 0", res.Offices[0].Distance)
	}
	if math.Abs(res.Offices[1].Distance-111.2) > 0.05 {
		t.Fatalf("B.distance = %v, want ~111.2", res.Offices[1].Distance)
	}
	if res.Unit != "km" {
		t.Fatalf("unit = %q, want km", res.Unit)
	}
}

func TestRankTieBreakByLoadOrder(t *testing.T) {
	// All four offices are exactly 1 degree from the origin along the equator/meridian.
	offices := []domain.OfficeRecord{
		office("east", 1, 0, 0),
		office("north", 0, 1, 1),
		office("west", -1, 0, 2),
		office("south", 0, -1, 3),
		office("here", 0, 0, 4),
	}
	ref := domain.ReferenceLocation{}

	res := Rank(offices, ref, Kilometers)

	got := names(res)
	want := []string{"here", "east", "north", "west", "south"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestRankSortedAndDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		offices := make([]domain.OfficeRecord, 0, 40)
		for i := 0; i < 40; i++ {
			// Coarse grid produces plenty of equal distances.
			lon := float64(rng.Intn(9) - 4)
			lat := float64(rng.Intn(9) - 4)
			offices = append(offices, office(string(rune('a'+i%26))+string(rune('0'+i/26)), lon, lat, i))
		}
		ref := domain.ReferenceLocation{Coordinate: domain.Coordinate{
			Lon: float64(rng.Intn(5) - 2),
			Lat: float64(rng.Intn(5) - 2),
		}}

		first := Rank(offices, ref, Miles)
		second := Rank(offices, ref, Miles)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("trial %d: rank is not deterministic", trial)
		}

		for i := 1; i < len(first.Offices); i++ {
			prev, cur := first.Offices[i-1], first.Offices[i]
			if prev.Distance > cur.Distance {
				t.Fatalf("trial %d: not sorted at %d: %v > %v", trial, i, prev.Distance, cur.Distance)
			}
			if prev.Distance == cur.Distance && prev.Position > cur.Position {
				t.Fatalf("trial %d: tie at %d not in load order", trial, i)
			}
		}
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	offices := []domain.OfficeRecord{office("far", 50, 50, 0), office("near", 0, 0, 1)}
	Rank(offices, domain.ReferenceLocation{}, Kilometers)

	if offices[0].Name != "far" || offices[1].Name != "near" {
		t.Fatal("Rank reordered its input slice")
	}
}

func TestRankEmpty(t *testing.T) {
	res := Rank(nil, domain.ReferenceLocation{}, Kilometers)
	if res.Offices == nil || len(res.Offices) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", res.Offices)
	}
}

func names(res domain.RankedResult) []string {
	out := make([]string, 0, len(res.Offices))
	for _, o := range res.Offices {
		out = append(out, o.Name)
	}
	return out
}
