package services

import (
	"cmp"
	"office-locator-service/internal/domain"
	"slices"
)

// Rank orders offices by great-circle distance from the reference location.
//
// Rank is a pure function: the same offices and reference always produce
// the same ordering. Equal distances keep dataset load order.
func Rank(
	offices []domain.OfficeRecord,
	reference domain.ReferenceLocation,
	unit Unit,
) domain.RankedResult {
	ranked := make([]domain.RankedOffice, 0, len(offices))
	for _, o := range offices {
		ranked = append(ranked, domain.RankedOffice{
			OfficeRecord: o,
			Distance:     Distance(reference.Coordinate, o.Coordinate, unit.Radius),
		})
	}

	slices.SortStableFunc(ranked, func(a, b domain.RankedOffice) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.Position, b.Position)
	})

	return domain.RankedResult{Unit: unit.Name, Offices: ranked}
}
