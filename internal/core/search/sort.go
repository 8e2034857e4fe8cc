package search

import (
	"cmp"
	"slices"

	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
)

// Compare orders two properties for the given sort option.
// Ties are broken by creation time, most recent first.
func Compare(a, b domain.Property, sort domain.SortOption) int {
	var c int
	switch sort {
	case domain.SortRentAscending:
		c = cmp.Compare(a.Rent, b.Rent)
	case domain.SortAreaDescending:
		c = cmp.Compare(b.FloorAreaTsubo, a.FloorAreaTsubo)
	default:
		c = b.RegistrationDate.Compare(a.RegistrationDate)
	}
	if c != 0 {
		return c
	}
	return b.CreatedAt.Compare(a.CreatedAt)
}

// Sort orders properties in place; equal elements keep their input order.
func Sort(properties []domain.Property, sort domain.SortOption) {
	slices.SortStableFunc(properties, func(a, b domain.Property) int {
		return Compare(a, b, sort)
	})
}

// CMSOrder is the equivalent server-side order for pushed-down queries.
func CMSOrder(sort domain.SortOption) []string {
	switch sort {
	case domain.SortRentAscending:
		return []string{"fields.rent", "-sys.createdAt"}
	case domain.SortAreaDescending:
		return []string{"-fields.floorAreaTsubo", "-sys.createdAt"}
	default:
		return []string{"-fields.registrationDate", "-sys.createdAt"}
	}
}
