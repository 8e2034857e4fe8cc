package search

import (
	"testing"
	"time"

	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestSort_RentAscendingTieBreaksByCreation(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	older := domain.Property{ID: "older", Rent: 30, CreatedAt: base}
	newer := domain.Property{ID: "newer", Rent: 30, CreatedAt: base.Add(time.Hour)}
	cheap := domain.Property{ID: "cheap", Rent: 10, CreatedAt: base}

	for i := 0; i < 10; i++ {
		ps := []domain.Property{older, cheap, newer}
		Sort(ps, domain.SortRentAscending)
		assert.Equal(t, []string{"cheap", "newer", "older"}, ids(ps))
	}
}

func TestSort_AreaDescending(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ps := []domain.Property{
		{ID: "small", FloorAreaTsubo: 10, CreatedAt: base},
		{ID: "large", FloorAreaTsubo: 40, CreatedAt: base},
		{ID: "mid-old", FloorAreaTsubo: 20, CreatedAt: base},
		{ID: "mid-new", FloorAreaTsubo: 20, CreatedAt: base.Add(time.Minute)},
	}
	Sort(ps, domain.SortAreaDescending)
	assert.Equal(t, []string{"large", "mid-new", "mid-old", "small"}, ids(ps))
}

func TestSort_NewestUsesRegistrationDate(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ps := []domain.Property{
		{ID: "registered-early", RegistrationDate: base, CreatedAt: base.Add(48 * time.Hour)},
		{ID: "registered-late", RegistrationDate: base.Add(24 * time.Hour), CreatedAt: base},
		{ID: "same-reg-newer", RegistrationDate: base, CreatedAt: base.Add(72 * time.Hour)},
	}
	Sort(ps, domain.SortNewest)
	assert.Equal(t, []string{"registered-late", "same-reg-newer", "registered-early"}, ids(ps))
}

func TestSort_StableForEqualKeys(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ps := []domain.Property{
		{ID: "a", Rent: 10, CreatedAt: ts},
		{ID: "b", Rent: 10, CreatedAt: ts},
		{ID: "c", Rent: 10, CreatedAt: ts},
	}
	Sort(ps, domain.SortRentAscending)
	assert.Equal(t, []string{"a", "b", "c"}, ids(ps))
}

func TestCompare_Antisymmetric(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := domain.Property{Rent: 10, CreatedAt: ts}
	b := domain.Property{Rent: 20, CreatedAt: ts}
	for _, s := range []domain.SortOption{domain.SortNewest, domain.SortRentAscending, domain.SortAreaDescending} {
		assert.Equal(t, -Compare(b, a, s), Compare(a, b, s), string(s))
	}
}

func TestCMSOrder(t *testing.T) {
	assert.Equal(t, []string{"fields.rent", "-sys.createdAt"}, CMSOrder(domain.SortRentAscending))
	assert.Equal(t, []string{"-fields.floorAreaTsubo", "-sys.createdAt"}, CMSOrder(domain.SortAreaDescending))
	assert.Equal(t, []string{"-fields.registrationDate", "-sys.createdAt"}, CMSOrder("bogus"))
}
