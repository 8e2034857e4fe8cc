package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountProperties(t *testing.T) {
	f := newFakeContent()
	shibuya, _ := seedArea(f)
	for i := 0; i < 7; i++ {
		fields := map[string]any{"registrationDate": testNow.AddDate(0, 0, -10).Format(time.RFC3339)}
		switch {
		case i < 2:
			fields["registrationDate"] = testNow.Add(-time.Hour).Format(time.RFC3339)
		case i == 2:
			fields["isNew"] = true
		}
		f.add("property", propertyEntry(fmt.Sprintf("p%d", i), shibuya, fields))
	}

	counts, err := NewCountPropertiesUseCase(f, fixedClock{testNow}).Execute(context.Background(), "tokyo")
	require.NoError(t, err)

	assert.Equal(t, 7, counts.TotalCount)
	assert.Equal(t, 3, counts.NewCount)

	var sawTotalQuery bool
	for _, q := range f.queriesFor("property") {
		v := q.Values()
		if v.Get("limit") == "1" {
			sawTotalQuery = true
			assert.Equal(t, "sys.id", v.Get("select"))
		}
		assert.NotEmpty(t, v.Get("fields.registrationDate[gte]"))
	}
	assert.True(t, sawTotalQuery)
}

func TestCountProperties_AreaWithoutRegions(t *testing.T) {
	f := newFakeContent()
	f.add("area", entry("area-2", map[string]any{"slug": "empty"}))

	counts, err := NewCountPropertiesUseCase(f, fixedClock{testNow}).Execute(context.Background(), "empty")
	require.NoError(t, err)
	assert.Equal(t, domain.PropertyCounts{}, *counts)
	assert.Empty(t, f.queriesFor("property"))
}

func TestGetAreaOverview(t *testing.T) {
	f := newFakeContent()
	shibuya, _ := seedArea(f)
	f.add("region",
		named("r-unordered", "目黒区", nil),
		named("r3", "新宿区", map[string]any{"order": float64(3)}),
		named("r4", "中野区", map[string]any{"order": float64(4)}),
		named("r5", "品川区", map[string]any{"order": float64(5)}),
		named("r6", "世田谷区", map[string]any{"order": float64(6)}),
	)
	f.add("property",
		propertyEntry("p1", shibuya, map[string]any{"pickupOrder": float64(1)}),
		propertyEntry("p2", shibuya, map[string]any{"isNew": true}),
	)

	o, err := NewGetAreaOverviewUseCase(f, fixedClock{testNow}).Execute(context.Background(), "tokyo")
	require.NoError(t, err)

	assert.Equal(t, "東京", o.AreaName)
	assert.Equal(t, "駅名・エリア", o.Placeholder)
	assert.Equal(t, "tokyo", o.AreaSlug)

	names := []string{}
	for _, r := range o.SearchRegions {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"港区", "渋谷区", "新宿区", "中野区", "品川区"}, names)

	assert.Len(t, o.Latest, 2)
	assert.Len(t, o.Featured, 2)
	assert.Equal(t, []domain.TaxonomyItem{{ID: "c-cafe", Name: "カフェ", Order: 1}, {ID: "c-bar", Name: "バー", Order: 2}}, o.CuisineTypes)
	assert.Equal(t, 2, o.TotalCount)
	assert.Equal(t, 1, o.NewCount)

	var featured, latest bool
	for _, q := range f.queriesFor("property") {
		v := q.Values()
		if v.Get("fields.pickupOrder[exists]") == "true" {
			featured = true
			assert.Equal(t, "fields.pickupOrder", v.Get("order"))
		}
		if v.Get("order") == "-sys.createdAt" {
			latest = true
			assert.Equal(t, "12", v.Get("limit"))
		}
	}
	assert.True(t, featured)
	assert.True(t, latest)
}

func TestGetAreaOverview_UnknownArea(t *testing.T) {
	f := newFakeContent()
	_, err := NewGetAreaOverviewUseCase(f, fixedClock{testNow}).Execute(context.Background(), "nowhere")
	assert.ErrorIs(t, err, domain.ErrAreaNotFound)
}

func TestGetSearchOptions(t *testing.T) {
	f := newFakeContent()
	seedArea(f)

	opts, err := NewGetSearchOptionsUseCase(f).Execute(context.Background(), "tokyo")
	require.NoError(t, err)

	assert.Equal(t, "東京", opts.AreaName)
	require.Len(t, opts.Regions, 2)
	assert.Equal(t, "渋谷区", opts.Regions[0].Name)
	assert.Equal(t, 1, opts.Regions[0].Order)
	assert.Len(t, opts.CuisineTypes, 2)
	assert.Len(t, opts.RestaurantTypes, 1)

	regionQueries := f.queriesFor("region")
	require.Len(t, regionQueries, 1)
	v := regionQueries[0].Values()
	assert.Equal(t, "area-1", v.Get("fields.area.sys.id"))
	assert.Equal(t, "fields.areaSearchOrder", v.Get("order"))
}

func TestGetPropertyDetails(t *testing.T) {
	f := newFakeContent()
	shibuya, _ := seedArea(f)
	f.add("property",
		propertyEntry("fresh", shibuya, map[string]any{"nonRefundableDeposit": "1ヶ月", "floors": []any{"B1"}}),
		propertyEntry("expired", shibuya, map[string]any{"registrationDate": "2010-01-01"}),
	)
	uc := NewGetPropertyDetailsUseCase(f, fixedClock{testNow})

	locked, err := uc.Execute(context.Background(), "fresh", []string{"other"})
	require.NoError(t, err)
	assert.False(t, locked.IsDetailUnlocked)
	assert.Equal(t, "地下1階", locked.FormattedFloors)
	for _, row := range locked.Details[4:] {
		assert.True(t, row.Locked)
		assert.Empty(t, row.Value)
	}

	unlocked, err := uc.Execute(context.Background(), "fresh", []string{"other", "fresh"})
	require.NoError(t, err)
	assert.True(t, unlocked.IsDetailUnlocked)
	deposit, _ := unlocked.DetailValue("礼金/権利金")
	assert.Equal(t, "1ヶ月", deposit)

	_, err = uc.Execute(context.Background(), "expired", nil)
	assert.ErrorIs(t, err, domain.ErrPropertyNotFound)

	_, err = uc.Execute(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, domain.ErrPropertyNotFound)

	_, err = uc.Execute(context.Background(), "r-shibuya", nil)
	assert.ErrorIs(t, err, domain.ErrPropertyNotFound, "non-property entries are not listings")

	f.failOn = "entry"
	_, err = uc.Execute(context.Background(), "fresh", nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrPropertyNotFound)
}
