package search

import (
	"testing"
	"time"

	"github.com/arch-mania/takanekaitori-prod/internal/constants"
	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func detailEntry() *domain.Entry {
	return &domain.Entry{
		Sys: domain.EntrySys{ID: "prop-1", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		Fields: map[string]any{
			"title":                "恵比寿 路面店",
			"address":              "東京都渋谷区恵比寿1-1",
			"stationName1":         "恵比寿駅",
			"walkingTimeToStation": float64(2),
			"rent":                 float64(45),
			"floors":               []any{"B1", "1"},
			"nonRefundableDeposit": "2ヶ月",
			"securityDeposit":      "10ヶ月",
			"interiorTransferFee":  "500万円",
			"notes":                "深夜営業可",
			"assignedAgent":        "山田",
			"cuisineType":          []any{named("c1", "バー"), named("c2", "カフェ")},
			"floorPlan":            &domain.Asset{URL: "https://images.example/plan.png"},
		},
	}
}

func TestNormalizeDetails_Unlocked(t *testing.T) {
	d := NormalizeDetails(detailEntry(), time.Now(), true)

	assert.True(t, d.IsDetailUnlocked)
	assert.Equal(t, "地下1階、1階", d.FormattedFloors)
	assert.Equal(t, []string{constants.DefaultPropertyImage, "https://images.example/plan.png"}, d.Images)
	assert.Equal(t, "https://images.example/plan.png", d.FloorPlanImage)
	assert.Equal(t, "山田", d.AssignedAgent)

	require.Len(t, d.Details, 11)
	for _, row := range d.Details {
		assert.False(t, row.Locked, row.Label)
	}
	deposit, _ := d.DetailValue(LockStartLabel)
	assert.Equal(t, "2ヶ月", deposit)
	cuisine, _ := d.DetailValue("おすすめ業態")
	assert.Equal(t, "バー・カフェ", cuisine)
	restaurant, _ := d.DetailValue("出店可能な飲食店の種類")
	assert.Equal(t, "-", restaurant)
}

func TestNormalizeDetails_LockedRowsAreWithheld(t *testing.T) {
	d := NormalizeDetails(detailEntry(), time.Now(), false)

	require.Len(t, d.Details, 11)
	assert.False(t, d.Details[3].Locked)
	assert.NotEmpty(t, d.Details[3].Value)
	for _, row := range d.Details[4:] {
		assert.True(t, row.Locked, row.Label)
		assert.Empty(t, row.Value, row.Label)
	}
	assert.Equal(t, LockStartLabel, d.Details[4].Label)

	assert.False(t, d.IsDetailUnlocked)
	assert.Empty(t, d.SecurityDeposit)
	assert.Empty(t, d.Floors)
	assert.Empty(t, d.FormattedFloors)
	assert.Empty(t, d.InteriorTransferFee)
	assert.Empty(t, d.CuisineTypes)
	assert.Empty(t, d.AllowedRestaurantTypes)
	assert.Empty(t, d.Notes)
	assert.Equal(t, "山田", d.AssignedAgent)
	assert.Equal(t, "恵比寿 路面店", d.Title)
}

func TestFormatFloors(t *testing.T) {
	assert.Equal(t, "-", FormatFloors(nil))
	assert.Equal(t, "2階", FormatFloors([]string{"2"}))
	assert.Equal(t, "地下2階、1階、2階", FormatFloors([]string{"B2", "1", "2"}))
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	old := &domain.Entry{Fields: map[string]any{"registrationDate": "2010-01-01"}}
	recent := &domain.Entry{Fields: map[string]any{"registrationDate": "2024-01-01"}}
	undated := &domain.Entry{Sys: domain.EntrySys{CreatedAt: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)}}

	assert.True(t, IsExpired(old, now))
	assert.False(t, IsExpired(recent, now))
	assert.False(t, IsExpired(undated, now))
}
