package search

import (
	"fmt"
	"time"

	"github.com/arch-mania/takanekaitori-prod/internal/constants"
	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormerBusinessLabel marks the detail row scanned by the keyword filter.
const FormerBusinessLabel = "前業態"

var jaPrinter = message.NewPrinter(language.Japanese)

// FormatNumber renders a value with digit grouping, e.g. 1,234.5.
func FormatNumber(v float64) string {
	return jaPrinter.Sprint(number.Decimal(v))
}

// NormalizeProperty maps a CMS property entry to the canonical listing.
// It never fails: missing scalars become zero values and broken links are dropped.
func NormalizeProperty(e *domain.Entry, now time.Time) domain.Property {
	if e == nil {
		e = &domain.Entry{}
	}

	p := domain.Property{
		ID:                     e.Sys.ID,
		PropertyID:             e.String("propertyId"),
		Title:                  e.String("title"),
		Address:                e.String("address"),
		StationName1:           e.String("stationName1"),
		Rent:                   e.Int("rent"),
		PricePerTsubo:          e.Float("pricePerTsubo"),
		FloorArea:              e.Float("floorArea"),
		FloorAreaTsubo:         e.Float("floorAreaTsubo"),
		WalkingTimeToStation:   e.Int("walkingTimeToStation"),
		IsNew:                  IsNewEntry(e, now),
		IsSkeleton:             e.Bool("isSkeleton"),
		IsInteriorIncluded:     e.Bool("isInteriorIncluded"),
		IsWatermarkEnabled:     e.Bool("isWatermarkEnabled"),
		Floors:                 e.Strings("floors"),
		Regions:                e.LinkedNames("regions"),
		CuisineTypes:           e.LinkedNames("cuisineType"),
		AllowedRestaurantTypes: e.LinkedNames("allowedRestaurantTypes"),
		ExteriorImage:          constants.DefaultPropertyImage,
		SecurityDeposit:        orDash(e.String("securityDeposit")),
		RegistrationDate:       RegistrationDate(e),
		CreatedAt:              e.Sys.CreatedAt,
	}
	if p.WalkingTimeToStation < 0 {
		p.WalkingTimeToStation = 0
	}
	if images := e.Assets("exteriorImages"); len(images) > 0 && images[0].URL != "" {
		p.ExteriorImage = images[0].URL
	}

	p.Details = []domain.DetailItem{
		{Label: "最寄り駅", Value: stationLine(p.StationName1, p.WalkingTimeToStation)},
		{Label: "賃料/坪単価", Value: fmt.Sprintf("%s万円 / %s万円", FormatNumber(float64(p.Rent)), FormatNumber(p.PricePerTsubo))},
		{Label: "面積", Value: fmt.Sprintf("%s㎡ / %s坪", FormatNumber(p.FloorArea), FormatNumber(p.FloorAreaTsubo))},
		{Label: "所在地", Value: orDash(p.Address)},
		{Label: "希望譲渡額\n/" + FormerBusinessLabel, Value: orDash(e.String("interiorTransferFee"))},
	}

	return p
}

// NormalizeAll normalizes a batch with a single "now".
func NormalizeAll(entries []*domain.Entry, now time.Time) []domain.Property {
	out := make([]domain.Property, 0, len(entries))
	for _, e := range entries {
		if e == nil {
			continue
		}
		out = append(out, NormalizeProperty(e, now))
	}
	return out
}

func stationLine(station string, walking int) string {
	if station == "" {
		station = "-"
	}
	if walking > 0 {
		return fmt.Sprintf("%s 徒歩%d分", station, walking)
	}
	return station
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
