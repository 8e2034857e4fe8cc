package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/arch-mania/takanekaitori-prod/internal/constants"
	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
)

// LockStartLabel is the first detail row hidden until the visitor unlocks the listing.
const LockStartLabel = "礼金/権利金"

// NormalizeDetails builds the full detail view of a property entry. When unlocked is false
// every row from LockStartLabel onward is withheld.
func NormalizeDetails(e *domain.Entry, now time.Time, unlocked bool) domain.PropertyDetails {
	p := NormalizeProperty(e, now)

	d := domain.PropertyDetails{
		Property:            p,
		Images:              detailImages(e),
		InteriorTransferFee: orDash(e.String("interiorTransferFee")),
		Notes:               orDash(e.String("notes")),
		AssignedAgent:       e.String("assignedAgent"),
		FormattedFloors:     FormatFloors(p.Floors),
		IsDetailUnlocked:    unlocked,
	}
	if plan := e.Asset("floorPlan"); plan != nil {
		d.FloorPlanImage = plan.URL
	}

	d.Details = []domain.DetailItem{
		{Label: "所在地", Value: orDash(p.Address)},
		{Label: "最寄り駅", Value: stationLine(p.StationName1, p.WalkingTimeToStation)},
		{Label: "賃料/坪単価", Value: fmt.Sprintf("%s万円 / %s万円", FormatNumber(float64(p.Rent)), FormatNumber(p.PricePerTsubo))},
		{Label: "面積㎡/坪", Value: fmt.Sprintf("%s㎡ / %s坪", FormatNumber(p.FloorArea), FormatNumber(p.FloorAreaTsubo))},
		{Label: LockStartLabel, Value: orDash(e.String("nonRefundableDeposit"))},
		{Label: "保証金/敷金", Value: p.SecurityDeposit},
		{Label: "所在階", Value: d.FormattedFloors},
		{Label: "造作譲渡料/前テナント", Value: d.InteriorTransferFee},
		{Label: "出店可能な飲食店の種類", Value: joinOrDash(p.AllowedRestaurantTypes)},
		{Label: "おすすめ業態", Value: joinOrDash(p.CuisineTypes)},
		{Label: "備考", Value: d.Notes},
	}
	if !unlocked {
		d = WithholdLocked(d)
	}
	return d
}

// WithholdLocked blanks every value that is shown from LockStartLabel onward, both the detail
// rows and the top-level fields mirroring them.
func WithholdLocked(d domain.PropertyDetails) domain.PropertyDetails {
	d.IsDetailUnlocked = false
	d.Details = LockDetails(d.Details)
	d.SecurityDeposit = ""
	d.Floors = []string{}
	d.FormattedFloors = ""
	d.InteriorTransferFee = ""
	d.AllowedRestaurantTypes = []string{}
	d.CuisineTypes = []string{}
	d.Notes = ""
	return d
}

// LockDetails blanks the rows from LockStartLabel to the end. Rows are copied.
func LockDetails(rows []domain.DetailItem) []domain.DetailItem {
	out := make([]domain.DetailItem, len(rows))
	locking := false
	for i, row := range rows {
		if row.Label == LockStartLabel {
			locking = true
		}
		if locking {
			row = domain.DetailItem{Label: row.Label, Locked: true}
		}
		out[i] = row
	}
	return out
}

// FormatFloors renders floor codes for display: "B1" becomes 地下1階, "2" becomes 2階.
func FormatFloors(floors []string) string {
	if len(floors) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(floors))
	for _, f := range floors {
		if rest, ok := strings.CutPrefix(f, "B"); ok {
			parts = append(parts, "地下"+rest+"階")
			continue
		}
		parts = append(parts, f+"階")
	}
	return strings.Join(parts, "、")
}

// IsExpired reports whether an explicit registration date lies before the retention cutoff.
// Entries without a registration date never expire.
func IsExpired(e *domain.Entry, now time.Time) bool {
	registered, ok := e.Time("registrationDate")
	return ok && registered.Before(RetentionCutoff(now))
}

func detailImages(e *domain.Entry) []string {
	images := []string{}
	for _, a := range e.Assets("exteriorImages") {
		if a.URL != "" {
			images = append(images, a.URL)
		}
	}
	if len(images) == 0 {
		images = append(images, constants.DefaultPropertyImage)
	}
	if plan := e.Asset("floorPlan"); plan != nil && plan.URL != "" {
		images = append(images, plan.URL)
	}
	return images
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, "・")
}
