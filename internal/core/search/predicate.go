package search

import (
	"slices"
	"strconv"
	"strings"

	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
)

// Matches reports whether a property passes every filter group.
// Groups are ANDed; the values selected inside a group are ORed.
// Regions and cuisine types are independent groups.
func Matches(p domain.Property, f domain.FilterState) bool {
	return inRange(float64(p.Rent), f.MinRent, f.MaxRent) &&
		inRange(p.FloorAreaTsubo, f.MinArea, f.MaxArea) &&
		matchesStatus(p, f) &&
		matchesAny(p.Regions, f.Regions) &&
		matchesAny(p.CuisineTypes, f.CuisineTypes) &&
		matchesAny(p.AllowedRestaurantTypes, f.AllowedRestaurantTypes) &&
		MatchesFloors(p.Floors, f.Floors) &&
		MatchesKeyword(p, f.Keyword) &&
		matchesWalkingTime(p.WalkingTimeToStation, f.WalkingTime)
}

// Filter keeps the matching properties in input order.
func Filter(properties []domain.Property, f domain.FilterState) []domain.Property {
	out := make([]domain.Property, 0, len(properties))
	for _, p := range properties {
		if Matches(p, f) {
			out = append(out, p)
		}
	}
	return out
}

func inRange(v float64, minBound, maxBound string) bool {
	if lo, ok := domain.Bound(minBound); ok && v < float64(lo) {
		return false
	}
	if hi, ok := domain.Bound(maxBound); ok && v > float64(hi) {
		return false
	}
	return true
}

func matchesStatus(p domain.Property, f domain.FilterState) bool {
	if f.StatusCount() == 0 {
		return true
	}
	return (f.IsNew && p.IsNew) ||
		(f.IsSkeleton && p.IsSkeleton) ||
		(f.IsInteriorIncluded && p.IsInteriorIncluded)
}

// matchesAny is satisfied by an empty selection.
func matchesAny(have, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if slices.Contains(have, s) {
			return true
		}
	}
	return false
}

// MatchesFloors evaluates the floor checkboxes against floor tokens like "1", "B1".
func MatchesFloors(floors []string, sel domain.FloorSelection) bool {
	if !sel.Any() {
		return true
	}
	hasFirst := slices.Contains(floors, "1")
	multi := len(floors) > 1

	switch {
	case sel.Basement && slices.ContainsFunc(floors, isBasement):
		return true
	case sel.First && hasFirst:
		return true
	case sel.Second && slices.Contains(floors, "2"):
		return true
	case sel.ThirdAndAbove && slices.ContainsFunc(floors, isThirdOrAbove):
		return true
	case sel.MultiFloorWithFirst && hasFirst && multi:
		return true
	case sel.MultiFloorWithoutFirst && !hasFirst && multi:
		return true
	}
	return false
}

func isBasement(floor string) bool {
	return strings.HasPrefix(floor, "B")
}

func isThirdOrAbove(floor string) bool {
	n, err := strconv.Atoi(leadingDigits(floor))
	return err == nil && n >= 3
}

// leadingDigits mirrors lenient integer parsing: "3F" reads as 3.
func leadingDigits(s string) string {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}

func matchesWalkingTime(minutes int, w domain.WalkingTime) bool {
	ceiling, ok := w.Ceiling()
	if !ok {
		return true
	}
	if minutes <= 0 {
		return false
	}
	return minutes <= ceiling
}
