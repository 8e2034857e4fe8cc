package search

import (
	"strconv"
	"time"

	"github.com/arch-mania/takanekaitori-prod/internal/constants"
	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
)

// CMS field paths used by pushed-down predicates.
const (
	FieldRegionIDs         = "fields.regions.sys.id"
	FieldCuisineTypeIDs    = "fields.cuisineType.sys.id"
	FieldRestaurantTypeIDs = "fields.allowedRestaurantTypes.sys.id"
	FieldRegistrationDate  = "fields.registrationDate"
	FieldRent              = "fields.rent"
	FieldFloorAreaTsubo    = "fields.floorAreaTsubo"
	FieldWalkingTime       = "fields.walkingTimeToStation"
	FieldIsSkeleton        = "fields.isSkeleton"
	FieldIsInteriorIncl    = "fields.isInteriorIncluded"
)

// Taxonomies are the lookups needed to translate names into CMS ids.
type Taxonomies struct {
	Regions         *Taxonomy
	CuisineTypes    *Taxonomy
	RestaurantTypes *Taxonomy
}

// Plan is the CMS query for a search and how its results must be processed.
type Plan struct {
	Query *domain.EntriesQuery
	// FullScan requires fetching every candidate and filtering in memory.
	FullScan bool
	// Empty means the result is known to be empty and no query may be issued.
	Empty bool
}

// RetentionCutoff is the oldest registration date still listed.
func RetentionCutoff(now time.Time) time.Time {
	return now.AddDate(0, 0, -constants.RetentionDays)
}

// NeedsFullScan reports whether a constraint cannot be expressed as a single CMS query:
// freshness is "flag OR recent date", several status flags form an OR, and floors and
// keywords need in-memory matching.
func NeedsFullScan(f domain.FilterState) bool {
	return f.IsNew ||
		f.StatusCount() > 1 ||
		f.Floors.Any() ||
		len(Tokenize(f.Keyword)) > 0
}

// ScopeQuery selects the listed properties of the given regions.
func ScopeQuery(regionIDs []string, cutoff time.Time) *domain.EntriesQuery {
	return domain.NewEntriesQuery(constants.ContentTypeProperty).
		In(FieldRegionIDs, regionIDs).
		Gte(FieldRegistrationDate, cutoff.UTC().Format(time.RFC3339))
}

// BuildPlan translates the filter state into a property query scoped to the area regions.
func BuildPlan(f domain.FilterState, sort domain.SortOption, tax Taxonomies, cutoff time.Time) Plan {
	regionIDs := tax.Regions.AllIDs()
	if len(f.Regions) > 0 {
		regionIDs = tax.Regions.IDs(f.Regions)
	}
	if len(regionIDs) == 0 {
		return Plan{Empty: true}
	}

	q := ScopeQuery(regionIDs, cutoff).
		WithInclude(constants.PropertyInclude).
		OrderBy(CMSOrder(sort)...)

	if len(f.CuisineTypes) > 0 {
		ids := tax.CuisineTypes.IDs(f.CuisineTypes)
		if len(ids) == 0 {
			return Plan{Empty: true}
		}
		q.In(FieldCuisineTypeIDs, ids)
	}
	if len(f.AllowedRestaurantTypes) > 0 {
		ids := tax.RestaurantTypes.IDs(f.AllowedRestaurantTypes)
		if len(ids) == 0 {
			return Plan{Empty: true}
		}
		q.In(FieldRestaurantTypeIDs, ids)
	}

	pushRange(q, FieldRent, f.MinRent, f.MaxRent)
	pushRange(q, FieldFloorAreaTsubo, f.MinArea, f.MaxArea)

	if f.StatusCount() == 1 {
		switch {
		case f.IsSkeleton:
			q.Eq(FieldIsSkeleton, "true")
		case f.IsInteriorIncluded:
			q.Eq(FieldIsInteriorIncl, "true")
		}
	}

	if ceiling, ok := f.WalkingTime.Ceiling(); ok {
		q.Gte(FieldWalkingTime, "1").Lte(FieldWalkingTime, strconv.Itoa(ceiling))
	}

	return Plan{Query: q, FullScan: NeedsFullScan(f)}
}

func pushRange(q *domain.EntriesQuery, path, minBound, maxBound string) {
	if lo, ok := domain.Bound(minBound); ok {
		q.Gte(path, strconv.Itoa(lo))
	}
	if hi, ok := domain.Bound(maxBound); ok {
		q.Lte(path, strconv.Itoa(hi))
	}
}
