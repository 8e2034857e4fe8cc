package search

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
)

// Query parameter keys.
const (
	ParamMinRent                = "minRent"
	ParamMaxRent                = "maxRent"
	ParamMinArea                = "minArea"
	ParamMaxArea                = "maxArea"
	ParamIsSkeleton             = "isSkeleton"
	ParamIsInteriorIncluded     = "isInteriorIncluded"
	ParamIsNew                  = "isNew"
	ParamBasement               = "basement"
	ParamFirst                  = "first"
	ParamSecond                 = "second"
	ParamThirdAndAbove          = "thirdAndAbove"
	ParamMultiFloorWithFirst    = "multiFloorWithFirst"
	ParamMultiFloorWithoutFirst = "multiFloorWithoutFirst"
	ParamRegions                = "regions"
	ParamCuisineTypes           = "cuisineTypes"
	ParamRestaurantTypes        = "restaurantTypes"
	ParamKeyword                = "keyword"
	ParamWalkingTime            = "walkingTime"
	ParamSort                   = "sort"
	ParamPage                   = "page"
)

const listSeparator = ","

// InitialContext is the deep-link fallback used when a parameter is entirely absent.
type InitialContext struct {
	Region  string
	Keyword string
}

// EncodeQuery serializes the state, omitting every value equal to its default.
func EncodeQuery(f domain.FilterState, page int, sort domain.SortOption) url.Values {
	v := url.Values{}

	setBound(v, ParamMinRent, f.MinRent)
	setBound(v, ParamMaxRent, f.MaxRent)
	setBound(v, ParamMinArea, f.MinArea)
	setBound(v, ParamMaxArea, f.MaxArea)

	setFlag(v, ParamIsSkeleton, f.IsSkeleton)
	setFlag(v, ParamIsInteriorIncluded, f.IsInteriorIncluded)
	setFlag(v, ParamIsNew, f.IsNew)
	setFlag(v, ParamBasement, f.Floors.Basement)
	setFlag(v, ParamFirst, f.Floors.First)
	setFlag(v, ParamSecond, f.Floors.Second)
	setFlag(v, ParamThirdAndAbove, f.Floors.ThirdAndAbove)
	setFlag(v, ParamMultiFloorWithFirst, f.Floors.MultiFloorWithFirst)
	setFlag(v, ParamMultiFloorWithoutFirst, f.Floors.MultiFloorWithoutFirst)

	setList(v, ParamRegions, f.Regions)
	setList(v, ParamCuisineTypes, f.CuisineTypes)
	setList(v, ParamRestaurantTypes, f.AllowedRestaurantTypes)

	if f.Keyword != "" {
		v.Set(ParamKeyword, f.Keyword)
	}
	if w := domain.ParseWalkingTime(string(f.WalkingTime)); w != domain.WalkingUnspecified {
		v.Set(ParamWalkingTime, string(w))
	}
	if s := domain.ParseSortOption(string(sort)); s != domain.SortNewest {
		v.Set(ParamSort, string(s))
	}
	if page > 1 {
		v.Set(ParamPage, strconv.Itoa(page))
	}
	return v
}

// DecodeQuery rebuilds the state, substituting defaults for absent or invalid values.
func DecodeQuery(v url.Values, initial InitialContext) (domain.FilterState, int, domain.SortOption) {
	f := domain.DefaultFilterState()

	f.MinRent = decodeBound(v.Get(ParamMinRent), domain.NoLowerBound)
	f.MaxRent = decodeBound(v.Get(ParamMaxRent), domain.NoUpperBound)
	f.MinArea = decodeBound(v.Get(ParamMinArea), domain.NoLowerBound)
	f.MaxArea = decodeBound(v.Get(ParamMaxArea), domain.NoUpperBound)

	f.IsSkeleton = v.Get(ParamIsSkeleton) == "true"
	f.IsInteriorIncluded = v.Get(ParamIsInteriorIncluded) == "true"
	f.IsNew = v.Get(ParamIsNew) == "true"
	f.Floors = domain.FloorSelection{
		Basement:               v.Get(ParamBasement) == "true",
		First:                  v.Get(ParamFirst) == "true",
		Second:                 v.Get(ParamSecond) == "true",
		ThirdAndAbove:          v.Get(ParamThirdAndAbove) == "true",
		MultiFloorWithFirst:    v.Get(ParamMultiFloorWithFirst) == "true",
		MultiFloorWithoutFirst: v.Get(ParamMultiFloorWithoutFirst) == "true",
	}

	if v.Has(ParamRegions) {
		f.Regions = splitList(v.Get(ParamRegions))
	} else if initial.Region != "" {
		f.Regions = []string{initial.Region}
	}
	f.CuisineTypes = splitList(v.Get(ParamCuisineTypes))
	f.AllowedRestaurantTypes = splitList(v.Get(ParamRestaurantTypes))

	if v.Has(ParamKeyword) {
		f.Keyword = v.Get(ParamKeyword)
	} else {
		f.Keyword = initial.Keyword
	}
	f.WalkingTime = domain.ParseWalkingTime(v.Get(ParamWalkingTime))

	return f, ParsePage(v.Get(ParamPage)), domain.ParseSortOption(v.Get(ParamSort))
}

func setBound(v url.Values, key, value string) {
	if n, ok := domain.Bound(value); ok {
		v.Set(key, strconv.Itoa(n))
	}
}

func setFlag(v url.Values, key string, on bool) {
	if on {
		v.Set(key, "true")
	}
}

func setList(v url.Values, key string, values []string) {
	if len(values) > 0 {
		v.Set(key, strings.Join(values, listSeparator))
	}
}

func decodeBound(raw, unbounded string) string {
	if n, ok := domain.Bound(raw); ok {
		return strconv.Itoa(n)
	}
	return unbounded
}

func splitList(raw string) []string {
	out := []string{}
	for _, item := range strings.Split(raw, listSeparator) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
