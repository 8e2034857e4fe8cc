package domain

import "strconv"

// Range sentinels as they appear in URLs and in the filter UI.
const (
	NoLowerBound = "下限なし"
	NoUpperBound = "上限なし"
)

// WalkingTime is the walking distance filter to the nearest station.
type WalkingTime string

const (
	WalkingUnspecified WalkingTime = "指定なし"
	Walking1Min        WalkingTime = "1分"
	Walking3Min        WalkingTime = "3分以内"
	Walking5Min        WalkingTime = "5分以内"
	Walking10Min       WalkingTime = "10分以内"
	Walking15Min       WalkingTime = "15分以内"
)

var walkingCeilings = map[WalkingTime]int{
	Walking1Min:  1,
	Walking3Min:  3,
	Walking5Min:  5,
	Walking10Min: 10,
	Walking15Min: 15,
}

// WalkingTimes lists the selectable options in display order.
var WalkingTimes = []WalkingTime{
	WalkingUnspecified, Walking1Min, Walking3Min, Walking5Min, Walking10Min, Walking15Min,
}

// Ceiling returns the maximum walking minutes, false when unspecified.
func (w WalkingTime) Ceiling() (int, bool) {
	c, ok := walkingCeilings[w]
	return c, ok
}

// ParseWalkingTime maps unknown values to WalkingUnspecified.
func ParseWalkingTime(s string) WalkingTime {
	w := WalkingTime(s)
	if _, ok := walkingCeilings[w]; ok {
		return w
	}
	return WalkingUnspecified
}

// FloorSelection holds the six floor checkboxes.
type FloorSelection struct {
	Basement               bool `json:"basement"`
	First                  bool `json:"first"`
	Second                 bool `json:"second"`
	ThirdAndAbove          bool `json:"thirdAndAbove"`
	MultiFloorWithFirst    bool `json:"multiFloorWithFirst"`
	MultiFloorWithoutFirst bool `json:"multiFloorWithoutFirst"`
}

func (f FloorSelection) Any() bool {
	return f.Basement || f.First || f.Second || f.ThirdAndAbove || f.MultiFloorWithFirst || f.MultiFloorWithoutFirst
}

// FloorLabels are the display labels of the floor options keyed by query key.
var FloorLabels = []struct {
	Key   string
	Label string
}{
	{"basement", "地下"},
	{"first", "1階"},
	{"second", "2階"},
	{"thirdAndAbove", "3階以上"},
	{"multiFloorWithFirst", "複数階一括(1階を含む)"},
	{"multiFloorWithoutFirst", "複数階一括(1階を含まない)"},
}

// FilterState is the user facing search state. Empty multi-selects mean no constraint.
type FilterState struct {
	MinRent                string         `json:"minRent"`
	MaxRent                string         `json:"maxRent"`
	MinArea                string         `json:"minArea"`
	MaxArea                string         `json:"maxArea"`
	IsSkeleton             bool           `json:"isSkeleton"`
	IsInteriorIncluded     bool           `json:"isInteriorIncluded"`
	IsNew                  bool           `json:"isNew"`
	Floors                 FloorSelection `json:"floors"`
	Regions                []string       `json:"regions"`
	CuisineTypes           []string       `json:"cuisineTypes"`
	AllowedRestaurantTypes []string       `json:"restaurantTypes"`
	Keyword                string         `json:"keyword"`
	WalkingTime            WalkingTime    `json:"walkingTime"`
}

// DefaultFilterState returns the unconstrained state.
func DefaultFilterState() FilterState {
	return FilterState{
		MinRent:                NoLowerBound,
		MaxRent:                NoUpperBound,
		MinArea:                NoLowerBound,
		MaxArea:                NoUpperBound,
		Regions:                []string{},
		CuisineTypes:           []string{},
		AllowedRestaurantTypes: []string{},
		WalkingTime:            WalkingUnspecified,
	}
}

// StatusCount is the number of requested status flags.
func (f FilterState) StatusCount() int {
	n := 0
	for _, b := range []bool{f.IsNew, f.IsSkeleton, f.IsInteriorIncluded} {
		if b {
			n++
		}
	}
	return n
}

// Bound parses a range value. Sentinels and non-numeric values are unbounded.
func Bound(v string) (int, bool) {
	if v == NoLowerBound || v == NoUpperBound || v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// RentOptions and AreaOptions are the selectable range steps (man-yen and tsubo).
var (
	RentOptions = []int{10, 20, 30, 40, 50, 60, 70, 80, 90, 100, 150, 200, 300, 400, 500}
	AreaOptions = []int{10, 15, 20, 25, 30, 35, 40, 45, 50, 60, 70, 80, 90, 100}
)
