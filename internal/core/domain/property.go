package domain

import (
	"strings"
	"time"
)

// DetailItem is one row of the property detail table.
type DetailItem struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Locked bool   `json:"locked,omitempty"`
}

// Property is the canonical listing built from a CMS entry.
// Collections are never nil; absent numbers are zero.
type Property struct {
	ID                     string
	PropertyID             string
	Title                  string
	Address                string
	StationName1           string
	Rent                   int // man-yen
	PricePerTsubo          float64
	FloorArea              float64 // m²
	FloorAreaTsubo         float64
	WalkingTimeToStation   int // minutes, 0 = unknown
	IsNew                  bool
	IsSkeleton             bool
	IsInteriorIncluded     bool
	IsWatermarkEnabled     bool
	Floors                 []string
	Regions                []string
	CuisineTypes           []string
	AllowedRestaurantTypes []string
	ExteriorImage          string
	SecurityDeposit        string
	RegistrationDate       time.Time
	CreatedAt              time.Time
	Details                []DetailItem
}

// DetailValue returns the value of the first detail row whose label contains substr.
func (p Property) DetailValue(substr string) (string, bool) {
	for _, d := range p.Details {
		if strings.Contains(d.Label, substr) {
			return d.Value, true
		}
	}
	return "", false
}

// PropertyDetails is the full view of a single listing.
type PropertyDetails struct {
	Property
	Images              []string
	FloorPlanImage      string
	InteriorTransferFee string
	Notes               string
	AssignedAgent       string
	FormattedFloors     string
	IsDetailUnlocked    bool
}

// AreaOverview is the landing data of a single area.
type AreaOverview struct {
	AreaID        string
	AreaName      string
	AreaSlug      string
	Placeholder   string
	SearchRegions []TaxonomyItem
	Featured      []Property
	Latest        []Property
	CuisineTypes  []TaxonomyItem
	TotalCount    int
	NewCount      int
}

// TaxonomyItem is a region, cuisine type or restaurant type option.
type TaxonomyItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order,omitempty"`
}

// PropertyCounts holds the headline counters for an area.
type PropertyCounts struct {
	TotalCount int
	NewCount   int
}
