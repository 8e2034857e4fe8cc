package constants

import "time"

// CMS content type ids.
const (
	ContentTypeArea           = "area"
	ContentTypeRegion         = "region"
	ContentTypeStation        = "station"
	ContentTypeCuisineType    = "cuisineType"
	ContentTypeRestaurantType = "restaurantType"
	ContentTypeProperty       = "property"
)

const (
	// RetentionDays is how long a listing stays visible after registration.
	RetentionDays = 3650
	// FullScanPageSize is the page size used when every candidate has to be fetched.
	FullScanPageSize = 1000
	// PropertyInclude resolves property -> region -> area links.
	PropertyInclude = 2
	// LatestPropertiesLimit is the number of newest listings on the area page.
	LatestPropertiesLimit = 12
	// SearchRegionsLimit is the number of region shortcuts on the area page.
	SearchRegionsLimit = 5
)

// Cache lifetimes per data category.
const (
	TaxonomyCacheTTL = 10 * time.Minute
	PropertyCacheTTL = 1 * time.Minute
)

// ContentFetchTimeout bounds one upstream CMS fetch shared by concurrent callers.
const ContentFetchTimeout = 10 * time.Second

// DefaultPropertyImage is shown when a listing has no exterior photo.
const DefaultPropertyImage = "/propertyImage.png"
