package domain

// ItemsPerPage is the fixed page size of search results.
const ItemsPerPage = 10

// SortOption selects the result ordering.
type SortOption string

const (
	SortNewest         SortOption = "newest"
	SortRentAscending  SortOption = "rentAscending"
	SortAreaDescending SortOption = "areaDescending"
)

// SortOptions lists the options with their display labels.
var SortOptions = []struct {
	Value SortOption
	Label string
}{
	{SortNewest, "新着順"},
	{SortRentAscending, "賃料が安い順"},
	{SortAreaDescending, "面積が広い順"},
}

// ParseSortOption maps unknown values to SortNewest.
func ParseSortOption(s string) SortOption {
	switch SortOption(s) {
	case SortRentAscending, SortAreaDescending:
		return SortOption(s)
	default:
		return SortNewest
	}
}

// SearchRequest is the input of a property search within an area.
type SearchRequest struct {
	AreaSlug string
	Filters  FilterState
	Page     int
	Sort     SortOption

	// DeepLinkRegionID preselects a region by id when no region filter is set.
	DeepLinkRegionID string
}

// SearchResult is one page of matching properties.
type SearchResult struct {
	AreaName     string
	Properties   []Property
	TotalCount   int
	CurrentPage  int
	ItemsPerPage int
	TotalPages   int
	Filters      FilterState
	Sort         SortOption
}

// TotalPagesFor returns ceil(total/ItemsPerPage).
func TotalPagesFor(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + ItemsPerPage - 1) / ItemsPerPage
}

// SearchOptions are the choices the filter UI renders for one area.
type SearchOptions struct {
	AreaName        string
	Placeholder     string
	Regions         []TaxonomyItem
	CuisineTypes    []TaxonomyItem
	RestaurantTypes []TaxonomyItem
}
