package rest

import (
	"time"

	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
)

type PropertyCardResponse struct {
	ID                     string              `json:"id"`
	PropertyID             string              `json:"propertyId"`
	Title                  string              `json:"title"`
	Address                string              `json:"address"`
	StationName1           string              `json:"stationName1"`
	Rent                   int                 `json:"rent"`
	PricePerTsubo          float64             `json:"pricePerTsubo"`
	FloorArea              float64             `json:"floorArea"`
	FloorAreaTsubo         float64             `json:"floorAreaTsubo"`
	WalkingTimeToStation   int                 `json:"walkingTimeToStation,omitempty"`
	IsNew                  bool                `json:"isNew"`
	IsSkeleton             bool                `json:"isSkeleton"`
	IsInteriorIncluded     bool                `json:"isInteriorIncluded"`
	IsWatermarkEnabled     bool                `json:"isWatermarkEnabled"`
	Floors                 []string            `json:"floors"`
	Regions                []string            `json:"regions"`
	CuisineTypes           []string            `json:"cuisineTypes"`
	AllowedRestaurantTypes []string            `json:"restaurantTypes"`
	ExteriorImage          string              `json:"exteriorImage"`
	SecurityDeposit        string              `json:"securityDeposit"`
	RegistrationDate       *time.Time          `json:"registrationDate,omitempty"`
	Details                []domain.DetailItem `json:"details"`
}

func toPropertyCard(p domain.Property) PropertyCardResponse {
	card := PropertyCardResponse{
		ID:                     p.ID,
		PropertyID:             p.PropertyID,
		Title:                  p.Title,
		Address:                p.Address,
		StationName1:           p.StationName1,
		Rent:                   p.Rent,
		PricePerTsubo:          p.PricePerTsubo,
		FloorArea:              p.FloorArea,
		FloorAreaTsubo:         p.FloorAreaTsubo,
		WalkingTimeToStation:   p.WalkingTimeToStation,
		IsNew:                  p.IsNew,
		IsSkeleton:             p.IsSkeleton,
		IsInteriorIncluded:     p.IsInteriorIncluded,
		IsWatermarkEnabled:     p.IsWatermarkEnabled,
		Floors:                 p.Floors,
		Regions:                p.Regions,
		CuisineTypes:           p.CuisineTypes,
		AllowedRestaurantTypes: p.AllowedRestaurantTypes,
		ExteriorImage:          p.ExteriorImage,
		SecurityDeposit:        p.SecurityDeposit,
		Details:                p.Details,
	}
	if !p.RegistrationDate.IsZero() {
		d := p.RegistrationDate
		card.RegistrationDate = &d
	}
	return card
}

func toPropertyCards(properties []domain.Property) []PropertyCardResponse {
	cards := make([]PropertyCardResponse, len(properties))
	for i, p := range properties {
		cards[i] = toPropertyCard(p)
	}
	return cards
}

type AreaOverviewResponse struct {
	AreaID        string                 `json:"areaId"`
	AreaName      string                 `json:"areaName"`
	AreaSlug      string                 `json:"areaSlug"`
	Placeholder   string                 `json:"placeholder"`
	SearchRegions []domain.TaxonomyItem  `json:"searchRegions"`
	Featured      []PropertyCardResponse `json:"featured"`
	Latest        []PropertyCardResponse `json:"latest"`
	CuisineTypes  []domain.TaxonomyItem  `json:"cuisineTypes"`
	TotalCount    int                    `json:"totalCount"`
	NewCount      int                    `json:"newCount"`
}

type SearchResponse struct {
	AreaName     string                 `json:"areaName"`
	Properties   []PropertyCardResponse `json:"properties"`
	TotalCount   int                    `json:"totalCount"`
	CurrentPage  int                    `json:"currentPage"`
	ItemsPerPage int                    `json:"itemsPerPage"`
	TotalPages   int                    `json:"totalPages"`
	Filters      domain.FilterState     `json:"filters"`
	Sort         domain.SortOption      `json:"sort"`
	// Query is the canonical query string of this state, for links and history.
	Query string `json:"query"`
}

type OptionResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type SearchOptionsResponse struct {
	AreaName        string                `json:"areaName"`
	Placeholder     string                `json:"placeholder"`
	Regions         []domain.TaxonomyItem `json:"regions"`
	CuisineTypes    []domain.TaxonomyItem `json:"cuisineTypes"`
	RestaurantTypes []domain.TaxonomyItem `json:"restaurantTypes"`
	RentOptions     []int                 `json:"rentOptions"`
	AreaOptions     []int                 `json:"areaOptions"`
	WalkingTimes    []string              `json:"walkingTimes"`
	Floors          []OptionResponse      `json:"floors"`
	SortOptions     []OptionResponse      `json:"sortOptions"`
}

type PropertyDetailsResponse struct {
	PropertyCardResponse
	Images              []string `json:"images"`
	FloorPlanImage      string   `json:"floorPlanImage,omitempty"`
	InteriorTransferFee string   `json:"interiorTransferFee"`
	Notes               string   `json:"notes"`
	AssignedAgent       string   `json:"assignedAgent"`
	FormattedFloors     string   `json:"formattedFloors"`
	IsDetailUnlocked    bool     `json:"isDetailUnlocked"`
}

type CountsResponse struct {
	TotalCount int `json:"totalCount"`
	NewCount   int `json:"newCount"`
}

type InquiryRequest struct {
	EntryID              string `json:"entryId"`
	FormKind             string `json:"formKind"`
	PropertyID           string `json:"propertyId"`
	PropertyTitle        string `json:"propertyTitle"`
	AssignedAgent        string `json:"assignedAgent"`
	InquiryType          string `json:"inquiryType"`
	InquiryContent       string `json:"inquiryContent"`
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Phone                string `json:"phone"`
	Message              string `json:"message"`
	DesiredOpeningPeriod string `json:"desiredOpeningPeriod"`
}

func (r InquiryRequest) toForm() domain.ContactForm {
	return domain.ContactForm{
		EntryID:              r.EntryID,
		FormKind:             domain.FormKind(r.FormKind),
		PropertyID:           r.PropertyID,
		PropertyTitle:        r.PropertyTitle,
		AssignedAgent:        r.AssignedAgent,
		InquiryType:          r.InquiryType,
		InquiryContent:       r.InquiryContent,
		Name:                 r.Name,
		Email:                r.Email,
		Phone:                r.Phone,
		Message:              r.Message,
		DesiredOpeningPeriod: r.DesiredOpeningPeriod,
	}
}

type InquiryResponse struct {
	Success             bool   `json:"success"`
	LeadID              string `json:"leadId"`
	NotificationsQueued bool   `json:"notificationsQueued"`
	Unlocked            bool   `json:"unlocked"`
}

type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}
