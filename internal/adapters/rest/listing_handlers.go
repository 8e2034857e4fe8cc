package rest

import (
	"net/http"
	"strings"

	"github.com/arch-mania/takanekaitori-prod/internal/contextkeys"
	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
	"github.com/arch-mania/takanekaitori-prod/internal/core/port"
	"github.com/arch-mania/takanekaitori-prod/internal/core/port/usecases_port"
	"github.com/arch-mania/takanekaitori-prod/internal/core/search"

	"github.com/go-chi/chi/v5"
)

// deepLinkRegionParam preselects a region by CMS id when "regions" is absent.
const deepLinkRegionParam = "region"

type ListingHandler struct {
	overviewUC usecases_port.GetAreaOverviewUseCase
	searchUC   usecases_port.SearchPropertiesUseCase
	optionsUC  usecases_port.GetSearchOptionsUseCase
	countUC    usecases_port.CountPropertiesUseCase
	detailsUC  usecases_port.GetPropertyDetailsUseCase
	unlocks    *UnlockCookie
}

func NewListingHandler(
	overviewUC usecases_port.GetAreaOverviewUseCase,
	searchUC usecases_port.SearchPropertiesUseCase,
	optionsUC usecases_port.GetSearchOptionsUseCase,
	countUC usecases_port.CountPropertiesUseCase,
	detailsUC usecases_port.GetPropertyDetailsUseCase,
	unlocks *UnlockCookie,
) *ListingHandler {
	return &ListingHandler{
		overviewUC: overviewUC,
		searchUC:   searchUC,
		optionsUC:  optionsUC,
		countUC:    countUC,
		detailsUC:  detailsUC,
		unlocks:    unlocks,
	}
}

// GetAreaOverview handles GET /api/v1/areas/{areaSlug}
func (h *ListingHandler) GetAreaOverview(w http.ResponseWriter, r *http.Request) {
	areaSlug := chi.URLParam(r, "areaSlug")
	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":   "GetAreaOverview",
		"area_slug": areaSlug,
	})

	overview, err := h.overviewUC.Execute(r.Context(), areaSlug)
	if err != nil {
		handlerLogger.Error("Use case failed", err, nil)
		writeLookupError(w, err, "Failed to load area")
		return
	}

	RespondWithJSON(w, http.StatusOK, AreaOverviewResponse{
		AreaID:        overview.AreaID,
		AreaName:      overview.AreaName,
		AreaSlug:      overview.AreaSlug,
		Placeholder:   overview.Placeholder,
		SearchRegions: overview.SearchRegions,
		Featured:      toPropertyCards(overview.Featured),
		Latest:        toPropertyCards(overview.Latest),
		CuisineTypes:  overview.CuisineTypes,
		TotalCount:    overview.TotalCount,
		NewCount:      overview.NewCount,
	})
}

// SearchProperties handles GET /api/v1/areas/{areaSlug}/properties
func (h *ListingHandler) SearchProperties(w http.ResponseWriter, r *http.Request) {
	areaSlug := chi.URLParam(r, "areaSlug")
	query := r.URL.Query()

	filters, page, sort := search.DecodeQuery(query, search.InitialContext{})
	req := domain.SearchRequest{
		AreaSlug: areaSlug,
		Filters:  filters,
		Page:     page,
		Sort:     sort,
	}
	if !query.Has(search.ParamRegions) {
		req.DeepLinkRegionID = strings.TrimSpace(query.Get(deepLinkRegionParam))
	}

	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":   "SearchProperties",
		"area_slug": areaSlug,
		"page":      page,
		"sort":      string(sort),
	})
	handlerLogger.Debug("Processing search request", port.Fields{"filters": filters})

	result, err := h.searchUC.Execute(r.Context(), req)
	if err != nil {
		handlerLogger.Error("Use case failed", err, nil)
		writeLookupError(w, err, "Failed to search properties")
		return
	}

	handlerLogger.Info("Search finished", port.Fields{
		"total_found":   result.TotalCount,
		"items_on_page": len(result.Properties),
	})

	RespondWithJSON(w, http.StatusOK, SearchResponse{
		AreaName:     result.AreaName,
		Properties:   toPropertyCards(result.Properties),
		TotalCount:   result.TotalCount,
		CurrentPage:  result.CurrentPage,
		ItemsPerPage: result.ItemsPerPage,
		TotalPages:   result.TotalPages,
		Filters:      result.Filters,
		Sort:         result.Sort,
		Query:        search.EncodeQuery(result.Filters, result.CurrentPage, result.Sort).Encode(),
	})
}

// GetSearchOptions handles GET /api/v1/areas/{areaSlug}/search-options
func (h *ListingHandler) GetSearchOptions(w http.ResponseWriter, r *http.Request) {
	areaSlug := chi.URLParam(r, "areaSlug")
	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":   "GetSearchOptions",
		"area_slug": areaSlug,
	})

	options, err := h.optionsUC.Execute(r.Context(), areaSlug)
	if err != nil {
		handlerLogger.Error("Use case failed", err, nil)
		writeLookupError(w, err, "Failed to load search options")
		return
	}

	resp := SearchOptionsResponse{
		AreaName:        options.AreaName,
		Placeholder:     options.Placeholder,
		Regions:         options.Regions,
		CuisineTypes:    options.CuisineTypes,
		RestaurantTypes: options.RestaurantTypes,
		RentOptions:     domain.RentOptions,
		AreaOptions:     domain.AreaOptions,
		WalkingTimes:    make([]string, len(domain.WalkingTimes)),
	}
	for i, wt := range domain.WalkingTimes {
		resp.WalkingTimes[i] = string(wt)
	}
	for _, f := range domain.FloorLabels {
		resp.Floors = append(resp.Floors, OptionResponse{Value: f.Key, Label: f.Label})
	}
	for _, s := range domain.SortOptions {
		resp.SortOptions = append(resp.SortOptions, OptionResponse{Value: string(s.Value), Label: s.Label})
	}
	RespondWithJSON(w, http.StatusOK, resp)
}

// CountProperties handles GET /api/v1/areas/{areaSlug}/counts
func (h *ListingHandler) CountProperties(w http.ResponseWriter, r *http.Request) {
	areaSlug := chi.URLParam(r, "areaSlug")
	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":   "CountProperties",
		"area_slug": areaSlug,
	})

	counts, err := h.countUC.Execute(r.Context(), areaSlug)
	if err != nil {
		handlerLogger.Error("Use case failed", err, nil)
		writeLookupError(w, err, "Failed to count properties")
		return
	}
	RespondWithJSON(w, http.StatusOK, CountsResponse{TotalCount: counts.TotalCount, NewCount: counts.NewCount})
}

// GetPropertyDetails handles GET /api/v1/properties/{propertyID}
func (h *ListingHandler) GetPropertyDetails(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "propertyID")
	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":     "GetPropertyDetails",
		"property_id": propertyID,
	})

	details, err := h.detailsUC.Execute(r.Context(), propertyID, h.unlocks.Read(r))
	if err != nil {
		handlerLogger.Error("Use case failed", err, nil)
		writeLookupError(w, err, "Failed to load property")
		return
	}
	if !details.IsDetailUnlocked {
		*details = search.WithholdLocked(*details)
	}

	RespondWithJSON(w, http.StatusOK, PropertyDetailsResponse{
		PropertyCardResponse: toPropertyCard(details.Property),
		Images:               details.Images,
		FloorPlanImage:       details.FloorPlanImage,
		InteriorTransferFee:  details.InteriorTransferFee,
		Notes:                details.Notes,
		AssignedAgent:        details.AssignedAgent,
		FormattedFloors:      details.FormattedFloors,
		IsDetailUnlocked:     details.IsDetailUnlocked,
	})
}
