package usecase

import (
	"context"
	"fmt"

	"github.com/arch-mania/takanekaitori-prod/internal/contextkeys"
	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
	"github.com/arch-mania/takanekaitori-prod/internal/core/port"
	"github.com/arch-mania/takanekaitori-prod/internal/core/search"
)

type SearchPropertiesUseCase struct {
	content port.ContentSourcePort
	clock   port.Clock
}

func NewSearchPropertiesUseCase(content port.ContentSourcePort, clock port.Clock) *SearchPropertiesUseCase {
	return &SearchPropertiesUseCase{content: content, clock: clock}
}

// Execute runs a filtered search within an area. Constraints the CMS can evaluate are pushed
// into a single paged query; otherwise every candidate is fetched and filtered in memory.
func (uc *SearchPropertiesUseCase) Execute(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error) {
	page := search.NormalizePage(req.Page)
	sort := domain.ParseSortOption(string(req.Sort))

	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":  "SearchProperties",
		"area_slug": req.AreaSlug,
		"page":      page,
		"sort":      string(sort),
	})

	ucLogger.Info("Use case started", nil)

	area, err := findArea(ctx, uc.content, req.AreaSlug)
	if err != nil {
		ucLogger.Error("Failed to resolve area", err, nil)
		return nil, err
	}

	tax, err := loadTaxonomies(ctx, uc.content, area.Sys.ID)
	if err != nil {
		ucLogger.Error("Failed to load taxonomies", err, nil)
		return nil, err
	}

	filters := req.Filters
	if filters.Regions == nil {
		filters.Regions = []string{}
	}
	if filters.CuisineTypes == nil {
		filters.CuisineTypes = []string{}
	}
	if filters.AllowedRestaurantTypes == nil {
		filters.AllowedRestaurantTypes = []string{}
	}
	if req.DeepLinkRegionID != "" && len(filters.Regions) == 0 {
		if name, ok := tax.Regions.Name(req.DeepLinkRegionID); ok {
			filters.Regions = []string{name}
		}
	}

	result := &domain.SearchResult{
		AreaName:     area.String("name"),
		Properties:   []domain.Property{},
		CurrentPage:  page,
		ItemsPerPage: domain.ItemsPerPage,
		Filters:      filters,
		Sort:         sort,
	}

	now := uc.clock.Now()
	plan := search.BuildPlan(filters, sort, tax, search.RetentionCutoff(now))
	if plan.Empty {
		ucLogger.Info("Selection resolves to no taxonomy ids, returning empty result", nil)
		return result, nil
	}

	if plan.FullScan {
		entries, err := fetchAll(ctx, uc.content, plan.Query)
		if err != nil {
			ucLogger.Error("Full scan failed", err, nil)
			return nil, err
		}
		matched := search.Filter(search.NormalizeAll(entries, now), filters)
		search.Sort(matched, sort)

		result.TotalCount = len(matched)
		result.Properties = search.Paginate(matched, page)

		ucLogger.Debug("Full scan finished", port.Fields{"fetched": len(entries), "matched": len(matched)})
	} else {
		res, err := uc.content.GetEntries(ctx, plan.Query.Clone().Page(domain.ItemsPerPage, search.Offset(page)))
		if err != nil {
			err = fmt.Errorf("failed to fetch properties: %w", err)
			ucLogger.Error("Paged query failed", err, nil)
			return nil, err
		}
		if res != nil {
			result.TotalCount = res.Total
			result.Properties = search.NormalizeAll(res.Items, now)
		}
	}
	result.TotalPages = domain.TotalPagesFor(result.TotalCount)

	ucLogger.Info("Use case finished successfully", port.Fields{
		"full_scan":     plan.FullScan,
		"total_found":   result.TotalCount,
		"items_on_page": len(result.Properties),
	})

	return result, nil
}
