package usecase

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/arch-mania/takanekaitori-prod/internal/constants"
	"github.com/arch-mania/takanekaitori-prod/internal/contextkeys"
	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
	"github.com/arch-mania/takanekaitori-prod/internal/core/port"
	"github.com/arch-mania/takanekaitori-prod/internal/core/search"

	"golang.org/x/sync/errgroup"
)

type GetAreaOverviewUseCase struct {
	content port.ContentSourcePort
	clock   port.Clock
}

func NewGetAreaOverviewUseCase(content port.ContentSourcePort, clock port.Clock) *GetAreaOverviewUseCase {
	return &GetAreaOverviewUseCase{content: content, clock: clock}
}

func (uc *GetAreaOverviewUseCase) Execute(ctx context.Context, areaSlug string) (*domain.AreaOverview, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":  "GetAreaOverview",
		"area_slug": areaSlug,
	})

	ucLogger.Info("Use case started", nil)

	area, err := findArea(ctx, uc.content, areaSlug)
	if err != nil {
		ucLogger.Error("Failed to resolve area", err, nil)
		return nil, err
	}

	regionEntries, err := fetchItems(ctx, uc.content, regionsQuery(area.Sys.ID))
	if err != nil {
		ucLogger.Error("Failed to load regions", err, nil)
		return nil, err
	}
	regions := search.NewTaxonomy(regionEntries, "order")
	regionIDs := regions.AllIDs()

	overview := &domain.AreaOverview{
		AreaID:        area.Sys.ID,
		AreaName:      area.String("name"),
		AreaSlug:      areaSlug,
		Placeholder:   area.String("placeholder"),
		SearchRegions: searchRegions(regions.Items()),
		Featured:      []domain.Property{},
		Latest:        []domain.Property{},
		CuisineTypes:  []domain.TaxonomyItem{},
	}

	now := uc.clock.Now()
	scope := search.ScopeQuery(regionIDs, search.RetentionCutoff(now))

	g, gctx := errgroup.WithContext(ctx)
	if len(regionIDs) > 0 {
		g.Go(func() error {
			q := scope.Clone().
				Exists("fields.pickupOrder", true).
				OrderBy("fields.pickupOrder").
				WithInclude(constants.PropertyInclude)
			entries, err := fetchItems(gctx, uc.content, q)
			if err != nil {
				return fmt.Errorf("featured: %w", err)
			}
			overview.Featured = search.NormalizeAll(entries, now)
			return nil
		})
		g.Go(func() error {
			q := scope.Clone().
				OrderBy("-sys.createdAt").
				Page(constants.LatestPropertiesLimit, 0).
				WithInclude(constants.PropertyInclude)
			entries, err := fetchItems(gctx, uc.content, q)
			if err != nil {
				return fmt.Errorf("latest: %w", err)
			}
			overview.Latest = search.NormalizeAll(entries, now)
			return nil
		})
		g.Go(func() error {
			counts, err := countInScope(gctx, uc.content, regionIDs, now)
			if err != nil {
				return err
			}
			overview.TotalCount = counts.TotalCount
			overview.NewCount = counts.NewCount
			return nil
		})
	}
	g.Go(func() error {
		entries, err := fetchItems(gctx, uc.content, orderedListQuery(constants.ContentTypeCuisineType))
		if err != nil {
			return fmt.Errorf("cuisine types: %w", err)
		}
		overview.CuisineTypes = search.NewTaxonomy(entries, "order").Items()
		return nil
	})
	if err := g.Wait(); err != nil {
		ucLogger.Error("Failed to load area overview", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"featured":    len(overview.Featured),
		"latest":      len(overview.Latest),
		"total_count": overview.TotalCount,
		"new_count":   overview.NewCount,
	})

	return overview, nil
}

// searchRegions keeps the regions with a positive display order, ascending, at most five.
func searchRegions(items []domain.TaxonomyItem) []domain.TaxonomyItem {
	out := make([]domain.TaxonomyItem, 0, constants.SearchRegionsLimit)
	for _, it := range items {
		if it.Order > 0 {
			out = append(out, it)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.TaxonomyItem) int {
		return cmp.Compare(a.Order, b.Order)
	})
	if len(out) > constants.SearchRegionsLimit {
		out = out[:constants.SearchRegionsLimit]
	}
	return out
}
