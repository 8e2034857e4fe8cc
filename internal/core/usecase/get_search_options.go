package usecase

import (
	"context"

	"github.com/arch-mania/takanekaitori-prod/internal/contextkeys"
	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
	"github.com/arch-mania/takanekaitori-prod/internal/core/port"
)

type GetSearchOptionsUseCase struct {
	content port.ContentSourcePort
}

func NewGetSearchOptionsUseCase(content port.ContentSourcePort) *GetSearchOptionsUseCase {
	return &GetSearchOptionsUseCase{content: content}
}

// Execute returns the taxonomy choices of an area. Static option lists live in domain.
func (uc *GetSearchOptionsUseCase) Execute(ctx context.Context, areaSlug string) (*domain.SearchOptions, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":  "GetSearchOptions",
		"area_slug": areaSlug,
	})

	ucLogger.Info("Use case started", nil)

	area, err := findArea(ctx, uc.content, areaSlug)
	if err != nil {
		ucLogger.Error("Failed to resolve area", err, nil)
		return nil, err
	}

	tax, err := loadTaxonomies(ctx, uc.content, area.Sys.ID)
	if err != nil {
		ucLogger.Error("Failed to load taxonomies", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"regions":          tax.Regions.Len(),
		"cuisine_types":    tax.CuisineTypes.Len(),
		"restaurant_types": tax.RestaurantTypes.Len(),
	})

	return &domain.SearchOptions{
		AreaName:        area.String("name"),
		Placeholder:     area.String("placeholder"),
		Regions:         tax.Regions.Items(),
		CuisineTypes:    tax.CuisineTypes.Items(),
		RestaurantTypes: tax.RestaurantTypes.Items(),
	}, nil
}
