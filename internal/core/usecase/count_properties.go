package usecase

import (
	"context"

	"github.com/arch-mania/takanekaitori-prod/internal/contextkeys"
	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
	"github.com/arch-mania/takanekaitori-prod/internal/core/port"
)

type CountPropertiesUseCase struct {
	content port.ContentSourcePort
	clock   port.Clock
}

func NewCountPropertiesUseCase(content port.ContentSourcePort, clock port.Clock) *CountPropertiesUseCase {
	return &CountPropertiesUseCase{content: content, clock: clock}
}

func (uc *CountPropertiesUseCase) Execute(ctx context.Context, areaSlug string) (*domain.PropertyCounts, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":  "CountProperties",
		"area_slug": areaSlug,
	})

	ucLogger.Info("Use case started", nil)

	area, err := findArea(ctx, uc.content, areaSlug)
	if err != nil {
		ucLogger.Error("Failed to resolve area", err, nil)
		return nil, err
	}

	regions, err := fetchItems(ctx, uc.content, regionsQuery(area.Sys.ID))
	if err != nil {
		ucLogger.Error("Failed to load regions", err, nil)
		return nil, err
	}
	regionIDs := make([]string, 0, len(regions))
	for _, r := range regions {
		if r != nil && r.Sys.ID != "" {
			regionIDs = append(regionIDs, r.Sys.ID)
		}
	}

	counts, err := countInScope(ctx, uc.content, regionIDs, uc.clock.Now())
	if err != nil {
		ucLogger.Error("Failed to count properties", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"total_count": counts.TotalCount,
		"new_count":   counts.NewCount,
	})

	return &counts, nil
}
