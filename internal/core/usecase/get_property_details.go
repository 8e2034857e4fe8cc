package usecase

import (
	"context"
	"fmt"
	"slices"

	"github.com/arch-mania/takanekaitori-prod/internal/constants"
	"github.com/arch-mania/takanekaitori-prod/internal/contextkeys"
	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
	"github.com/arch-mania/takanekaitori-prod/internal/core/port"
	"github.com/arch-mania/takanekaitori-prod/internal/core/search"
)

type GetPropertyDetailsUseCase struct {
	content port.ContentSourcePort
	clock   port.Clock
}

func NewGetPropertyDetailsUseCase(content port.ContentSourcePort, clock port.Clock) *GetPropertyDetailsUseCase {
	return &GetPropertyDetailsUseCase{content: content, clock: clock}
}

// Execute loads one listing. unlockedIDs is the visitor's unlock set; sensitive rows are
// withheld unless the property id is in it.
func (uc *GetPropertyDetailsUseCase) Execute(ctx context.Context, propertyID string, unlockedIDs []string) (*domain.PropertyDetails, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "GetPropertyDetails",
		"property_id": propertyID,
	})

	ucLogger.Info("Use case started", nil)

	entry, err := uc.content.GetEntry(ctx, propertyID, constants.PropertyInclude)
	if err != nil {
		err = fmt.Errorf("failed to fetch property %s: %w", propertyID, err)
		ucLogger.Error("Content source returned an error", err, nil)
		return nil, err
	}
	if entry == nil || (entry.Sys.ContentType != "" && entry.Sys.ContentType != constants.ContentTypeProperty) {
		ucLogger.Warn("Property not found", nil)
		return nil, domain.ErrPropertyNotFound
	}

	now := uc.clock.Now()
	if search.IsExpired(entry, now) {
		ucLogger.Warn("Property is past the retention window", nil)
		return nil, domain.ErrPropertyNotFound
	}

	unlocked := slices.Contains(unlockedIDs, entry.Sys.ID)
	details := search.NormalizeDetails(entry, now, unlocked)

	ucLogger.Info("Use case finished successfully", port.Fields{"unlocked": unlocked})

	return &details, nil
}
