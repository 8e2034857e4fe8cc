package usecases_port

import (
	"context"

	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
)

type GetPropertyDetailsUseCase interface {
	Execute(ctx context.Context, propertyID string, unlockedIDs []string) (*domain.PropertyDetails, error)
}
