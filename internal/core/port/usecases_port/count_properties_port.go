package usecases_port

import (
	"context"

	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
)

type CountPropertiesUseCase interface {
	Execute(ctx context.Context, areaSlug string) (*domain.PropertyCounts, error)
}
