package usecases_port

import (
	"context"

	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
)

type GetAreaOverviewUseCase interface {
	Execute(ctx context.Context, areaSlug string) (*domain.AreaOverview, error)
}
