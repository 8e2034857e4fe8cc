package usecases_port

import (
	"context"

	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
)

type SearchPropertiesUseCase interface {
	Execute(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error)
}
