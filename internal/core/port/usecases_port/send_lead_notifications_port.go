package usecases_port

import (
	"context"

	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
)

type SendLeadNotificationsUseCase interface {
	Execute(ctx context.Context, lead *domain.Lead) error
}
