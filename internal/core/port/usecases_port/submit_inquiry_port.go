package usecases_port

import (
	"context"

	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
)

type SubmitInquiryUseCase interface {
	Execute(ctx context.Context, form domain.ContactForm, unlockedIDs []string) (*domain.SubmitResult, error)
}
