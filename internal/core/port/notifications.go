package port

import (
	"context"

	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
)

// MailerPort delivers a single plain text email.
type MailerPort interface {
	Send(ctx context.Context, email domain.Email) error
}

// LeadRepositoryPort persists accepted leads.
type LeadRepositoryPort interface {
	Save(ctx context.Context, lead *domain.Lead) error
	GetByID(ctx context.Context, id string) (*domain.Lead, error)
}

// LeadEventPublisherPort hands a lead over for asynchronous notification.
type LeadEventPublisherPort interface {
	PublishLeadSubmitted(ctx context.Context, lead *domain.Lead) error
}
