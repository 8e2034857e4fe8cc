package rabbitmq

import (
	"time"

	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
)

// LeadSubmittedEventDTO is the body of a LeadSubmittedEvent 1.0.0 message.
type LeadSubmittedEventDTO struct {
	SubmittedAt time.Time    `json:"submitted_at"`
	Lead        *domain.Lead `json:"lead"`
}
