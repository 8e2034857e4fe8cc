package port

import (
	"context"

	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
)

// ContentSourcePort reads entries from the headless CMS.
type ContentSourcePort interface {
	GetEntries(ctx context.Context, query *domain.EntriesQuery) (*domain.EntryCollection, error)
	// GetEntry returns nil, nil when the entry does not exist.
	GetEntry(ctx context.Context, id string, include int) (*domain.Entry, error)
}
