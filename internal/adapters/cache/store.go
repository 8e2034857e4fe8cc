package cache

import (
	"context"
	"time"

	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
)

// Store keeps entry collections for a bounded time. Stored collections are shared between
// readers and must be treated as immutable.
type Store interface {
	Get(ctx context.Context, key string) (*domain.EntryCollection, bool, error)
	Set(ctx context.Context, key string, value *domain.EntryCollection, ttl time.Duration) error
}
