package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/arch-mania/takanekaitori-prod/internal/constants"
	"github.com/arch-mania/takanekaitori-prod/internal/contextkeys"
	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
	"github.com/arch-mania/takanekaitori-prod/internal/core/port"

	"golang.org/x/sync/singleflight"
)

// TTLs configures cache lifetimes per data category. A zero value disables caching for it.
// FetchTimeout bounds a shared upstream fetch, which outlives the caller that started it.
type TTLs struct {
	Taxonomy     time.Duration
	Property     time.Duration
	FetchTimeout time.Duration
}

func DefaultTTLs() TTLs {
	return TTLs{
		Taxonomy:     constants.TaxonomyCacheTTL,
		Property:     constants.PropertyCacheTTL,
		FetchTimeout: constants.ContentFetchTimeout,
	}
}

// CachedContentSource decorates a content source with a Store. Concurrent misses for the same
// query share a single upstream request.
type CachedContentSource struct {
	next  port.ContentSourcePort
	store Store
	ttls  TTLs
	group singleflight.Group
}

var _ port.ContentSourcePort = (*CachedContentSource)(nil)

func NewCachedContentSource(next port.ContentSourcePort, store Store, ttls TTLs) *CachedContentSource {
	if ttls.FetchTimeout <= 0 {
		ttls.FetchTimeout = constants.ContentFetchTimeout
	}
	return &CachedContentSource{next: next, store: store, ttls: ttls}
}

func (c *CachedContentSource) ttlFor(contentType string) time.Duration {
	switch contentType {
	case constants.ContentTypeArea,
		constants.ContentTypeRegion,
		constants.ContentTypeStation,
		constants.ContentTypeRestaurantType,
		constants.ContentTypeCuisineType:
		return c.ttls.Taxonomy
	case constants.ContentTypeProperty:
		return c.ttls.Property
	default:
		return 0
	}
}

func (c *CachedContentSource) GetEntries(ctx context.Context, query *domain.EntriesQuery) (*domain.EntryCollection, error) {
	ttl := c.ttlFor(query.ContentType)
	if ttl <= 0 {
		return c.next.GetEntries(ctx, query)
	}

	key := "entries:" + query.Key()
	return c.load(ctx, key, func(ctx context.Context) (*domain.EntryCollection, time.Duration, error) {
		res, err := c.next.GetEntries(ctx, query)
		return res, ttl, err
	})
}

// GetEntry caches by id. The lifetime follows the content type of the returned entry; misses
// are not cached.
func (c *CachedContentSource) GetEntry(ctx context.Context, id string, include int) (*domain.Entry, error) {
	key := "entry:" + id + ":" + strconv.Itoa(include)
	res, err := c.load(ctx, key, func(ctx context.Context) (*domain.EntryCollection, time.Duration, error) {
		e, err := c.next.GetEntry(ctx, id, include)
		if err != nil || e == nil {
			return &domain.EntryCollection{}, 0, err
		}
		return &domain.EntryCollection{Items: []*domain.Entry{e}, Total: 1, Limit: 1}, c.ttlFor(e.Sys.ContentType), nil
	})
	if err != nil {
		return nil, err
	}
	if len(res.Items) == 0 {
		return nil, nil
	}
	return res.Items[0], nil
}

type loader func(ctx context.Context) (*domain.EntryCollection, time.Duration, error)

func (c *CachedContentSource) load(ctx context.Context, key string, fetch loader) (*domain.EntryCollection, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "CachedContentSource",
		"cache_key": key,
	})

	if hit, ok, err := c.store.Get(ctx, key); err != nil {
		logger.Warn("Cache read failed, falling back to CMS", port.Fields{"error": err.Error()})
	} else if ok {
		logger.Debug("Cache hit", nil)
		return hit, nil
	}

	// The shared fetch is detached from the request that started it. Each caller stops
	// waiting when its own context ends.
	ch := c.group.DoChan(key, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.ttls.FetchTimeout)
		defer cancel()

		res, ttl, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		if ttl > 0 {
			if err := c.store.Set(fetchCtx, key, res, ttl); err != nil {
				logger.Warn("Cache write failed", port.Fields{"error": err.Error()})
			}
		}
		return res, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load %s: %w", key, ctx.Err())
	case r := <-ch:
		if r.Err != nil {
			return nil, fmt.Errorf("load %s: %w", key, r.Err)
		}
		logger.Debug("Cache miss", port.Fields{"shared": r.Shared})
		return r.Val.(*domain.EntryCollection), nil
	}
}
