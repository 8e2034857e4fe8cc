package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/arch-mania/takanekaitori-prod/internal/constants"
	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
	"github.com/arch-mania/takanekaitori-prod/internal/core/port"
	"github.com/arch-mania/takanekaitori-prod/internal/core/search"

	"golang.org/x/sync/errgroup"
)

// taxonomyPageSize bounds taxonomy lists; they are small and fetched in one request.
const taxonomyPageSize = 1000

// findArea resolves an area entry by its URL slug.
func findArea(ctx context.Context, content port.ContentSourcePort, slug string) (*domain.Entry, error) {
	q := domain.NewEntriesQuery(constants.ContentTypeArea).
		Eq("fields.slug", slug).
		Page(1, 0)

	res, err := content.GetEntries(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch area %q: %w", slug, err)
	}
	if res == nil || len(res.Items) == 0 || res.Items[0] == nil {
		return nil, domain.ErrAreaNotFound
	}
	return res.Items[0], nil
}

func regionsQuery(areaID string) *domain.EntriesQuery {
	return domain.NewEntriesQuery(constants.ContentTypeRegion).
		Eq("fields.area.sys.id", areaID).
		OrderBy("fields.areaSearchOrder").
		Page(taxonomyPageSize, 0)
}

func orderedListQuery(contentType string) *domain.EntriesQuery {
	return domain.NewEntriesQuery(contentType).
		OrderBy("fields.order").
		Page(taxonomyPageSize, 0)
}

func fetchItems(ctx context.Context, content port.ContentSourcePort, q *domain.EntriesQuery) ([]*domain.Entry, error) {
	res, err := content.GetEntries(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s entries: %w", q.ContentType, err)
	}
	if res == nil {
		return []*domain.Entry{}, nil
	}
	return res.Items, nil
}

// loadTaxonomies fetches the regions of the area, cuisine types and restaurant types concurrently.
func loadTaxonomies(ctx context.Context, content port.ContentSourcePort, areaID string) (search.Taxonomies, error) {
	var regions, cuisineTypes, restaurantTypes []*domain.Entry

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		regions, err = fetchItems(gctx, content, regionsQuery(areaID))
		return err
	})
	g.Go(func() error {
		var err error
		cuisineTypes, err = fetchItems(gctx, content, orderedListQuery(constants.ContentTypeCuisineType))
		return err
	})
	g.Go(func() error {
		var err error
		restaurantTypes, err = fetchItems(gctx, content, orderedListQuery(constants.ContentTypeRestaurantType))
		return err
	})
	if err := g.Wait(); err != nil {
		return search.Taxonomies{}, err
	}

	return search.Taxonomies{
		Regions:         search.NewTaxonomy(regions, "areaSearchOrder"),
		CuisineTypes:    search.NewTaxonomy(cuisineTypes, "order"),
		RestaurantTypes: search.NewTaxonomy(restaurantTypes, "order"),
	}, nil
}

// fetchAll pages through every entry matching q, sequentially, until the reported total is
// reached or the source returns an empty page.
func fetchAll(ctx context.Context, content port.ContentSourcePort, q *domain.EntriesQuery) ([]*domain.Entry, error) {
	all := []*domain.Entry{}
	skip := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := content.GetEntries(ctx, q.Clone().Page(constants.FullScanPageSize, skip))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s entries at skip %d: %w", q.ContentType, skip, err)
		}
		if res == nil || len(res.Items) == 0 {
			return all, nil
		}
		all = append(all, res.Items...)
		skip += len(res.Items)
		if skip >= res.Total {
			return all, nil
		}
	}
}

// countInScope returns the number of listed properties of the regions and how many are new.
func countInScope(ctx context.Context, content port.ContentSourcePort, regionIDs []string, now time.Time) (domain.PropertyCounts, error) {
	var counts domain.PropertyCounts
	if len(regionIDs) == 0 {
		return counts, nil
	}
	scope := search.ScopeQuery(regionIDs, search.RetentionCutoff(now))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := content.GetEntries(gctx, scope.Clone().Fields("sys.id").Page(1, 0))
		if err != nil {
			return fmt.Errorf("failed to count properties: %w", err)
		}
		if res != nil {
			counts.TotalCount = res.Total
		}
		return nil
	})
	g.Go(func() error {
		q := scope.Clone().Fields("sys.id", "sys.createdAt", "fields.isNew", "fields.registrationDate")
		entries, err := fetchAll(gctx, content, q)
		if err != nil {
			return fmt.Errorf("failed to count new properties: %w", err)
		}
		counts.NewCount = search.CountNew(entries, now)
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.PropertyCounts{}, err
	}
	return counts, nil
}
