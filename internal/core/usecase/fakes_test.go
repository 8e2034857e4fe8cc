package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// fakeContent serves entries per content type. It understands only the slug equality used to
// look up areas and paging; every other predicate is recorded, not evaluated.
type fakeContent struct {
	mu      sync.Mutex
	entries map[string][]*domain.Entry
	byID    map[string]*domain.Entry
	queries []*domain.EntriesQuery
	failOn  string
}

func newFakeContent() *fakeContent {
	return &fakeContent{entries: map[string][]*domain.Entry{}, byID: map[string]*domain.Entry{}}
}

func (f *fakeContent) add(contentType string, entries ...*domain.Entry) {
	for _, e := range entries {
		e.Sys.ContentType = contentType
		f.entries[contentType] = append(f.entries[contentType], e)
		f.byID[e.Sys.ID] = e
	}
}

func (f *fakeContent) GetEntries(ctx context.Context, q *domain.EntriesQuery) (*domain.EntryCollection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.queries = append(f.queries, q.Clone())
	if q.ContentType == f.failOn {
		return nil, errors.New("cms unavailable")
	}

	all := []*domain.Entry{}
	for _, e := range f.entries[q.ContentType] {
		if slug, ok := eqFilter(q, "fields.slug"); ok && e.String("slug") != slug {
			continue
		}
		all = append(all, e)
	}

	start := min(q.Skip, len(all))
	end := len(all)
	if q.Limit > 0 {
		end = min(start+q.Limit, len(all))
	}
	return &domain.EntryCollection{Items: all[start:end], Total: len(all), Skip: q.Skip, Limit: q.Limit}, nil
}

func (f *fakeContent) GetEntry(ctx context.Context, id string, include int) (*domain.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "entry" {
		return nil, errors.New("cms unavailable")
	}
	return f.byID[id], nil
}

func (f *fakeContent) queriesFor(contentType string) []*domain.EntriesQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.EntriesQuery{}
	for _, q := range f.queries {
		if q.ContentType == contentType {
			out = append(out, q)
		}
	}
	return out
}

func eqFilter(q *domain.EntriesQuery, path string) (string, bool) {
	for _, flt := range q.Filters {
		if flt.Path == path && flt.Op == domain.OpEq {
			return flt.Value, true
		}
	}
	return "", false
}

func entry(id string, fields map[string]any) *domain.Entry {
	if fields == nil {
		fields = map[string]any{}
	}
	return &domain.Entry{Sys: domain.EntrySys{ID: id, CreatedAt: testNow.AddDate(0, -1, 0)}, Fields: fields}
}

func named(id, name string, extra map[string]any) *domain.Entry {
	fields := map[string]any{"name": name}
	for k, v := range extra {
		fields[k] = v
	}
	return entry(id, fields)
}

// seedArea registers the "tokyo" area with two regions and a few taxonomies.
func seedArea(f *fakeContent) (shibuya, minato *domain.Entry) {
	f.add("area", entry("area-1", map[string]any{"slug": "tokyo", "name": "東京", "placeholder": "駅名・エリア"}))
	shibuya = named("r-shibuya", "渋谷区", map[string]any{"order": float64(2), "areaSearchOrder": float64(1)})
	minato = named("r-minato", "港区", map[string]any{"order": float64(1), "areaSearchOrder": float64(2)})
	f.add("region", shibuya, minato)
	f.add("cuisineType", named("c-cafe", "カフェ", map[string]any{"order": float64(1)}), named("c-bar", "バー", map[string]any{"order": float64(2)}))
	f.add("restaurantType", named("t-light", "軽飲食", nil))
	return shibuya, minato
}

func propertyEntry(id string, region *domain.Entry, fields map[string]any) *domain.Entry {
	e := entry(id, fields)
	e.Fields["regions"] = []any{region}
	if _, ok := e.Fields["title"]; !ok {
		e.Fields["title"] = "物件 " + id
	}
	return e
}

type fakeMailer struct {
	mu     sync.Mutex
	sent   []domain.Email
	failTo map[string]bool
}

func (m *fakeMailer) Send(ctx context.Context, email domain.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failTo[email.To] {
		return fmt.Errorf("smtp: rejected %s", email.To)
	}
	m.sent = append(m.sent, email)
	return nil
}

type fakeLeads struct {
	saved []*domain.Lead
	err   error
}

func (r *fakeLeads) Save(ctx context.Context, lead *domain.Lead) error {
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, lead)
	return nil
}

func (r *fakeLeads) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	for _, l := range r.saved {
		if l.ID.String() == id {
			return l, nil
		}
	}
	return nil, nil
}

type fakePublisher struct {
	published []*domain.Lead
	err       error
}

func (p *fakePublisher) PublishLeadSubmitted(ctx context.Context, lead *domain.Lead) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, lead)
	return nil
}
