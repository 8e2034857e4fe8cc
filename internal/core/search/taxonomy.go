package search

import (
	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
)

// Taxonomy is a per-request bidirectional name/id lookup of one taxonomy list.
type Taxonomy struct {
	items  []domain.TaxonomyItem
	byName map[string]string
	byID   map[string]string
}

// NewTaxonomy indexes entries by their "name" field. Entries without a name are skipped;
// on duplicate names the first entry wins.
func NewTaxonomy(entries []*domain.Entry, orderField string) *Taxonomy {
	t := &Taxonomy{
		items:  make([]domain.TaxonomyItem, 0, len(entries)),
		byName: make(map[string]string, len(entries)),
		byID:   make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		if e == nil {
			continue
		}
		name := e.String("name")
		if name == "" || e.Sys.ID == "" {
			continue
		}
		item := domain.TaxonomyItem{ID: e.Sys.ID, Name: name}
		if orderField != "" {
			item.Order = e.Int(orderField)
		}
		t.items = append(t.items, item)
		if _, dup := t.byName[name]; !dup {
			t.byName[name] = e.Sys.ID
		}
		t.byID[e.Sys.ID] = name
	}
	return t
}

// IDs resolves names to ids in input order; unknown names are dropped.
func (t *Taxonomy) IDs(names []string) []string {
	if t == nil {
		return []string{}
	}
	ids := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		id, ok := t.byName[n]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// Name returns the display name of an id.
func (t *Taxonomy) Name(id string) (string, bool) {
	if t == nil {
		return "", false
	}
	n, ok := t.byID[id]
	return n, ok
}

// AllIDs returns every id in list order.
func (t *Taxonomy) AllIDs() []string {
	if t == nil {
		return []string{}
	}
	ids := make([]string, 0, len(t.items))
	for _, it := range t.items {
		ids = append(ids, it.ID)
	}
	return ids
}

func (t *Taxonomy) Items() []domain.TaxonomyItem {
	if t == nil {
		return []domain.TaxonomyItem{}
	}
	return append([]domain.TaxonomyItem{}, t.items...)
}

func (t *Taxonomy) Len() int {
	if t == nil {
		return 0
	}
	return len(t.items)
}
