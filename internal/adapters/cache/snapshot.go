package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
)

// A snapshot stores every reachable entry once, keyed by id. References inside field values
// are written as single-key marker objects.
const (
	markerEntry = "$entry"
	markerAsset = "$asset"
	markerLink  = "$link"
)

type snapshotEntry struct {
	ID          string         `json:"id"`
	ContentType string         `json:"contentType,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	Fields      map[string]any `json:"fields"`
}

type snapshot struct {
	Total   int                       `json:"total"`
	Skip    int                       `json:"skip"`
	Limit   int                       `json:"limit"`
	Items   []string                  `json:"items"`
	Entries map[string]*snapshotEntry `json:"entries"`
}

func encodeSnapshot(c *domain.EntryCollection) ([]byte, error) {
	s := &snapshot{
		Total:   c.Total,
		Skip:    c.Skip,
		Limit:   c.Limit,
		Items:   make([]string, 0, len(c.Items)),
		Entries: map[string]*snapshotEntry{},
	}
	for _, e := range c.Items {
		if e == nil {
			continue
		}
		s.Items = append(s.Items, e.Sys.ID)
		s.flatten(e)
	}
	return json.Marshal(s)
}

func (s *snapshot) flatten(e *domain.Entry) {
	if _, ok := s.Entries[e.Sys.ID]; ok {
		return
	}
	se := &snapshotEntry{
		ID:          e.Sys.ID,
		ContentType: e.Sys.ContentType,
		CreatedAt:   e.Sys.CreatedAt,
		UpdatedAt:   e.Sys.UpdatedAt,
		Fields:      make(map[string]any, len(e.Fields)),
	}
	s.Entries[e.Sys.ID] = se
	for k, v := range e.Fields {
		se.Fields[k] = s.flattenValue(v)
	}
}

func (s *snapshot) flattenValue(v any) any {
	switch t := v.(type) {
	case *domain.Entry:
		if t == nil {
			return nil
		}
		s.flatten(t)
		return map[string]any{markerEntry: t.Sys.ID}
	case *domain.Asset:
		if t == nil {
			return nil
		}
		return map[string]any{markerAsset: map[string]any{"id": t.ID, "title": t.Title, "url": t.URL}}
	case domain.Link:
		return map[string]any{markerLink: map[string]any{"linkType": t.LinkType, "id": t.ID}}
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, inner := range t {
			out[k] = s.flattenValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, inner := range t {
			out[i] = s.flattenValue(inner)
		}
		return out
	default:
		return v
	}
}

func decodeSnapshot(raw []byte) (*domain.EntryCollection, error) {
	var s snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode cached collection: %w", err)
	}

	built := make(map[string]*domain.Entry, len(s.Entries))
	for id, se := range s.Entries {
		built[id] = &domain.Entry{
			Sys: domain.EntrySys{
				ID:          se.ID,
				ContentType: se.ContentType,
				CreatedAt:   se.CreatedAt,
				UpdatedAt:   se.UpdatedAt,
			},
		}
	}
	for id, se := range s.Entries {
		fields := make(map[string]any, len(se.Fields))
		for k, v := range se.Fields {
			fields[k] = expandValue(v, built)
		}
		built[id].Fields = fields
	}

	c := &domain.EntryCollection{Total: s.Total, Skip: s.Skip, Limit: s.Limit, Items: make([]*domain.Entry, 0, len(s.Items))}
	for _, id := range s.Items {
		if e, ok := built[id]; ok {
			c.Items = append(c.Items, e)
		}
	}
	return c, nil
}

func expandValue(v any, built map[string]*domain.Entry) any {
	switch t := v.(type) {
	case map[string]any:
		if len(t) == 1 {
			if id, ok := t[markerEntry].(string); ok {
				if e, ok := built[id]; ok {
					return e
				}
				return domain.Link{LinkType: "Entry", ID: id}
			}
			if a, ok := t[markerAsset].(map[string]any); ok {
				return &domain.Asset{ID: str(a["id"]), Title: str(a["title"]), URL: str(a["url"])}
			}
			if l, ok := t[markerLink].(map[string]any); ok {
				return domain.Link{LinkType: str(l["linkType"]), ID: str(l["id"])}
			}
		}
		out := make(map[string]any, len(t))
		for k, inner := range t {
			out[k] = expandValue(inner, built)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, inner := range t {
			out[i] = expandValue(inner, built)
		}
		return out
	default:
		return v
	}
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
