package contentful

import (
	"strings"

	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
)

// resolver turns a collection response into linked domain entries. Each entry is built once and
// registered before its fields are walked, so reference cycles end up as shared pointers.
type resolver struct {
	raw    map[string]*entryResponse
	assets map[string]*domain.Asset
	built  map[string]*domain.Entry
}

func newResolver(resp *collectionResponse) *resolver {
	r := &resolver{
		raw:    make(map[string]*entryResponse, len(resp.Items)+len(resp.Includes.Entry)),
		assets: make(map[string]*domain.Asset, len(resp.Includes.Asset)),
		built:  map[string]*domain.Entry{},
	}
	for i := range resp.Includes.Entry {
		r.raw[resp.Includes.Entry[i].Sys.ID] = &resp.Includes.Entry[i]
	}
	// top-level items win over includes with the same id
	for i := range resp.Items {
		r.raw[resp.Items[i].Sys.ID] = &resp.Items[i]
	}
	for _, a := range resp.Includes.Asset {
		r.assets[a.Sys.ID] = toAsset(a)
	}
	return r
}

func toAsset(a assetResponse) *domain.Asset {
	url := a.Fields.File.URL
	if strings.HasPrefix(url, "//") {
		url = "https:" + url
	}
	return &domain.Asset{ID: a.Sys.ID, Title: a.Fields.Title, URL: url}
}

func (r *resolver) entry(raw *entryResponse) *domain.Entry {
	if e, ok := r.built[raw.Sys.ID]; ok {
		return e
	}
	e := &domain.Entry{
		Sys: domain.EntrySys{
			ID:        raw.Sys.ID,
			CreatedAt: raw.Sys.CreatedAt,
			UpdatedAt: raw.Sys.UpdatedAt,
		},
		Fields: make(map[string]any, len(raw.Fields)),
	}
	if raw.Sys.ContentType != nil {
		e.Sys.ContentType = raw.Sys.ContentType.Sys.ID
	}
	r.built[raw.Sys.ID] = e

	for k, v := range raw.Fields {
		e.Fields[k] = r.value(v)
	}
	return e
}

func (r *resolver) value(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if link, ok := asLink(t); ok {
			return r.link(link)
		}
		out := make(map[string]any, len(t))
		for k, inner := range t {
			out[k] = r.value(inner)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, inner := range t {
			out[i] = r.value(inner)
		}
		return out
	default:
		return v
	}
}

func (r *resolver) link(l domain.Link) any {
	switch l.LinkType {
	case "Entry":
		if raw, ok := r.raw[l.ID]; ok {
			return r.entry(raw)
		}
	case "Asset":
		if a, ok := r.assets[l.ID]; ok {
			return a
		}
	}
	return l
}

// asLink recognizes {"sys": {"type": "Link", "linkType": ..., "id": ...}}.
func asLink(m map[string]any) (domain.Link, bool) {
	if len(m) != 1 {
		return domain.Link{}, false
	}
	sys, ok := m["sys"].(map[string]any)
	if !ok || sys["type"] != "Link" {
		return domain.Link{}, false
	}
	linkType, _ := sys["linkType"].(string)
	id, _ := sys["id"].(string)
	return domain.Link{LinkType: linkType, ID: id}, true
}
