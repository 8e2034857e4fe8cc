package domain

import (
	"math"
	"strconv"
	"time"
)

// EntrySys is the system metadata of a CMS entry.
type EntrySys struct {
	ID          string
	ContentType string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Entry is a raw CMS entry. Link fields hold *Entry or *Asset once resolved,
// or a Link when the target was not included in the response.
type Entry struct {
	Sys    EntrySys
	Fields map[string]any
}

// Link is an unresolved reference to another entry or asset.
type Link struct {
	LinkType string
	ID       string
}

// Asset is a resolved media file.
type Asset struct {
	ID    string
	Title string
	URL   string
}

// EntryCollection is one page returned by the content source.
type EntryCollection struct {
	Items []*Entry
	Total int
	Skip  int
	Limit int
}

func (e *Entry) field(key string) any {
	if e == nil || e.Fields == nil {
		return nil
	}
	return e.Fields[key]
}

// Has reports whether the field is present and not null.
func (e *Entry) Has(key string) bool {
	return e.field(key) != nil
}

func (e *Entry) String(key string) string {
	switch v := e.field(key).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

func (e *Entry) Float(key string) float64 {
	switch v := e.field(key).(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func (e *Entry) Int(key string) int {
	return int(math.Round(e.Float(key)))
}

func (e *Entry) Bool(key string) bool {
	b, _ := e.field(key).(bool)
	return b
}

// Strings returns the string items of a list field; other items are skipped.
func (e *Entry) Strings(key string) []string {
	out := []string{}
	switch v := e.field(key).(type) {
	case []string:
		out = append(out, v...)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

// Time parses an RFC3339 or date-only field.
func (e *Entry) Time(key string) (time.Time, bool) {
	switch v := e.field(key).(type) {
	case time.Time:
		return v, !v.IsZero()
	case string:
		return ParseCMSTime(v)
	}
	return time.Time{}, false
}

// ParseCMSTime accepts the timestamp layouts the CMS emits.
func ParseCMSTime(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Link returns a resolved linked entry or nil.
func (e *Entry) Link(key string) *Entry {
	linked, _ := e.field(key).(*Entry)
	return linked
}

// Links returns the resolved linked entries of a list field. Broken links are dropped.
func (e *Entry) Links(key string) []*Entry {
	out := []*Entry{}
	switch v := e.field(key).(type) {
	case []*Entry:
		for _, linked := range v {
			if linked != nil {
				out = append(out, linked)
			}
		}
	case []any:
		for _, item := range v {
			if linked, ok := item.(*Entry); ok && linked != nil {
				out = append(out, linked)
			}
		}
	}
	return out
}

// Asset returns a resolved asset or nil.
func (e *Entry) Asset(key string) *Asset {
	a, _ := e.field(key).(*Asset)
	return a
}

// Assets returns the resolved assets of a list field.
func (e *Entry) Assets(key string) []*Asset {
	out := []*Asset{}
	switch v := e.field(key).(type) {
	case []*Asset:
		for _, a := range v {
			if a != nil {
				out = append(out, a)
			}
		}
	case []any:
		for _, item := range v {
			if a, ok := item.(*Asset); ok && a != nil {
				out = append(out, a)
			}
		}
	}
	return out
}

// LinkedNames flattens linked entries to their non-empty "name" fields.
func (e *Entry) LinkedNames(key string) []string {
	names := []string{}
	for _, linked := range e.Links(key) {
		if name := linked.String("name"); name != "" {
			names = append(names, name)
		}
	}
	return names
}
