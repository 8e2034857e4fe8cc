package domain

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// FieldOp is a predicate operator of the content delivery query language.
type FieldOp string

const (
	OpEq     FieldOp = ""
	OpIn     FieldOp = "[in]"
	OpGte    FieldOp = "[gte]"
	OpLte    FieldOp = "[lte]"
	OpExists FieldOp = "[exists]"
)

// FieldFilter is a single predicate on a nested field path such as "fields.rent".
type FieldFilter struct {
	Path  string
	Op    FieldOp
	Value string
}

// EntriesQuery describes a getEntries request.
type EntriesQuery struct {
	ContentType string
	Filters     []FieldFilter
	Order       []string
	Select      []string
	Limit       int
	Skip        int
	Include     int
}

// NewEntriesQuery starts a query for the given content type.
func NewEntriesQuery(contentType string) *EntriesQuery {
	return &EntriesQuery{ContentType: contentType, Include: -1}
}

// Clone returns a deep copy safe to modify.
func (q *EntriesQuery) Clone() *EntriesQuery {
	c := *q
	c.Filters = append([]FieldFilter(nil), q.Filters...)
	c.Order = append([]string(nil), q.Order...)
	c.Select = append([]string(nil), q.Select...)
	return &c
}

func (q *EntriesQuery) Where(path string, op FieldOp, value string) *EntriesQuery {
	q.Filters = append(q.Filters, FieldFilter{Path: path, Op: op, Value: value})
	return q
}

func (q *EntriesQuery) Eq(path, value string) *EntriesQuery {
	return q.Where(path, OpEq, value)
}

func (q *EntriesQuery) In(path string, values []string) *EntriesQuery {
	return q.Where(path, OpIn, strings.Join(values, ","))
}

func (q *EntriesQuery) Gte(path, value string) *EntriesQuery {
	return q.Where(path, OpGte, value)
}

func (q *EntriesQuery) Lte(path, value string) *EntriesQuery {
	return q.Where(path, OpLte, value)
}

func (q *EntriesQuery) Exists(path string, exists bool) *EntriesQuery {
	return q.Where(path, OpExists, strconv.FormatBool(exists))
}

func (q *EntriesQuery) OrderBy(fields ...string) *EntriesQuery {
	q.Order = fields
	return q
}

func (q *EntriesQuery) Fields(paths ...string) *EntriesQuery {
	q.Select = paths
	return q
}

func (q *EntriesQuery) Page(limit, skip int) *EntriesQuery {
	q.Limit = limit
	q.Skip = skip
	return q
}

func (q *EntriesQuery) WithInclude(depth int) *EntriesQuery {
	q.Include = depth
	return q
}

// Values renders the query as Content Delivery API parameters.
func (q *EntriesQuery) Values() url.Values {
	v := url.Values{}
	if q.ContentType != "" {
		v.Set("content_type", q.ContentType)
	}
	for _, f := range q.Filters {
		v.Add(f.Path+string(f.Op), f.Value)
	}
	if len(q.Order) > 0 {
		v.Set("order", strings.Join(q.Order, ","))
	}
	if len(q.Select) > 0 {
		v.Set("select", strings.Join(q.Select, ","))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Skip > 0 {
		v.Set("skip", strconv.Itoa(q.Skip))
	}
	if q.Include >= 0 {
		v.Set("include", strconv.Itoa(q.Include))
	}
	return v
}

// Key is a canonical representation independent of predicate order.
func (q *EntriesQuery) Key() string {
	// url.Values.Encode sorts by key; repeated keys keep insertion order, so sort values too.
	v := q.Values()
	for k := range v {
		if len(v[k]) > 1 {
			v[k] = slices.Sorted(slices.Values(v[k]))
		}
	}
	return v.Encode()
}
