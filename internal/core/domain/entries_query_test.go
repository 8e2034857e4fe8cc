package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntriesQuery_Values(t *testing.T) {
	q := NewEntriesQuery("property").
		In("fields.regions.sys.id", []string{"r1", "r2"}).
		Gte("fields.rent", "10").
		Exists("fields.pickupOrder", true).
		OrderBy("fields.rent", "-sys.createdAt").
		Fields("sys.id").
		Page(10, 20)

	v := q.Values()
	assert.Equal(t, "property", v.Get("content_type"))
	assert.Equal(t, "r1,r2", v.Get("fields.regions.sys.id[in]"))
	assert.Equal(t, "10", v.Get("fields.rent[gte]"))
	assert.Equal(t, "true", v.Get("fields.pickupOrder[exists]"))
	assert.Equal(t, "fields.rent,-sys.createdAt", v.Get("order"))
	assert.Equal(t, "sys.id", v.Get("select"))
	assert.Equal(t, "10", v.Get("limit"))
	assert.Equal(t, "20", v.Get("skip"))
	assert.False(t, v.Has("include"), "include is sent only when set")

	assert.Equal(t, "0", NewEntriesQuery("area").WithInclude(0).Values().Get("include"))
}

func TestEntriesQuery_KeyIgnoresPredicateOrder(t *testing.T) {
	a := NewEntriesQuery("property").Gte("fields.rent", "10").Lte("fields.rent", "50").Eq("fields.isNew", "true")
	b := NewEntriesQuery("property").Eq("fields.isNew", "true").Lte("fields.rent", "50").Gte("fields.rent", "10")
	assert.Equal(t, a.Key(), b.Key())

	c := NewEntriesQuery("property").Eq("fields.x", "1").Eq("fields.x", "2")
	d := NewEntriesQuery("property").Eq("fields.x", "2").Eq("fields.x", "1")
	assert.Equal(t, c.Key(), d.Key())

	assert.NotEqual(t, a.Key(), a.Clone().Page(10, 10).Key())
}

func TestEntriesQuery_CloneIsIndependent(t *testing.T) {
	q := NewEntriesQuery("property").Eq("fields.a", "1")
	c := q.Clone().Eq("fields.b", "2")

	assert.Len(t, q.Filters, 1)
	assert.Len(t, c.Filters, 2)
}

func TestBound(t *testing.T) {
	for in, want := range map[string]bool{NoLowerBound: false, NoUpperBound: false, "": false, "abc": false, "-1": false, "0": true, "30": true} {
		_, ok := Bound(in)
		assert.Equal(t, want, ok, in)
	}
}

func TestParseWalkingTime(t *testing.T) {
	assert.Equal(t, Walking3Min, ParseWalkingTime("3分以内"))
	assert.Equal(t, WalkingUnspecified, ParseWalkingTime("4分"))
	_, ok := WalkingUnspecified.Ceiling()
	assert.False(t, ok)
	c, ok := Walking15Min.Ceiling()
	assert.True(t, ok)
	assert.Equal(t, 15, c)
}
