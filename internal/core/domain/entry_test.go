package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntry_Accessors(t *testing.T) {
	linked := &Entry{Sys: EntrySys{ID: "r1"}, Fields: map[string]any{"name": "渋谷区"}}
	e := &Entry{Fields: map[string]any{
		"title":   "物件",
		"rent":    float64(29.6),
		"area":    "12.5",
		"nan":     math.NaN(),
		"flag":    true,
		"strFlag": "true",
		"floors":  []any{"1", 2, "B1"},
		"regions": []any{linked, Link{LinkType: "Entry", ID: "gone"}, nil},
		"images":  []any{&Asset{URL: "https://x/1.jpg"}, "junk"},
		"date":    "2024-05-01",
		"null":    nil,
	}}

	assert.Equal(t, "物件", e.String("title"))
	assert.Equal(t, "29.6", e.String("rent"))
	assert.Equal(t, 30, e.Int("rent"))
	assert.Equal(t, 12.5, e.Float("area"))
	assert.Equal(t, 0.0, e.Float("nan"))
	assert.True(t, e.Bool("flag"))
	assert.False(t, e.Bool("strFlag"))
	assert.Equal(t, []string{"1", "B1"}, e.Strings("floors"))
	assert.Equal(t, []string{"渋谷区"}, e.LinkedNames("regions"))
	require.Len(t, e.Assets("images"), 1)
	assert.False(t, e.Has("null"))
	assert.False(t, e.Has("missing"))

	d, ok := e.Time("date")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), d)
}

func TestEntry_NilIsSafe(t *testing.T) {
	var e *Entry
	assert.Equal(t, "", e.String("title"))
	assert.Equal(t, 0, e.Int("rent"))
	assert.NotNil(t, e.Strings("floors"))
	assert.NotNil(t, e.Links("regions"))
	assert.Nil(t, e.Link("area"))
	_, ok := e.Time("date")
	assert.False(t, ok)
}

func TestParseCMSTime(t *testing.T) {
	for _, s := range []string{"2024-05-01T09:00:00Z", "2024-05-01T09:00:00.123+09:00", "2024-05-01T09:00", "2024-05-01"} {
		_, ok := ParseCMSTime(s)
		assert.True(t, ok, s)
	}
	_, ok := ParseCMSTime("yesterday")
	assert.False(t, ok)
}
