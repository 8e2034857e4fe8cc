package contentful

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arch-mania/takanekaitori-prod/internal/contextkeys"
	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const propertiesPayload = `{
  "total": 31, "skip": 10, "limit": 10,
  "items": [{
    "sys": {"id": "p1", "type": "Entry", "createdAt": "2024-05-30T10:00:00Z",
            "contentType": {"sys": {"type": "Link", "linkType": "ContentType", "id": "property"}}},
    "fields": {
      "title": "渋谷 居抜き",
      "rent": 30,
      "regions": [
        {"sys": {"type": "Link", "linkType": "Entry", "id": "r1"}},
        {"sys": {"type": "Link", "linkType": "Entry", "id": "gone"}}
      ],
      "exteriorImages": [{"sys": {"type": "Link", "linkType": "Asset", "id": "a1"}}],
      "location": {"lat": 35.6, "lon": 139.7}
    }
  }],
  "includes": {
    "Entry": [
      {"sys": {"id": "r1", "type": "Entry", "contentType": {"sys": {"id": "region"}}},
       "fields": {"name": "渋谷区", "area": {"sys": {"type": "Link", "linkType": "Entry", "id": "area-1"}}}},
      {"sys": {"id": "area-1", "type": "Entry", "contentType": {"sys": {"id": "area"}}},
       "fields": {"name": "東京", "featured": {"sys": {"type": "Link", "linkType": "Entry", "id": "r1"}}}}
    ],
    "Asset": [
      {"sys": {"id": "a1", "type": "Asset"}, "fields": {"title": "外観", "file": {"url": "//images.ctfassets.net/x/front.jpg"}}}
    ]
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL, SpaceID: "space", Environment: "staging", AccessToken: "secret"})
	require.NoError(t, err)
	return c
}

func TestGetEntries_ResolvesIncludes(t *testing.T) {
	var gotPath, gotAuth, gotTrace string
	var gotQuery map[string][]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotTrace = r.Header.Get("X-Trace-ID")
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(propertiesPayload))
	})

	ctx := contextkeys.ContextWithTraceID(context.Background(), "trace-1")
	q := domain.NewEntriesQuery("property").In("fields.regions.sys.id", []string{"r1", "r2"}).Page(10, 10).WithInclude(2)

	res, err := c.GetEntries(ctx, q)
	require.NoError(t, err)

	assert.Equal(t, "/spaces/space/environments/staging/entries", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "trace-1", gotTrace)
	assert.Equal(t, []string{"r1,r2"}, gotQuery["fields.regions.sys.id[in]"])
	assert.Equal(t, []string{"2"}, gotQuery["include"])

	assert.Equal(t, 31, res.Total)
	assert.Equal(t, 10, res.Skip)
	require.Len(t, res.Items, 1)

	p := res.Items[0]
	assert.Equal(t, "property", p.Sys.ContentType)
	assert.Equal(t, 2024, p.Sys.CreatedAt.Year())
	assert.Equal(t, float64(30), p.Fields["rent"])

	regions := p.Links("regions")
	require.Len(t, regions, 1, "unresolved links are not entries")
	assert.Equal(t, "渋谷区", regions[0].String("name"))
	assert.Equal(t, domain.Link{LinkType: "Entry", ID: "gone"}, p.Fields["regions"].([]any)[1])

	area := regions[0].Link("area")
	require.NotNil(t, area)
	assert.Equal(t, "東京", area.String("name"))
	assert.Same(t, regions[0], area.Link("featured"), "cycles resolve to the same entry")

	images := p.Assets("exteriorImages")
	require.Len(t, images, 1)
	assert.Equal(t, "https://images.ctfassets.net/x/front.jpg", images[0].URL)

	loc, ok := p.Fields["location"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 35.6, loc["lat"])
}

func TestGetEntry(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("sys.id") {
		case "p1":
			_, _ = w.Write([]byte(propertiesPayload))
		case "deleted":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"sys": {"id": "NotFound"}, "message": "The resource could not be found."}`))
		default:
			_, _ = w.Write([]byte(`{"total": 0, "items": []}`))
		}
	})

	e, err := c.GetEntry(context.Background(), "p1", 2)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "p1", e.Sys.ID)

	e, err = c.GetEntry(context.Background(), "missing", 2)
	require.NoError(t, err)
	assert.Nil(t, e)

	e, err = c.GetEntry(context.Background(), "deleted", 2)
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestGetEntries_ErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"sys": {"id": "InvalidQuery"}, "message": "The query you sent was invalid."}`))
	})

	_, err := c.GetEntries(context.Background(), domain.NewEntriesQuery("property"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "InvalidQuery")
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient(Config{SpaceID: "space"})
	assert.Error(t, err)
}
