package contentful

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/arch-mania/takanekaitori-prod/internal/contextkeys"
	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
	"github.com/arch-mania/takanekaitori-prod/internal/core/port"
)

const DefaultBaseURL = "https://cdn.contentful.com"

type Config struct {
	BaseURL     string
	SpaceID     string
	Environment string
	AccessToken string
	Timeout     time.Duration
}

// Client reads entries from the Content Delivery API.
type Client struct {
	entriesURL string
	token      string
	httpClient *http.Client
}

var _ port.ContentSourcePort = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	if cfg.SpaceID == "" || cfg.AccessToken == "" {
		return nil, errors.New("contentful: space id and access token are required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Environment == "" {
		cfg.Environment = "master"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	entriesURL, err := url.JoinPath(cfg.BaseURL, "spaces", cfg.SpaceID, "environments", cfg.Environment, "entries")
	if err != nil {
		return nil, fmt.Errorf("contentful: invalid base url: %w", err)
	}

	return &Client{
		entriesURL: entriesURL,
		token:      cfg.AccessToken,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// errNotFound is returned by fetch for a 404 response.
var errNotFound = errors.New("contentful: resource not found")

func (c *Client) fetch(ctx context.Context, params url.Values) (*collectionResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.entriesURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contentful request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr errorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("contentful returned status %d (%s): %s", resp.StatusCode, apiErr.Sys.ID, apiErr.Message)
		}
		return nil, fmt.Errorf("contentful returned status %d: %s", resp.StatusCode, string(body))
	}

	var collection collectionResponse
	if err := json.NewDecoder(resp.Body).Decode(&collection); err != nil {
		return nil, fmt.Errorf("failed to decode contentful response: %w", err)
	}
	return &collection, nil
}

func (c *Client) GetEntries(ctx context.Context, query *domain.EntriesQuery) (*domain.EntryCollection, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":    "ContentfulClient",
		"method":       "GetEntries",
		"content_type": query.ContentType,
	})

	started := time.Now()
	resp, err := c.fetch(ctx, query.Values())
	if err != nil {
		logger.Error("Failed to fetch entries", err, nil)
		return nil, err
	}

	r := newResolver(resp)
	items := make([]*domain.Entry, len(resp.Items))
	for i := range resp.Items {
		items[i] = r.entry(&resp.Items[i])
	}

	logger.Debug("Entries fetched", port.Fields{
		"items":       len(items),
		"total":       resp.Total,
		"duration_ms": time.Since(started).Milliseconds(),
	})

	return &domain.EntryCollection{Items: items, Total: resp.Total, Skip: resp.Skip, Limit: resp.Limit}, nil
}

// GetEntry looks the entry up through the collection endpoint so links get resolved to the
// requested depth.
func (c *Client) GetEntry(ctx context.Context, id string, include int) (*domain.Entry, error) {
	q := domain.NewEntriesQuery("").Eq("sys.id", id).Page(1, 0).WithInclude(include)
	collection, err := c.GetEntries(ctx, q)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(collection.Items) == 0 {
		return nil, nil
	}
	return collection.Items[0], nil
}
