package interests

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"

	"chick-bot/models"
)

// DefaultFeedURL serves the interests feed of junior.guru.
const DefaultFeedURL = "https://junior.guru/api/interests.json"

// HTTPClient performs HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPFetcher downloads the interests feed.
type HTTPFetcher struct {
	client HTTPClient
	url    string
}

// NewHTTPFetcher creates a fetcher for url. A nil client means a pooled
// cleanhttp client.
func NewHTTPFetcher(url string, client HTTPClient) *HTTPFetcher {
	if client == nil {
		client = cleanhttp.DefaultPooledClient()
	}
	if url == "" {
		url = DefaultFeedURL
	}
	return &HTTPFetcher{client: client, url: url}
}

// Fetch returns the feed items. Any non-2xx status or a body that is not
// a JSON array of items is an error.
func (f *HTTPFetcher) Fetch(ctx context.Context) ([]models.FeedItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, f.url)
	}

	return decodeFeed(io.LimitReader(resp.Body, 5*1024*1024))
}

// feedEntry mirrors models.FeedItem with pointers so missing fields can
// be told apart from zero.
type feedEntry struct {
	ThreadID *int64 `json:"thread_id"`
	RoleID   *int64 `json:"role_id"`
}

// decodeFeed parses the feed. The result replaces the whole snapshot, so
// a null body or an entry without a thread or role is rejected.
func decodeFeed(r io.Reader) ([]models.FeedItem, error) {
	var entries []feedEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode interests: %w", err)
	}
	if entries == nil {
		return nil, errors.New("decode interests: feed is not a list")
	}

	items := make([]models.FeedItem, 0, len(entries))
	for i, e := range entries {
		if e.ThreadID == nil || *e.ThreadID == 0 || e.RoleID == nil || *e.RoleID == 0 {
			return nil, fmt.Errorf("decode interests: item %d needs thread_id and role_id", i)
		}
		items = append(items, models.FeedItem{ThreadID: *e.ThreadID, RoleID: *e.RoleID})
	}
	return items, nil
}

// WithTimeout bounds every call of fetch by d. A d <= 0 leaves fetch
// unbounded.
func WithTimeout(fetch FetchFunc, d time.Duration) FetchFunc {
	if d <= 0 {
		return fetch
	}
	return func(ctx context.Context) ([]models.FeedItem, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return fetch(ctx)
	}
}
