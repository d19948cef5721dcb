package interests

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chick-bot/models"
)

func TestHTTPFetcher(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    []models.FeedItem
		wantErr string
	}{
		{
			name:   "valid feed",
			status: http.StatusOK,
			body:   `[{"thread_id": 1135903241792651365, "role_id": 100}, {"thread_id": 2, "role_id": 200}]`,
			want: []models.FeedItem{
				{ThreadID: 1135903241792651365, RoleID: 100},
				{ThreadID: 2, RoleID: 200},
			},
		},
		{name: "empty feed", status: http.StatusOK, body: `[]`, want: []models.FeedItem{}},
		{name: "server error", status: http.StatusBadGateway, body: `oops`, wantErr: "unexpected status 502"},
		{name: "malformed json", status: http.StatusOK, body: `{"thread_id": 1`, wantErr: "decode interests"},
		{name: "wrong shape", status: http.StatusOK, body: `{"thread_id": 1, "role_id": 2}`, wantErr: "decode interests"},
		{name: "null body", status: http.StatusOK, body: `null`, wantErr: "feed is not a list"},
		{name: "empty item", status: http.StatusOK, body: `[{}]`, wantErr: "item 0 needs thread_id and role_id"},
		{name: "unknown fields only", status: http.StatusOK, body: `[{"foo": 1}]`, wantErr: "item 0 needs thread_id and role_id"},
		{name: "missing role", status: http.StatusOK, body: `[{"thread_id": 1, "role_id": 100}, {"thread_id": 2}]`, wantErr: "item 1 needs thread_id and role_id"},
		{name: "zero thread", status: http.StatusOK, body: `[{"thread_id": 0, "role_id": 100}]`, wantErr: "item 0 needs thread_id and role_id"},
		{name: "null item", status: http.StatusOK, body: `[null]`, wantErr: "item 0 needs thread_id and role_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			got, err := NewHTTPFetcher(srv.URL, srv.Client()).Fetch(context.Background())
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHTTPFetcherFeedsStore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"thread_id": 7, "role_id": 70}]`))
	}))
	defer srv.Close()

	store, _, reporter := newTestStore(t)
	store.Refresh(context.Background(), NewHTTPFetcher(srv.URL, nil).Fetch)

	interest, ok := store.Get(7)
	require.True(t, ok)
	assert.Equal(t, int64(70), interest.RoleID)
	assert.Empty(t, reporter.Messages())
}

func TestMalformedFeedKeepsSnapshot(t *testing.T) {
	for _, body := range []string{`null`, `[{}]`, `[{"foo": 1}]`} {
		t.Run(body, func(t *testing.T) {
			store, clock, reporter := newTestStore(t)
			ctx := context.Background()
			store.Refresh(ctx, feed(models.FeedItem{ThreadID: 1, RoleID: 100}))
			_, ok := store.TryNotify(1)
			require.True(t, ok)
			notifiedAt := clock.Now()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			store.Refresh(ctx, NewHTTPFetcher(srv.URL, srv.Client()).Fetch)

			assert.Equal(t, 1, store.Len())
			interest, ok := store.Get(1)
			require.True(t, ok)
			require.NotNil(t, interest.LastNotifiedAt)
			assert.Equal(t, notifiedAt, *interest.LastNotifiedAt)
			_, ok = store.Get(0)
			assert.False(t, ok)
			assert.Len(t, reporter.Messages(), 1)
		})
	}
}

func TestRefreshStalledFeedTimesOut(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	store, _, reporter := newTestStore(t)
	store.Refresh(context.Background(), feed(models.FeedItem{ThreadID: 1, RoleID: 100}))

	done := make(chan struct{})
	go func() {
		defer close(done)
		store.Refresh(context.Background(), WithTimeout(NewHTTPFetcher(srv.URL, nil).Fetch, 50*time.Millisecond))
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("refresh did not return after the fetch deadline")
	}
	_, ok := store.Get(1)
	assert.True(t, ok)
	require.Len(t, reporter.Messages(), 1)
	assert.Contains(t, reporter.Messages()[0], "deadline exceeded")
}

func TestWithTimeoutWithoutLimit(t *testing.T) {
	fetch := WithTimeout(func(ctx context.Context) ([]models.FeedItem, error) {
		_, hasDeadline := ctx.Deadline()
		assert.False(t, hasDeadline)
		return nil, nil
	}, 0)
	_, err := fetch(context.Background())
	assert.NoError(t, err)
}
