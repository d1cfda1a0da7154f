package knowledge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dileep-u-k/coach-gateway/internal/cache"
	"github.com/dileep-u-k/coach-gateway/internal/httpx"
)

func newTestClient(t *testing.T, h http.HandlerFunc, store cache.Cache) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{BaseURL: srv.URL + "/", APIKey: "k", TopK: 2, MinScore: 0.5}, store)
	require.NoError(t, err)
	return c.WithRetrier(&httpx.Retrier{Client: srv.Client(), MaxRetries: 2})
}

func TestSearch_FiltersAndCaches(t *testing.T) {
	var calls atomic.Int32
	store, err := cache.NewMemory()
	require.NoError(t, err)
	defer store.Close()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		var body struct {
			Query string `json:"query"`
			TopK  int    `json:"top_k"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "carb cycling", body.Query)
		assert.Equal(t, 2, body.TopK)
		_, _ = w.Write([]byte(`{"results":[
			{"content":"High days refill glycogen.","metadata":{"topic":"carb cycling"},"score":0.9},
			{"content":"Low days lean on fat.","score":0.6},
			{"content":"Unrelated.","score":0.2}
		]}`))
	}, store)

	refs, err := c.Search(context.Background(), "  carb cycling ")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "carb cycling", refs[0].Source())
	assert.Equal(t, "", refs[1].Source())

	refs, err = c.Search(context.Background(), "carb cycling")
	require.NoError(t, err)
	assert.Len(t, refs, 2)
	assert.Equal(t, int32(1), calls.Load(), "second search is served from cache")
}

func TestSearch_ScorelessResultsAreKept(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[
			{"content":"Protein helps recovery","metadata":{"source":"handbook"}},
			{"content":"Creatine is well studied","metadata":{"source":"faq"}}
		]}`))
	}, nil)

	refs, err := c.Search(context.Background(), "recovery")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "handbook", refs[0].Source())
	assert.Nil(t, refs[0].Score)
}

func TestSearch_OrdersBestFirst(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[
			{"content":"unranked"},
			{"content":"ok","score":0.6},
			{"content":"best","score":0.95}
		]}`))
	}, nil)

	refs, err := c.Search(context.Background(), "anything")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "best", refs[0].Content)
	assert.Equal(t, "ok", refs[1].Content)
}

func TestSearch_UnavailableIsWrapped(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, nil)

	_, err := c.Search(context.Background(), "protein timing")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSearch_EmptyQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}, nil)
	refs, err := c.Search(context.Background(), "   ")
	assert.NoError(t, err)
	assert.Empty(t, refs)
}

func TestNewClient_Defaults(t *testing.T) {
	_, err := NewClient(Config{}, nil)
	assert.Error(t, err)

	c, err := NewClient(Config{BaseURL: "http://kb"}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultTopK, c.config.TopK)
	assert.Equal(t, DefaultTimeout, c.config.Timeout)
	assert.Equal(t, 6*time.Hour, c.config.CacheTTL)
}
