// Package knowledge consumes the external knowledge-base search service.
// Retrieval is best-effort: callers treat an error as "no references".
package knowledge

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/dileep-u-k/coach-gateway/internal/cache"
	"github.com/dileep-u-k/coach-gateway/internal/httpx"
)

const (
	resultCachePrefix = "knowledge:"

	DefaultTopK     = 4
	DefaultMinScore = 0.35
	DefaultTimeout  = 5 * time.Second
	DefaultCacheTTL = 6 * time.Hour
)

// ErrUnavailable wraps every failure to reach the search service.
var ErrUnavailable = errors.New("knowledge service unavailable")

// Reference is one retrieved passage. Score is optional; services that do
// not rank their results leave it out.
type Reference struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Score    *float64       `json:"score,omitempty"`
}

// Source returns the "source" or "topic" metadata, if any.
func (r Reference) Source() string {
	for _, k := range []string{"source", "topic", "title"} {
		if v, ok := r.Metadata[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// Searcher finds reference passages for a query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Reference, error)
}

// Config holds the search service settings.
type Config struct {
	BaseURL  string
	APIKey   string
	TopK     int
	MinScore float64
	Timeout  time.Duration
	CacheTTL time.Duration
}

// Client calls the search service and caches its answers.
type Client struct {
	config  Config
	retrier *httpx.Retrier
	cache   cache.Cache
}

var _ Searcher = (*Client)(nil)

// NewClient builds a client. store may be nil to disable caching.
func NewClient(cfg Config, store cache.Cache) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("knowledge service URL must be set")
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{config: cfg, retrier: httpx.NewRetrier(cfg.Timeout), cache: store}, nil
}

// WithRetrier replaces the retry policy.
func (c *Client) WithRetrier(r *httpx.Retrier) *Client {
	c.retrier = r
	return c
}

// Search returns up to TopK passages. Scored passages below MinScore are
// dropped and the rest come best first; unscored passages follow in the
// order the service returned them.
func (c *Client) Search(ctx context.Context, query string) ([]Reference, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	cacheKey := cache.Key(resultCachePrefix, fmt.Sprint(c.config.TopK), query)
	if c.cache != nil {
		refs, ok, err := cache.GetJSON[[]Reference](ctx, c.cache, cacheKey)
		if err != nil {
			log.Printf("Knowledge cache GET error: %v", err)
		} else if ok {
			return c.filter(refs), nil
		}
	}

	type apiRequest struct {
		Query string `json:"query"`
		TopK  int    `json:"top_k"`
	}
	type apiResponse struct {
		Results []Reference `json:"results"`
	}

	payload, err := json.Marshal(apiRequest{Query: query, TopK: c.config.TopK})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal knowledge request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create knowledge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	body, err := c.retrier.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal response: %w", ErrUnavailable, err)
	}

	if c.cache != nil {
		if err := cache.SetJSON(ctx, c.cache, cacheKey, resp.Results, c.config.CacheTTL); err != nil {
			log.Printf("Knowledge cache SET error: %v", err)
		}
	}
	return c.filter(resp.Results), nil
}

func (c *Client) filter(refs []Reference) []Reference {
	out := make([]Reference, 0, len(refs))
	for _, r := range refs {
		if strings.TrimSpace(r.Content) == "" {
			continue
		}
		if r.Score != nil && *r.Score < c.config.MinScore {
			continue
		}
		out = append(out, r)
	}
	slices.SortStableFunc(out, func(a, b Reference) int {
		return cmp.Compare(rank(b), rank(a))
	})
	if len(out) > c.config.TopK {
		out = out[:c.config.TopK]
	}
	return out
}

func rank(r Reference) float64 {
	if r.Score == nil {
		return math.Inf(-1)
	}
	return *r.Score
}
