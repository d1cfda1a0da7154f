package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dileep-u-k/coach-gateway/internal/httpx"
	"github.com/dileep-u-k/coach-gateway/internal/intent"
)

// --- Product Lookup Tool Implementation ---

const ProductToolName = "product_lookup"

// ErrCatalogUnavailable wraps every failure to reach the product catalog.
var ErrCatalogUnavailable = errors.New("product catalog unavailable")

// ProductMatch is the catalog's answer to a search.
type ProductMatch struct {
	Context    string  `json:"context"`
	Confidence float64 `json:"confidence"`
	Found      bool    `json:"found"`
}

// Catalog searches the external product catalog.
type Catalog interface {
	Search(ctx context.Context, query string) (ProductMatch, error)
}

// HTTPCatalog calls the catalog service's search endpoint.
type HTTPCatalog struct {
	baseURL string
	apiKey  string
	retrier *httpx.Retrier
}

var _ Catalog = (*HTTPCatalog)(nil)

// NewHTTPCatalog creates a catalog client with its own timeout-bound HTTP client.
func NewHTTPCatalog(baseURL, apiKey string, timeout time.Duration) (*HTTPCatalog, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("product catalog URL cannot be empty")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid product catalog URL: %w", err)
	}
	return &HTTPCatalog{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		retrier: httpx.NewRetrier(timeout),
	}, nil
}

// WithRetrier replaces the retry policy. Tests use it to drop the backoff.
func (c *HTTPCatalog) WithRetrier(r *httpx.Retrier) *HTTPCatalog {
	c.retrier = r
	return c
}

func (c *HTTPCatalog) Search(ctx context.Context, query string) (ProductMatch, error) {
	params := url.Values{}
	params.Set("q", query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return ProductMatch{}, fmt.Errorf("failed to create catalog request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
	req.Header.Set("User-Agent", "Coach-Gateway/1.0")

	body, err := c.retrier.Do(req)
	if err != nil {
		return ProductMatch{}, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	var match ProductMatch
	if err := json.Unmarshal(body, &match); err != nil {
		return ProductMatch{}, fmt.Errorf("%w: failed to parse catalog response: %w", ErrCatalogUnavailable, err)
	}
	return match, nil
}

// ProductLookupTool answers product questions from the catalog.
type ProductLookupTool struct {
	catalog Catalog
}

var _ Tool = (*ProductLookupTool)(nil)

func NewProductLookupTool(catalog Catalog) *ProductLookupTool {
	return &ProductLookupTool{catalog: catalog}
}

func (t *ProductLookupTool) Definition() Definition {
	return NewDefinition(
		ProductToolName,
		"Searches the product catalog (supplements, equipment) for items relevant to the message.",
		intent.ProductLookup,
		true,
		standardSchema("The user's product question, used as the catalog search query."),
	)
}

func (t *ProductLookupTool) Execute(ctx context.Context, in Input) (any, error) {
	match, err := t.catalog.Search(ctx, in.Text)
	if err != nil {
		return nil, err
	}
	if !match.Found || strings.TrimSpace(match.Context) == "" {
		return nil, ErrNoData
	}
	return &match, nil
}
