package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/lsnsvra/UPB-Pedia/internal/domain"
)

// ErrNotFound is returned by Product when the catalog has no record for
// the requested id. It is the only error callers are expected to branch on;
// every upstream failure is normalized into it or into empty results.
var ErrNotFound = errors.New("product not found")

// fallbackCategories is served when the categories endpoint is unreachable,
// so the navigation bar never renders empty.
var fallbackCategories = []string{"electronics", "jewelery", "men's clothing", "women's clothing"}

// Client wraps the external catalog API. Every call carries a bounded
// timeout, and transport failures degrade to empty results rather than
// propagating to handlers.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	log     *zap.Logger
	sfg     singleflight.Group // Collapses concurrent lookups of the same product
}

func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		timeout: timeout,
		log:     log,
	}
}

// Products returns every product in the catalog, or an empty slice when the
// upstream is unavailable.
func (c *Client) Products(ctx context.Context) []domain.Product {
	var products []domain.Product
	if err := c.getJSON(ctx, "/products", &products); err != nil {
		c.log.Warn("catalog products fetch failed", zap.Error(err))
		return nil
	}
	return products
}

// Product returns a single product or ErrNotFound. Upstream errors and
// non-200 responses also map to ErrNotFound.
func (c *Client) Product(ctx context.Context, id string) (*domain.Product, error) {
	v, err, _ := c.sfg.Do(id, func() (interface{}, error) {
		var p domain.Product
		if err := c.getJSON(ctx, "/products/"+url.PathEscape(id), &p); err != nil {
			c.log.Warn("catalog product fetch failed", zap.String("product_id", id), zap.Error(err))
			return nil, ErrNotFound
		}
		if p.ID == 0 && p.Title == "" {
			// fakestoreapi answers 200 with an empty body for unknown ids
			return nil, ErrNotFound
		}
		return &p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Product), nil
}

// ProductsByCategory returns the products of one category, empty on failure.
func (c *Client) ProductsByCategory(ctx context.Context, name string) []domain.Product {
	var products []domain.Product
	if err := c.getJSON(ctx, "/products/category/"+url.PathEscape(name), &products); err != nil {
		c.log.Warn("catalog category fetch failed", zap.String("category", name), zap.Error(err))
		return nil
	}
	return products
}

// Categories returns the category names, falling back to a hardcoded list
// when the upstream is unavailable.
func (c *Client) Categories(ctx context.Context) []string {
	var categories []string
	if err := c.getJSON(ctx, "/products/categories", &categories); err != nil {
		c.log.Warn("catalog categories fetch failed", zap.Error(err))
		return fallbackCategories
	}
	if len(categories) == 0 {
		return fallbackCategories
	}
	return categories
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode catalog response: %w", err)
	}
	return nil
}
