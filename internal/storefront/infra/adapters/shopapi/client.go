// Package shopapi implements ports.ShopAPI over the shop backend's JSON API.
//
// Wire contract:
//
//	GET  /product       -> {"total": n, "items": [...]}
//	GET  /product/{id}  -> single item
//	POST /order         -> accepted order, or {"error": "..."} on non-2xx
//
// Item image paths arrive relative and are resolved against the configured
// CDN origin before the items leave this package.
package shopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jcmexdev/storefront/internal/pkg/cache"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
)

const defaultTimeout = 10 * time.Second

// Ensure Client implements the port at compile time.
var _ ports.ShopAPI = (*Client)(nil)

// Client talks to the shop backend. Responses for catalog reads can be
// served from an optional cache; order submission always goes upstream.
type Client struct {
	httpClient *http.Client
	apiOrigin  string
	cdnOrigin  string
	cache      cache.Cache
	cacheTTL   time.Duration
}

// New creates a client for the backend at apiOrigin. cacheStore may be nil
// to disable catalog caching.
func New(apiOrigin, cdnOrigin string, cacheStore cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		apiOrigin:  apiOrigin,
		cdnOrigin:  cdnOrigin,
		cache:      cacheStore,
		cacheTTL:   cacheTTL,
	}
}

type productJSON struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Price       *float64 `json:"price"`
}

type productListJSON struct {
	Total int           `json:"total"`
	Items []productJSON `json:"items"`
}

type orderJSON struct {
	Total   float64  `json:"total"`
	Items   []string `json:"items"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone"`
	Address string   `json:"address"`
	Payment string   `json:"payment"`
}

type orderResultJSON struct {
	ID    string  `json:"id"`
	Total float64 `json:"total"`
}

type errorJSON struct {
	Error string `json:"error"`
}

// ProductList implements ports.ShopAPI.
func (c *Client) ProductList(ctx context.Context) ([]entity.Product, error) {
	body, err := c.cachedGet(ctx, "/product", "product-list", "")
	if err != nil {
		return nil, err
	}

	var list productListJSON
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("shopapi: decode product list: %w", err)
	}

	items := make([]entity.Product, len(list.Items))
	for i, p := range list.Items {
		items[i] = c.toEntity(p)
	}
	return items, nil
}

// ProductItem implements ports.ShopAPI.
func (c *Client) ProductItem(ctx context.Context, id string) (entity.Product, error) {
	body, err := c.cachedGet(ctx, "/product/"+url.PathEscape(id), "product", id)
	if err != nil {
		return entity.Product{}, err
	}

	var p productJSON
	if err := json.Unmarshal(body, &p); err != nil {
		return entity.Product{}, fmt.Errorf("shopapi: decode product %q: %w", id, err)
	}
	return c.toEntity(p), nil
}

// CreateOrder implements ports.ShopAPI.
func (c *Client) CreateOrder(ctx context.Context, order entity.Order) (entity.OrderResult, error) {
	payload := orderJSON{
		Total:   order.Total,
		Items:   order.Items,
		Email:   order.Email,
		Phone:   order.Phone,
		Address: order.Address,
		Payment: order.Payment,
	}
	if payload.Items == nil {
		payload.Items = []string{}
	}

	buf, err := json.Marshal(payload)
	if err != nil {
		return entity.OrderResult{}, fmt.Errorf("shopapi: encode order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiOrigin+"/order", bytes.NewReader(buf))
	if err != nil {
		return entity.OrderResult{}, fmt.Errorf("shopapi: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return entity.OrderResult{}, err
	}

	var result orderResultJSON
	if err := json.Unmarshal(body, &result); err != nil {
		return entity.OrderResult{}, fmt.Errorf("shopapi: decode order result: %w", err)
	}
	return entity.OrderResult{ID: result.ID, Total: result.Total}, nil
}

// cachedGet fetches path, serving and refreshing the cache when one is
// configured. Cache failures are non-fatal: the call falls through to the
// backend.
func (c *Client) cachedGet(ctx context.Context, path, operation, id string) ([]byte, error) {
	var key string
	if c.cache != nil {
		key = c.cache.Key(operation, id)
		if value, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			return []byte(value), nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiOrigin+path, nil)
	if err != nil {
		return nil, fmt.Errorf("shopapi: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, key, string(body), c.cacheTTL)
	}
	return body, nil
}

// do executes the request and returns the response body. Non-2xx responses
// become an error carrying the backend's {"error": ...} message, falling
// back to the HTTP status text when the body has none.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("shopapi: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("shopapi: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reason := http.StatusText(resp.StatusCode)
		var e errorJSON
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			reason = e.Error
		}
		return nil, fmt.Errorf("shopapi: %s %s: %s", req.Method, req.URL.Path, reason)
	}
	return body, nil
}

func (c *Client) toEntity(p productJSON) entity.Product {
	return entity.Product{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Image:       c.cdnOrigin + p.Image,
	}
}
