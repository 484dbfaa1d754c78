package shopapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
)

const testCDN = "https://cdn.example.com/content"

func newBackend(t *testing.T, hits *int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /product", func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			*hits++
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"total": 2,
			"items": []map[string]any{
				{"id": "a", "title": "Priced", "category": "other", "image": "/a.svg", "price": 100},
				{"id": "b", "title": "Priceless", "category": "other", "image": "/b.svg", "price": nil},
			},
		})
	})
	mux.HandleFunc("GET /product/a", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "a", "title": "Priced", "category": "other", "image": "/a.svg", "price": 100,
		})
	})
	mux.HandleFunc("GET /product/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "NotFound"})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestProductListResolvesImages(t *testing.T) {
	server := newBackend(t, nil)
	client := New(server.URL, testCDN, nil, 0)

	items, err := client.ProductList(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, testCDN+"/a.svg", items[0].Image)
	require.NotNil(t, items[0].Price)
	assert.Equal(t, 100.0, *items[0].Price)
	assert.Nil(t, items[1].Price)
}

func TestProductItemResolvesImage(t *testing.T) {
	server := newBackend(t, nil)
	client := New(server.URL, testCDN, nil, 0)

	item, err := client.ProductItem(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "a", item.ID)
	assert.Equal(t, testCDN+"/a.svg", item.Image)
}

func TestErrorBodyBecomesRejectionReason(t *testing.T) {
	server := newBackend(t, nil)
	client := New(server.URL, testCDN, nil, 0)

	_, err := client.ProductItem(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NotFound")
}

func TestStatusTextFallbackWhenBodyHasNoError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)
	client := New(server.URL, testCDN, nil, 0)

	_, err := client.ProductList(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Internal Server Error")
}

func TestCreateOrderSendsSnapshot(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/order", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "order-1", "total": 100})
	}))
	t.Cleanup(server.Close)
	client := New(server.URL, testCDN, nil, 0)

	result, err := client.CreateOrder(context.Background(), entity.Order{
		Total:   100,
		Items:   []string{"a"},
		Email:   "user@example.com",
		Phone:   "+100200300",
		Address: "Main st. 1",
		Payment: entity.PaymentCard,
	})
	require.NoError(t, err)
	assert.Equal(t, "order-1", result.ID)
	assert.Equal(t, 100.0, result.Total)

	assert.Equal(t, 100.0, got["total"])
	assert.Equal(t, []any{"a"}, got["items"])
	assert.Equal(t, "card", got["payment"])
}

func TestCreateOrderRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "total does not match item prices"})
	}))
	t.Cleanup(server.Close)
	client := New(server.URL, testCDN, nil, 0)

	_, err := client.CreateOrder(context.Background(), entity.Order{Total: 1, Items: []string{"a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "total does not match item prices")
}

// memCache is an in-memory cache.Cache used to verify read-through behavior.
type memCache struct {
	mu sync.Mutex
	m  map[string]string
}

func (c *memCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.m == nil {
		c.m = make(map[string]string)
	}
	c.m[key] = value
	return nil
}

func (c *memCache) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	return v, ok, nil
}

func (c *memCache) Key(operation, id string) string {
	if id == "" {
		return "test:" + operation
	}
	return "test:" + operation + ":" + id
}

func TestProductListServedFromCache(t *testing.T) {
	hits := 0
	server := newBackend(t, &hits)
	client := New(server.URL, testCDN, &memCache{}, time.Minute)

	first, err := client.ProductList(context.Background())
	require.NoError(t, err)
	second, err := client.ProductList(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, hits)
	assert.Equal(t, first, second)
}
