package ports

import (
	"context"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
)

// ShopAPI is the port to the shop backend. The HTTP adapter lives in
// infra/adapters/shopapi; tests use in-memory fakes.
type ShopAPI interface {
	// ProductList fetches the full catalog with image references resolved
	// to absolute form.
	ProductList(ctx context.Context) ([]entity.Product, error)
	// ProductItem fetches a single catalog item, same image resolution.
	ProductItem(ctx context.Context, id string) (entity.Product, error)
	// CreateOrder submits an order snapshot and returns the backend's
	// acknowledgement. There is no retry: failures surface to the caller,
	// whose policy is to log and abandon.
	CreateOrder(ctx context.Context, order entity.Order) (entity.OrderResult, error)
}
