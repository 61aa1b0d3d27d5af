package application

import (
	"context"

	catalogdomain "github.com/storecraft/sales-order-service/internal/catalog/domain"
	customerdomain "github.com/storecraft/sales-order-service/internal/customer/domain"
	"github.com/storecraft/sales-order-service/internal/order/domain"
)

// CustomerRepository resolves customer ids.
type CustomerRepository interface {
	FindByID(ctx context.Context, id string) (customerdomain.Customer, error)
}

// ProductRepository resolves product ids and applies stock decrements.
// FindAllByID may return fewer products than requested when some ids are
// unknown. UpdateQuantity applies the whole batch atomically: every
// decrement succeeds with stock still sufficient, or nothing is written
// and catalogdomain.ErrStockConflict is returned.
type ProductRepository interface {
	FindAllByID(ctx context.Context, ids []string) ([]catalogdomain.Product, error)
	UpdateQuantity(ctx context.Context, demands []catalogdomain.Demand) ([]catalogdomain.Product, error)
}

// OrderRepository persists assembled orders, assigning id and timestamp.
type OrderRepository interface {
	Create(ctx context.Context, o domain.Order) (domain.Order, error)
	Get(ctx context.Context, id string) (domain.Order, error)
}
