package application

import (
	"context"

	"github.com/storecraft/sales-order-service/internal/customer/domain"
)

type CustomerRepository interface {
	Create(ctx context.Context, c domain.Customer) (domain.Customer, error)
	FindByID(ctx context.Context, id string) (domain.Customer, error)
}
