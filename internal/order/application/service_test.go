package application

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/storecraft/sales-order-service/internal/catalog/domain"
	catalogmemory "github.com/storecraft/sales-order-service/internal/catalog/infrastructure/memory"
	customerdomain "github.com/storecraft/sales-order-service/internal/customer/domain"
	customermemory "github.com/storecraft/sales-order-service/internal/customer/infrastructure/memory"
	"github.com/storecraft/sales-order-service/internal/order/domain"
	ordermemory "github.com/storecraft/sales-order-service/internal/order/infrastructure/memory"
)

type fixture struct {
	customers *customermemory.CustomerStore
	products  *catalogmemory.ProductStore
	orders    *ordermemory.OrderStore
	svc       *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		customers: customermemory.NewCustomerStore(),
		products:  catalogmemory.NewProductStore(),
		orders:    ordermemory.NewOrderStore(),
	}
	f.svc = NewService(slog.New(slog.DiscardHandler), f.customers, f.products, f.orders)
	return f
}

func (f *fixture) seedCustomer(t *testing.T) customerdomain.Customer {
	t.Helper()
	c, err := f.customers.Create(context.Background(), customerdomain.Customer{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	return c
}

func (f *fixture) seedProduct(t *testing.T, name, price string, stock int) catalogdomain.Product {
	t.Helper()
	p, err := f.products.Create(context.Background(), catalogdomain.Product{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	})
	require.NoError(t, err)
	return p
}

func rejected(t *testing.T, err error, reason domain.RejectReason) *domain.RejectedError {
	t.Helper()
	var rej *domain.RejectedError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, reason, rej.Reason)
	return rej
}

func TestCreateOrderHappyPath(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	customer := f.seedCustomer(t)
	p1 := f.seedProduct(t, "widget", "10.00", 5)

	o, err := f.svc.CreateOrder(ctx, domain.OrderRequest{
		CustomerID: customer.ID,
		Lines:      []domain.LineRequest{{ProductID: p1.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, o.ID)
	assert.Equal(t, customer.ID, o.CustomerID)
	require.Len(t, o.Lines, 1)
	assert.Equal(t, p1.ID, o.Lines[0].ProductID)
	assert.Equal(t, 3, o.Lines[0].Quantity)
	assert.True(t, o.Lines[0].UnitPrice.Equal(decimal.RequireFromString("10.00")))
	assert.False(t, o.CreatedAt.IsZero())

	got, err := f.products.Get(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)

	stored, err := f.svc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, stored.ID)
}

func TestCreateOrderPreservesLineOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	customer := f.seedCustomer(t)
	p1 := f.seedProduct(t, "widget", "10.00", 5)
	p2 := f.seedProduct(t, "gadget", "2.50", 8)

	o, err := f.svc.CreateOrder(ctx, domain.OrderRequest{
		CustomerID: customer.ID,
		Lines: []domain.LineRequest{
			{ProductID: p2.ID, Quantity: 4},
			{ProductID: p1.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.Len(t, o.Lines, 2)
	assert.Equal(t, p2.ID, o.Lines[0].ProductID)
	assert.Equal(t, p1.ID, o.Lines[1].ProductID)
	assert.True(t, o.Total.Equal(decimal.RequireFromString("20.00")))
}

func TestCreateOrderUnknownCustomer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p1 := f.seedProduct(t, "widget", "10.00", 5)

	_, err := f.svc.CreateOrder(ctx, domain.OrderRequest{
		CustomerID: "nobody",
		Lines:      []domain.LineRequest{{ProductID: p1.ID, Quantity: 1}},
	})
	rejected(t, err, domain.ReasonInvalidCustomer)

	got, err := f.products.Get(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	customer := f.seedCustomer(t)
	p1 := f.seedProduct(t, "widget", "10.00", 5)

	_, err := f.svc.CreateOrder(ctx, domain.OrderRequest{
		CustomerID: customer.ID,
		Lines: []domain.LineRequest{
			{ProductID: p1.ID, Quantity: 1},
			{ProductID: "P9", Quantity: 1},
		},
	})
	rej := rejected(t, err, domain.ReasonInvalidProducts)
	assert.Equal(t, []string{"P9"}, rej.ProductIDs)

	got, err := f.products.Get(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)
}

func TestCreateOrderOutOfStockLeavesBatchUntouched(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	customer := f.seedCustomer(t)
	p1 := f.seedProduct(t, "widget", "10.00", 2)
	p2 := f.seedProduct(t, "gadget", "2.50", 9)

	_, err := f.svc.CreateOrder(ctx, domain.OrderRequest{
		CustomerID: customer.ID,
		Lines: []domain.LineRequest{
			{ProductID: p2.ID, Quantity: 1},
			{ProductID: p1.ID, Quantity: 3},
		},
	})
	rej := rejected(t, err, domain.ReasonOutOfStock)
	assert.Equal(t, []string{p1.ID}, rej.ProductIDs)

	got1, err := f.products.Get(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got1.Stock)
	got2, err := f.products.Get(ctx, p2.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, got2.Stock, "no line of a failed batch may be decremented")
}

func TestCreateOrderInvalidRequest(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateOrder(context.Background(), domain.OrderRequest{
		CustomerID: "C1",
		Lines: []domain.LineRequest{
			{ProductID: "P1", Quantity: 1},
			{ProductID: "P1", Quantity: 2},
		},
	})
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
	var rej *domain.RejectedError
	assert.False(t, errors.As(err, &rej), "caller errors are not domain rejections")
}

// conflictingProducts simulates a concurrent order exhausting stock
// between validation and the decrement.
type conflictingProducts struct {
	*catalogmemory.ProductStore
}

func (c *conflictingProducts) UpdateQuantity(ctx context.Context, demands []catalogdomain.Demand) ([]catalogdomain.Product, error) {
	return nil, catalogdomain.ErrStockConflict
}

func TestCreateOrderLostRaceSurfacesAsOutOfStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	customer := f.seedCustomer(t)
	p1 := f.seedProduct(t, "widget", "10.00", 5)

	svc := NewService(slog.New(slog.DiscardHandler), f.customers, &conflictingProducts{f.products}, f.orders)
	_, err := svc.CreateOrder(ctx, domain.OrderRequest{
		CustomerID: customer.ID,
		Lines:      []domain.LineRequest{{ProductID: p1.ID, Quantity: 1}},
	})
	rejected(t, err, domain.ReasonOutOfStock)

	_, err = f.orders.Get(ctx, "any")
	assert.ErrorIs(t, err, domain.ErrNotFound, "no order may be persisted after a lost race")
}

// failingOrders simulates an order store fault, which must propagate
// unclassified rather than as a rejection.
type failingOrders struct {
	*ordermemory.OrderStore
}

var errStoreDown = errors.New("store unavailable")

func (f *failingOrders) Create(ctx context.Context, o domain.Order) (domain.Order, error) {
	return domain.Order{}, errStoreDown
}

func TestCreateOrderStoreFaultPropagatesUnclassified(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	customer := f.seedCustomer(t)
	p1 := f.seedProduct(t, "widget", "10.00", 5)

	svc := NewService(slog.New(slog.DiscardHandler), f.customers, f.products, &failingOrders{f.orders})
	_, err := svc.CreateOrder(ctx, domain.OrderRequest{
		CustomerID: customer.ID,
		Lines:      []domain.LineRequest{{ProductID: p1.ID, Quantity: 1}},
	})
	require.ErrorIs(t, err, errStoreDown)
	var rej *domain.RejectedError
	assert.False(t, errors.As(err, &rej))
}
