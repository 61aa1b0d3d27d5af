package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	catalogdomain "github.com/storecraft/sales-order-service/internal/catalog/domain"
	customerdomain "github.com/storecraft/sales-order-service/internal/customer/domain"
	"github.com/storecraft/sales-order-service/internal/order/domain"
)

// Service is the order creation orchestrator. It sequences customer
// lookup, product lookup, stock reservation, stock decrement and order
// persistence, and it owns the single terminal outcome of each request:
// a persisted order or a rejection. It never retries and never partially
// commits; any failure before the stock decrement leaves every store
// untouched.
type Service struct {
	log       *slog.Logger
	customers CustomerRepository
	products  ProductRepository
	orders    OrderRepository
	tracer    trace.Tracer
}

func NewService(log *slog.Logger, customers CustomerRepository, products ProductRepository, orders OrderRepository) *Service {
	return &Service{
		log:       log,
		customers: customers,
		products:  products,
		orders:    orders,
		tracer:    otel.Tracer("order-service"),
	}
}

// CreateOrder runs the creation pipeline for one request. Domain
// rejections surface as *domain.RejectedError; collaborator faults that
// fit no rejection reason propagate wrapped.
func (s *Service) CreateOrder(ctx context.Context, req domain.OrderRequest) (domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "CreateOrder")
	defer span.End()

	if err := req.Validate(); err != nil {
		return domain.Order{}, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	customer, err := s.customers.FindByID(ctx, req.CustomerID)
	if errors.Is(err, customerdomain.ErrNotFound) {
		return domain.Order{}, domain.Reject(domain.ReasonInvalidCustomer)
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("find customer %s: %w", req.CustomerID, err)
	}

	ids := req.ProductIDs()
	found, err := s.products.FindAllByID(ctx, ids)
	if err != nil {
		return domain.Order{}, fmt.Errorf("find products: %w", err)
	}
	catalog := make(map[string]catalogdomain.Product, len(found))
	for _, p := range found {
		catalog[p.ID] = p
	}
	if len(catalog) < len(ids) {
		return domain.Order{}, domain.Reject(domain.ReasonInvalidProducts, missingIDs(ids, catalog)...)
	}

	// First stock pass: a line without a resolved product counts against
	// zero available stock. Any shortfall rejects the whole batch before
	// anything is written.
	var short []string
	for _, ln := range req.Lines {
		if catalog[ln.ProductID].Stock-ln.Quantity < 0 {
			short = append(short, ln.ProductID)
		}
	}
	if len(short) > 0 {
		return domain.Order{}, domain.Reject(domain.ReasonOutOfStock, short...)
	}

	// Authoritative check: the reservation recomputes the batch as a unit.
	newStock, err := catalogdomain.Reserve(req.Demands(), catalog)
	if err != nil {
		return domain.Order{}, domain.Reject(domain.ReasonOutOfStock, stockErrorIDs(err, ids)...)
	}
	s.log.Debug("stock reserved", "customer_id", customer.ID, "new_stock", newStock)

	// The store applies the decrements conditionally. A failure here is
	// indistinguishable from a concurrent order winning the same stock,
	// so it surfaces as out_of_stock either way.
	if _, err := s.products.UpdateQuantity(ctx, req.Demands()); err != nil {
		s.log.Warn("stock decrement not applied", "customer_id", customer.ID, "err", err)
		return domain.Order{}, domain.Reject(domain.ReasonOutOfStock, ids...)
	}

	assembled := domain.Assemble(customer, req.Lines, catalog)
	persisted, err := s.orders.Create(ctx, assembled)
	if err != nil {
		return domain.Order{}, fmt.Errorf("persist order: %w", err)
	}

	s.log.Info("order created",
		"order_id", persisted.ID,
		"customer_id", persisted.CustomerID,
		"lines", len(persisted.Lines),
		"total", persisted.Total,
	)
	return persisted, nil
}

// GetOrder fetches a persisted order with its lines.
func (s *Service) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	return s.orders.Get(ctx, id)
}

func missingIDs(requested []string, catalog map[string]catalogdomain.Product) []string {
	var missing []string
	for _, id := range requested {
		if _, ok := catalog[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

func stockErrorIDs(err error, fallback []string) []string {
	var unknown *catalogdomain.UnknownProductError
	if errors.As(err, &unknown) {
		return unknown.ProductIDs
	}
	var insufficient *catalogdomain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return insufficient.ProductIDs()
	}
	return fallback
}
