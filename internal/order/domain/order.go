package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/storecraft/sales-order-service/internal/catalog/domain"
	customerdomain "github.com/storecraft/sales-order-service/internal/customer/domain"
)

var ErrNotFound = errors.New("order not found")

// LineRequest is one requested product quantity within an order request.
type LineRequest struct {
	ProductID string
	Quantity  int
}

// OrderRequest is the sole input to order creation.
type OrderRequest struct {
	CustomerID string
	Lines      []LineRequest
}

// Validate rejects malformed requests before any collaborator is called.
// Duplicate product ids are a caller error, not deduplicated.
func (r OrderRequest) Validate() error {
	if r.CustomerID == "" {
		return errors.New("customer id is required")
	}
	if len(r.Lines) == 0 {
		return errors.New("at least one line is required")
	}
	seen := make(map[string]struct{}, len(r.Lines))
	for _, ln := range r.Lines {
		if ln.ProductID == "" {
			return errors.New("line product id is required")
		}
		if ln.Quantity <= 0 {
			return fmt.Errorf("line %s: quantity must be positive", ln.ProductID)
		}
		if _, ok := seen[ln.ProductID]; ok {
			return fmt.Errorf("line %s: duplicate product id", ln.ProductID)
		}
		seen[ln.ProductID] = struct{}{}
	}
	return nil
}

// ProductIDs returns the requested product ids in request order. Ids are
// distinct once Validate has passed.
func (r OrderRequest) ProductIDs() []string {
	ids := make([]string, len(r.Lines))
	for i, ln := range r.Lines {
		ids[i] = ln.ProductID
	}
	return ids
}

// Demands converts the request lines into catalog demands.
func (r OrderRequest) Demands() []catalogdomain.Demand {
	demands := make([]catalogdomain.Demand, len(r.Lines))
	for i, ln := range r.Lines {
		demands[i] = catalogdomain.Demand{ProductID: ln.ProductID, Quantity: ln.Quantity}
	}
	return demands
}

// OrderLine carries the quantity and the unit price snapshot taken at
// creation time. It is never mutated once the order exists.
type OrderLine struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Order is the persisted aggregate. ID and CreatedAt are assigned by the
// order store on persist.
type Order struct {
	ID         string
	CustomerID string
	Lines      []OrderLine
	Total      decimal.Decimal
	CreatedAt  time.Time
}

// Assemble builds the order aggregate once reservation has succeeded.
// Lines preserve the order of the request and snapshot the unit price
// from the catalog at assembly time.
//
// A product id missing from the catalog yields a zero unit price instead
// of failing. By the time assembly runs, lookup and reservation have
// already guaranteed every line a matching product, so a zero snapshot
// here points at a data-integrity bug upstream; changing this to a hard
// failure needs its own review.
func Assemble(customer customerdomain.Customer, requested []LineRequest, catalog map[string]catalogdomain.Product) Order {
	lines := make([]OrderLine, len(requested))
	total := decimal.Zero
	for i, ln := range requested {
		price := decimal.Zero
		if p, ok := catalog[ln.ProductID]; ok {
			price = p.Price
		}
		lines[i] = OrderLine{
			ProductID: ln.ProductID,
			Quantity:  ln.Quantity,
			UnitPrice: price,
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(ln.Quantity))))
	}
	return Order{
		CustomerID: customer.ID,
		Lines:      lines,
		Total:      total,
	}
}
