package domain

import (
	"fmt"
	"strings"
)

// Demand is one requested product quantity.
type Demand struct {
	ProductID string
	Quantity  int
}

// Shortfall names a product whose demand exceeds its available stock.
type Shortfall struct {
	ProductID string
	Requested int
	Available int
}

// UnknownProductError reports demands for ids absent from the catalog
// snapshot.
type UnknownProductError struct {
	ProductIDs []string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("unknown products: %s", strings.Join(e.ProductIDs, ", "))
}

// InsufficientStockError reports every demand the batch cannot satisfy.
type InsufficientStockError struct {
	Shortfalls []Shortfall
}

func (e *InsufficientStockError) Error() string {
	ids := make([]string, len(e.Shortfalls))
	for i, s := range e.Shortfalls {
		ids[i] = fmt.Sprintf("%s (requested %d, available %d)", s.ProductID, s.Requested, s.Available)
	}
	return "insufficient stock: " + strings.Join(ids, ", ")
}

func (e *InsufficientStockError) ProductIDs() []string {
	ids := make([]string, len(e.Shortfalls))
	for i, s := range e.Shortfalls {
		ids[i] = s.ProductID
	}
	return ids
}

// Reserve validates a batch of demands against a catalog snapshot and
// computes the decremented stock per requested product. The batch either
// fully succeeds or fully fails; the catalog itself is never mutated.
// Products that were not requested are not returned.
func Reserve(requested []Demand, catalog map[string]Product) (map[string]int, error) {
	var unknown []string
	for _, d := range requested {
		if _, ok := catalog[d.ProductID]; !ok {
			unknown = append(unknown, d.ProductID)
		}
	}
	if len(unknown) > 0 {
		return nil, &UnknownProductError{ProductIDs: unknown}
	}

	var short []Shortfall
	newStock := make(map[string]int, len(requested))
	for _, d := range requested {
		p := catalog[d.ProductID]
		remaining := p.Stock - d.Quantity
		if remaining < 0 {
			short = append(short, Shortfall{
				ProductID: d.ProductID,
				Requested: d.Quantity,
				Available: p.Stock,
			})
			continue
		}
		newStock[d.ProductID] = remaining
	}
	if len(short) > 0 {
		return nil, &InsufficientStockError{Shortfalls: short}
	}

	return newStock, nil
}
