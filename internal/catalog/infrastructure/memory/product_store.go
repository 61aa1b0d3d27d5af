// Package memory implements the product repository over a mutex-guarded
// map. The UpdateQuantity contract matches the postgres implementation:
// the whole batch applies or nothing does.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/storecraft/sales-order-service/internal/catalog/domain"
)

type ProductStore struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

func NewProductStore() *ProductStore {
	return &ProductStore{products: make(map[string]domain.Product)}
}

func (s *ProductStore) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.products[p.ID] = p
	return p, nil
}

func (s *ProductStore) Get(ctx context.Context, id string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, nil
}

// FindAllByID returns the known products among ids; unknown ids are
// simply absent from the result.
func (s *ProductStore) FindAllByID(ctx context.Context, ids []string) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// UpdateQuantity decrements stock for every demand under one lock. If
// any product is unknown or short, nothing is written and
// domain.ErrStockConflict is returned.
func (s *ProductStore) UpdateQuantity(ctx context.Context, demands []domain.Demand) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range demands {
		p, ok := s.products[d.ProductID]
		if !ok || p.Stock < d.Quantity {
			return nil, domain.ErrStockConflict
		}
	}

	now := time.Now().UTC()
	updated := make([]domain.Product, 0, len(demands))
	for _, d := range demands {
		p := s.products[d.ProductID]
		p.Stock -= d.Quantity
		p.UpdatedAt = now
		s.products[d.ProductID] = p
		updated = append(updated, p)
	}
	return updated, nil
}
