// Package memory implements the customer repository over a mutex-guarded map.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/storecraft/sales-order-service/internal/customer/domain"
)

type CustomerStore struct {
	mu        sync.RWMutex
	customers map[string]domain.Customer
}

func NewCustomerStore() *CustomerStore {
	return &CustomerStore{customers: make(map[string]domain.Customer)}
}

func (s *CustomerStore) Create(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now().UTC()
	s.customers[c.ID] = c
	return c, nil
}

func (s *CustomerStore) FindByID(ctx context.Context, id string) (domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[id]
	if !ok {
		return domain.Customer{}, domain.ErrNotFound
	}
	return c, nil
}
