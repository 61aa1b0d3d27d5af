package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/storecraft/sales-order-service/internal/catalog/domain"
)

var ErrInvalidInput = errors.New("invalid input")

// Service manages the product catalog. Order creation only reads from
// it; the write side lives here.
type Service struct {
	log  *slog.Logger
	repo ProductRepository
}

func NewService(log *slog.Logger, repo ProductRepository) *Service {
	return &Service{log: log, repo: repo}
}

func (s *Service) CreateProduct(ctx context.Context, name string, price decimal.Decimal, stock int) (domain.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" || price.IsNegative() || stock < 0 {
		return domain.Product{}, ErrInvalidInput
	}

	p, err := s.repo.Create(ctx, domain.Product{Name: name, Price: price, Stock: stock})
	if err != nil {
		return domain.Product{}, err
	}
	s.log.Info("product created", "product_id", p.ID, "name", p.Name, "stock", p.Stock)
	return p, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, id)
}
