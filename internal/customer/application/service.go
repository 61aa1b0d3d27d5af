package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/storecraft/sales-order-service/internal/customer/domain"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	log  *slog.Logger
	repo CustomerRepository
}

func NewService(log *slog.Logger, repo CustomerRepository) *Service {
	return &Service{log: log, repo: repo}
}

func (s *Service) CreateCustomer(ctx context.Context, name, email string) (domain.Customer, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return domain.Customer{}, ErrInvalidInput
	}

	c, err := s.repo.Create(ctx, domain.Customer{Name: name, Email: email})
	if err != nil {
		return domain.Customer{}, err
	}
	s.log.Info("customer created", "customer_id", c.ID)
	return c, nil
}
