package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a finite-stock catalog entry. Order creation receives it as
// a read-only snapshot; only the catalog mutates it.
type Product struct {
	ID        string
	Name      string
	Price     decimal.Decimal
	Stock     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

var (
	ErrNotFound = errors.New("product not found")

	// ErrStockConflict means a conditional stock decrement found less
	// stock than the caller read. Callers may retry with fresh data.
	ErrStockConflict = errors.New("stock update conflict")
)
