package domain

import (
	"errors"
	"time"
)

// Customer is opaque to order creation; only its existence matters there.
type Customer struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}

var ErrNotFound = errors.New("customer not found")
