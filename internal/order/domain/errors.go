package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRequest marks malformed order requests (empty lines,
// non-positive quantities, duplicate product ids). A caller error, not
// a rejection.
var ErrInvalidRequest = errors.New("invalid order request")

// RejectReason classifies why order creation was rejected.
type RejectReason string

const (
	ReasonInvalidCustomer RejectReason = "invalid_customer"
	ReasonInvalidProducts RejectReason = "invalid_products"
	ReasonOutOfStock      RejectReason = "out_of_stock"
)

// RejectedError is the single terminal failure of order creation. It
// carries the reason and the offending product ids, when any. Faults
// from collaborators that do not fit the taxonomy propagate wrapped,
// not as a RejectedError.
type RejectedError struct {
	Reason     RejectReason
	ProductIDs []string
}

func (e *RejectedError) Error() string {
	if len(e.ProductIDs) == 0 {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Reason, strings.Join(e.ProductIDs, ", "))
}

// Reject builds a RejectedError for the given reason and product ids.
func Reject(reason RejectReason, productIDs ...string) *RejectedError {
	return &RejectedError{Reason: reason, ProductIDs: productIDs}
}
