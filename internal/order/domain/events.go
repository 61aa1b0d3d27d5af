package domain

import "github.com/shopspring/decimal"

const EventOrderCreated = "OrderCreated"

type OrderCreatedLine struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderCreated is published through the outbox after the order commits.
type OrderCreated struct {
	OrderID    string             `json:"order_id"`
	CustomerID string             `json:"customer_id"`
	Total      decimal.Decimal    `json:"total"`
	Lines      []OrderCreatedLine `json:"lines"`
}

// NewOrderCreated derives the event from a persisted order.
func NewOrderCreated(o Order) OrderCreated {
	lines := make([]OrderCreatedLine, len(o.Lines))
	for i, ln := range o.Lines {
		lines[i] = OrderCreatedLine{
			ProductID: ln.ProductID,
			Quantity:  ln.Quantity,
			UnitPrice: ln.UnitPrice,
		}
	}
	return OrderCreated{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Total:      o.Total,
		Lines:      lines,
	}
}
