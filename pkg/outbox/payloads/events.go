package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLineItemSnapshot mirrors one line of the order as frozen at submission.
type OrderLineItemSnapshot struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

// OrderPlacedEvent carries the full order snapshot so downstream consumers
// can archive receipts without a read back to the database.
type OrderPlacedEvent struct {
	OrderID       uuid.UUID               `json:"order_id"`
	CustomerEmail string                  `json:"customer_email"`
	CustomerName  string                  `json:"customer_name"`
	CustomerPhone string                  `json:"customer_phone,omitempty"`
	TotalAmount   decimal.Decimal         `json:"total_amount"`
	PlacedAt      time.Time               `json:"placed_at"`
	Items         []OrderLineItemSnapshot `json:"items"`
}

// OrderSentEvent is emitted when an admin marks an order as dispatched.
type OrderSentEvent struct {
	OrderID       uuid.UUID `json:"order_id"`
	CustomerEmail string    `json:"customer_email"`
	SentAt        time.Time `json:"sent_at"`
}
