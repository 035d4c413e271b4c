package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/lorenagil/storefront-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// OrderLineItemDTO is the transport shape of one order line.
type OrderLineItemDTO struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	ImageURL    *string         `json:"image_url,omitempty"`
}

// OrderDTO is the transport shape of a submitted order.
type OrderDTO struct {
	ID            uuid.UUID          `json:"id"`
	CustomerEmail string             `json:"customer_email"`
	CustomerName  string             `json:"customer_name"`
	CustomerPhone *string            `json:"customer_phone,omitempty"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	Status        string             `json:"status"`
	PlacedAt      time.Time          `json:"placed_at"`
	Items         []OrderLineItemDTO `json:"items"`
}

func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}

	items := make([]OrderLineItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderLineItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			ImageURL:    item.ImageURL,
		})
	}

	return &OrderDTO{
		ID:            o.ID,
		CustomerEmail: o.CustomerEmail,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		TotalAmount:   o.TotalAmount,
		Status:        o.Status.String(),
		PlacedAt:      o.PlacedAt,
		Items:         items,
	}
}

func FromModels(orders []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, *FromModel(&orders[i]))
	}
	return out
}
