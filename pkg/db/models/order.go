package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lorenagil/storefront-backend/pkg/enums"
)

// Order captures a submitted order with the customer details frozen at
// submission time.
type Order struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	CustomerEmail string            `gorm:"column:customer_email;not null;index"`
	CustomerName  string            `gorm:"column:customer_name;not null"`
	CustomerPhone *string           `gorm:"column:customer_phone"`
	TotalAmount   decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Status        enums.OrderStatus `gorm:"column:status;type:text;not null;default:'Processing'"`
	PlacedAt      time.Time         `gorm:"column:placed_at;not null"`
	Items         []OrderLineItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string {
	return "orders"
}
