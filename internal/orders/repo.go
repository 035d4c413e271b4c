package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/lorenagil/storefront-backend/pkg/db/models"
	"github.com/lorenagil/storefront-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository exposes order persistence. Writes run inside the caller's
// transaction so the order and its outbox row commit together.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateTx inserts the order together with its line items.
func (r *Repository) CreateTx(tx *gorm.DB, order *models.Order) error {
	return tx.Create(order).Error
}

// FindByIDTx loads the order with its line items inside a transaction.
func (r *Repository) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := tx.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatusTx sets the order status inside a transaction.
func (r *Repository) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status enums.OrderStatus) error {
	return tx.Model(&models.Order{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}

// FindByID loads the order with its line items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByCustomer returns the customer's orders, newest first.
func (r *Repository) ListByCustomer(ctx context.Context, email string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("customer_email = ?", email).
		Order("placed_at DESC, id").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
