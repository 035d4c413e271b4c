package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/lorenagil/storefront-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// ProductDTO is the transport shape of a catalog listing.
type ProductDTO struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  *string         `json:"image_url,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ImageUpload carries a product image received with a create call.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name  string
	Price decimal.Decimal
	Image *ImageUpload
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}

	return &ProductDTO{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		ImageURL:  p.ImageURL,
		CreatedAt: p.CreatedAt,
	}
}

func FromModels(items []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(items))
	for i := range items {
		out = append(out, *FromModel(&items[i]))
	}
	return out
}
