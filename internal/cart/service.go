package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lorenagil/storefront-backend/pkg/db/models"
	pkgerrors "github.com/lorenagil/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartDTO is the transport shape of a session cart.
type CartDTO struct {
	Items []LineItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// Service exposes session cart operations keyed by the access-token ID.
type Service interface {
	Get(ctx context.Context, accessID string) (*CartDTO, error)
	Add(ctx context.Context, accessID string, productID uuid.UUID, qty int) (*CartDTO, error)
	UpdateQuantities(ctx context.Context, accessID string, quantities map[uuid.UUID]int) (*CartDTO, error)
	Remove(ctx context.Context, accessID string, productID uuid.UUID) (*CartDTO, error)
	Items(ctx context.Context, accessID string) ([]LineItem, error)
	Clear(ctx context.Context, accessID string) error
}

type cartStore interface {
	Load(ctx context.Context, accessID string) ([]LineItem, error)
	Save(ctx context.Context, accessID string, items []LineItem) error
	Clear(ctx context.Context, accessID string) error
}

type productReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	store    cartStore
	products productReader
}

// ServiceParams bundles the dependencies required to build a cart service.
type ServiceParams struct {
	Store    cartStore
	Products productReader
}

// NewService constructs a cart service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("cart store is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product reader is required")
	}
	return &service{store: params.Store, products: params.Products}, nil
}

func (s *service) Get(ctx context.Context, accessID string) (*CartDTO, error) {
	items, err := s.store.Load(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}
	return toDTO(items), nil
}

func (s *service) Add(ctx context.Context, accessID string, productID uuid.UUID, qty int) (*CartDTO, error) {
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}

	items, err := s.store.Load(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}

	items = AddItem(items, LineItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		UnitPrice:   product.Price,
		ImageURL:    product.ImageURL,
	}, qty)

	if err := s.store.Save(ctx, accessID, items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving cart")
	}
	return toDTO(items), nil
}

func (s *service) UpdateQuantities(ctx context.Context, accessID string, quantities map[uuid.UUID]int) (*CartDTO, error) {
	items, err := s.store.Load(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}

	items = UpdateQuantities(items, quantities)

	if err := s.store.Save(ctx, accessID, items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving cart")
	}
	return toDTO(items), nil
}

func (s *service) Remove(ctx context.Context, accessID string, productID uuid.UUID) (*CartDTO, error) {
	items, err := s.store.Load(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}

	items = RemoveItem(items, productID)

	if err := s.store.Save(ctx, accessID, items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving cart")
	}
	return toDTO(items), nil
}

func (s *service) Items(ctx context.Context, accessID string) ([]LineItem, error) {
	items, err := s.store.Load(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}
	return items, nil
}

func (s *service) Clear(ctx context.Context, accessID string) error {
	if err := s.store.Clear(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing cart")
	}
	return nil
}

func toDTO(items []LineItem) *CartDTO {
	if items == nil {
		items = []LineItem{}
	}
	return &CartDTO{
		Items: items,
		Total: ComputeTotal(items),
		Count: ItemCount(items),
	}
}
