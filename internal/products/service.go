package products

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/lorenagil/storefront-backend/pkg/config"
	"github.com/lorenagil/storefront-backend/pkg/db/models"
	pkgerrors "github.com/lorenagil/storefront-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes the product catalog.
type Service interface {
	List(ctx context.Context) ([]ProductDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
}

type productRepository interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
}

type objectStore interface {
	Write(ctx context.Context, object string, data []byte, contentType string) error
	ObjectURL(object string) string
}

type service struct {
	repo    productRepository
	objects objectStore
	gcsCfg  config.GCSConfig
}

// ServiceParams bundles the dependencies required to build a products service.
type ServiceParams struct {
	Repo        productRepository
	ObjectStore objectStore
	GCSConfig   config.GCSConfig
}

// NewService constructs a products service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("products repository is required")
	}
	if params.ObjectStore == nil {
		return nil, fmt.Errorf("object store is required")
	}
	return &service{
		repo:    params.Repo,
		objects: params.ObjectStore,
		gcsCfg:  params.GCSConfig,
	}, nil
}

func (s *service) List(ctx context.Context) ([]ProductDTO, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing products")
	}
	return FromModels(items), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}
	return FromModel(product), nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	product := &models.Product{
		ID:    uuid.New(),
		Name:  name,
		Price: input.Price,
	}

	if input.Image != nil {
		object := path.Join(s.gcsCfg.ImagePrefix, fmt.Sprintf("%s_%s", product.ID, input.Image.Filename))
		if err := s.objects.Write(ctx, object, input.Image.Data, input.Image.ContentType); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "uploading product image")
		}
		url := s.objects.ObjectURL(object)
		product.ImageURL = &url
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating product")
	}
	return FromModel(created), nil
}
