package products

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/lorenagil/storefront-backend/pkg/config"
	"github.com/lorenagil/storefront-backend/pkg/db/models"
	pkgerrors "github.com/lorenagil/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type stubRepo struct {
	byID map[uuid.UUID]*models.Product
}

func newStubRepo() *stubRepo {
	return &stubRepo{byID: map[uuid.UUID]*models.Product{}}
}

func (s *stubRepo) Create(_ context.Context, product *models.Product) (*models.Product, error) {
	s.byID[product.ID] = product
	return product, nil
}

func (s *stubRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (s *stubRepo) List(_ context.Context) ([]models.Product, error) {
	out := make([]models.Product, 0, len(s.byID))
	for _, p := range s.byID {
		out = append(out, *p)
	}
	return out, nil
}

type stubObjectStore struct {
	objects map[string][]byte
	err     error
}

func (s *stubObjectStore) Write(_ context.Context, object string, data []byte, _ string) error {
	if s.err != nil {
		return s.err
	}
	if s.objects == nil {
		s.objects = map[string][]byte{}
	}
	s.objects[object] = data
	return nil
}

func (s *stubObjectStore) ObjectURL(object string) string {
	return "https://storage.googleapis.com/test-bucket/" + object
}

func testService(t *testing.T, repo *stubRepo, objects *stubObjectStore) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:        repo,
		ObjectStore: objects,
		GCSConfig:   config.GCSConfig{ImagePrefix: "images"},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateProduct(t *testing.T) {
	repo := newStubRepo()
	objects := &stubObjectStore{}
	svc := testService(t, repo, objects)

	dto, err := svc.Create(context.Background(), CreateProductInput{
		Name:  "P1",
		Price: decimal.RequireFromString("10.00"),
		Image: &ImageUpload{Filename: "p1.png", ContentType: "image/png", Data: []byte{1, 2}},
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if dto.ID == uuid.Nil {
		t.Fatal("expected product id to be minted")
	}
	if dto.ImageURL == nil || !strings.Contains(*dto.ImageURL, "images/") {
		t.Fatalf("expected image URL under images/, got %v", dto.ImageURL)
	}
	if len(objects.objects) != 1 {
		t.Fatalf("expected one uploaded object, got %d", len(objects.objects))
	}
}

func TestCreateProductValidation(t *testing.T) {
	svc := testService(t, newStubRepo(), &stubObjectStore{})

	_, err := svc.Create(context.Background(), CreateProductInput{Name: "  ", Price: decimal.Zero})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}

	_, err = svc.Create(context.Background(), CreateProductInput{
		Name:  "P1",
		Price: decimal.RequireFromString("-1"),
	})
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative price, got %v", err)
	}
}

func TestCreateProductImageUploadFails(t *testing.T) {
	repo := newStubRepo()
	objects := &stubObjectStore{err: errors.New("storage unavailable")}
	svc := testService(t, repo, objects)

	_, err := svc.Create(context.Background(), CreateProductInput{
		Name:  "P1",
		Price: decimal.RequireFromString("10.00"),
		Image: &ImageUpload{Filename: "p1.png", Data: []byte{1}},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatal("expected no product persisted when upload fails")
	}
}

func TestGetMissingProduct(t *testing.T) {
	svc := testService(t, newStubRepo(), &stubObjectStore{})

	_, err := svc.Get(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
