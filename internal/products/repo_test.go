package products

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/lorenagil/storefront-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func TestRepositoryCreateFindList(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	p1 := &models.Product{ID: uuid.New(), Name: "P1", Price: decimal.RequireFromString("10.00")}
	p2 := &models.Product{ID: uuid.New(), Name: "P2", Price: decimal.RequireFromString("5.50")}
	for _, p := range []*models.Product{p1, p2} {
		if _, err := repo.Create(ctx, p); err != nil {
			t.Fatalf("create %s: %v", p.Name, err)
		}
	}

	found, err := repo.FindByID(ctx, p1.ID)
	if err != nil {
		t.Fatalf("find product: %v", err)
	}
	if found.Name != "P1" {
		t.Fatalf("expected P1, got %s", found.Name)
	}
	if !found.Price.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("expected price 10.00, got %s", found.Price)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 products, got %d", len(list))
	}
}

func TestRepositoryFindMissing(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)

	_, err := repo.FindByID(context.Background(), uuid.New())
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
}
