package profiles

import (
	"context"
	"testing"

	"github.com/lorenagil/storefront-backend/pkg/db"
	"github.com/lorenagil/storefront-backend/pkg/db/models"
	"github.com/lorenagil/storefront-backend/pkg/enums"
)

func TestRepositoryCreateAndFind(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	profile := &models.CustomerProfile{
		Email:        "ada@example.com",
		Name:         "Ada",
		Surname:      "Lovelace",
		PasswordHash: "hash",
		Role:         enums.RoleCustomer,
	}

	if _, err := repo.Create(ctx, profile); err != nil {
		t.Fatalf("create profile: %v", err)
	}

	found, err := repo.FindByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("find profile: %v", err)
	}
	if found.Name != "Ada" || found.Surname != "Lovelace" {
		t.Fatalf("unexpected profile: %+v", found)
	}
	if found.Role != enums.RoleCustomer {
		t.Fatalf("expected Customer role, got %s", found.Role)
	}
}

func TestRepositoryDuplicateEmail(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	profile := &models.CustomerProfile{
		Email:        "dup@example.com",
		Name:         "First",
		Surname:      "Writer",
		PasswordHash: "hash",
		Role:         enums.RoleCustomer,
	}
	if _, err := repo.Create(ctx, profile); err != nil {
		t.Fatalf("create profile: %v", err)
	}

	dup := &models.CustomerProfile{
		Email:        "dup@example.com",
		Name:         "Second",
		Surname:      "Writer",
		PasswordHash: "hash",
		Role:         enums.RoleCustomer,
	}
	_, err := repo.Create(ctx, dup)
	if err == nil {
		t.Fatal("expected duplicate create to fail")
	}
	if !db.IsUniqueViolation(err, "") {
		t.Fatalf("expected unique violation, got %v", err)
	}
}

func TestRepositoryUpdate(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	profile := &models.CustomerProfile{
		Email:        "grace@example.com",
		Name:         "Grace",
		Surname:      "Hopper",
		PasswordHash: "hash",
		Role:         enums.RoleCustomer,
	}
	if _, err := repo.Create(ctx, profile); err != nil {
		t.Fatalf("create profile: %v", err)
	}

	phone := "+1 555 0100"
	profile.Phone = &phone
	profile.Surname = "Murray Hopper"
	if _, err := repo.Update(ctx, profile); err != nil {
		t.Fatalf("update profile: %v", err)
	}

	found, err := repo.FindByEmail(ctx, "grace@example.com")
	if err != nil {
		t.Fatalf("find profile: %v", err)
	}
	if found.Surname != "Murray Hopper" {
		t.Fatalf("expected updated surname, got %s", found.Surname)
	}
	if found.Phone == nil || *found.Phone != phone {
		t.Fatalf("expected phone %q, got %v", phone, found.Phone)
	}
}

func TestRepositoryListCustomerEmails(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	seed := []*models.CustomerProfile{
		{Email: "zoe@example.com", Name: "Zoe", Surname: "A", PasswordHash: "h", Role: enums.RoleCustomer},
		{Email: "amy@example.com", Name: "Amy", Surname: "B", PasswordHash: "h", Role: enums.RoleCustomer},
		{Email: "admin@example.com", Name: "Admin", Surname: "User", PasswordHash: "h", Role: enums.RoleAdmin},
	}
	for _, p := range seed {
		if _, err := repo.Create(ctx, p); err != nil {
			t.Fatalf("create %s: %v", p.Email, err)
		}
	}

	emails, err := repo.ListCustomerEmails(ctx)
	if err != nil {
		t.Fatalf("list customer emails: %v", err)
	}
	if len(emails) != 2 {
		t.Fatalf("expected 2 customer emails, got %d", len(emails))
	}
	if emails[0] != "amy@example.com" || emails[1] != "zoe@example.com" {
		t.Fatalf("expected sorted customer emails, got %v", emails)
	}
}
