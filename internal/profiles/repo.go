package profiles

import (
	"context"

	"github.com/lorenagil/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes customer profile persistence, keyed by email.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a profiles repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new profile. Duplicate emails surface as a unique
// violation for the service layer to translate.
func (r *Repository) Create(ctx context.Context, profile *models.CustomerProfile) (*models.CustomerProfile, error) {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// FindByEmail retrieves the profile matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.CustomerProfile, error) {
	var profile models.CustomerProfile
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update overwrites the full profile record.
func (r *Repository) Update(ctx context.Context, profile *models.CustomerProfile) (*models.CustomerProfile, error) {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// ListCustomerEmails returns the emails of all customer-role profiles, for
// the admin overview.
func (r *Repository) ListCustomerEmails(ctx context.Context) ([]string, error) {
	var emails []string
	if err := r.db.WithContext(ctx).
		Model(&models.CustomerProfile{}).
		Where("role = ?", "Customer").
		Order("email ASC").
		Pluck("email", &emails).
		Error; err != nil {
		return nil, err
	}
	return emails, nil
}
