package models

import (
	"time"

	"github.com/lorenagil/storefront-backend/pkg/enums"
)

// CustomerProfile represents the canonical customer identity, keyed by email.
type CustomerProfile struct {
	Email        string     `gorm:"column:email;type:text;primaryKey"`
	Name         string     `gorm:"column:name;not null"`
	Surname      string     `gorm:"column:surname;not null"`
	Phone        *string    `gorm:"column:phone"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	Role         enums.Role `gorm:"column:role;type:text;not null;default:'Customer'"`
	ImageURL     *string    `gorm:"column:image_url"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (CustomerProfile) TableName() string {
	return "customer_profiles"
}
