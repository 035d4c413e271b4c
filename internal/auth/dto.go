package auth

import (
	"time"

	"github.com/lorenagil/storefront-backend/internal/profiles"
)

// RegisterRequest carries the fields needed to create a customer profile.
// The optional profile image travels as a multipart upload, not JSON.
type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Name     string  `json:"name" validate:"required"`
	Surname  string  `json:"surname" validate:"required"`
	Phone    *string `json:"phone,omitempty"`
}

// LoginRequest carries the customer credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the signed access token and the profile it belongs to.
type LoginResponse struct {
	AccessToken string               `json:"access_token"`
	ExpiresAt   time.Time            `json:"expires_at"`
	Profile     *profiles.ProfileDTO `json:"profile"`
}
