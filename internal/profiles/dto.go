package profiles

import (
	"time"

	"github.com/lorenagil/storefront-backend/pkg/db/models"
)

// ProfileDTO is the transport shape that omits the password hash.
type ProfileDTO struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Phone     *string   `json:"phone,omitempty"`
	Role      string    `json:"role"`
	ImageURL  *string   `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ImageUpload carries a profile image received with a register or update call.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// RegisterInput holds the validated payload to create a customer profile.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Surname  string
	Phone    *string
	Image    *ImageUpload
}

// UpdateProfileInput holds the replacement values for an existing profile.
// The role and password are not updatable through this path.
type UpdateProfileInput struct {
	Name    string
	Surname string
	Phone   *string
	Image   *ImageUpload
}

func FromModel(p *models.CustomerProfile) *ProfileDTO {
	if p == nil {
		return nil
	}

	return &ProfileDTO{
		Email:     p.Email,
		Name:      p.Name,
		Surname:   p.Surname,
		Phone:     p.Phone,
		Role:      p.Role.String(),
		ImageURL:  p.ImageURL,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
