package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/lorenagil/storefront-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	Email string
	Name  string
	Role  enums.Role
	JTI   string
}

// AccessTokenClaims represents the typed JWT issued to clients. IssuedAt
// doubles as the login time used for session-duration bookkeeping.
type AccessTokenClaims struct {
	Email string     `json:"email"`
	Name  string     `json:"name"`
	Role  enums.Role `json:"role"`
	jwt.RegisteredClaims
}
