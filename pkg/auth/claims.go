package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Role identifies the permission tier attached to a user session.
type Role string

const (
	RoleOwner      Role = "owner"
	RolePharmacist Role = "pharmacist"
	RoleAdmin      Role = "admin"
)

// IsValid reports whether the role is one of the known tiers.
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RolePharmacist, RoleAdmin:
		return true
	}
	return false
}

// TokenPurpose distinguishes access tokens from single-use verification tokens.
type TokenPurpose string

const (
	PurposeAccess       TokenPurpose = "access"
	PurposeVerification TokenPurpose = "verify_email"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID     uuid.UUID
	PharmacyID *uuid.UUID
	Role       Role
	JTI        string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID     uuid.UUID    `json:"user_id"`
	PharmacyID *uuid.UUID   `json:"pharmacy_id,omitempty"`
	Role       Role         `json:"role"`
	Purpose    TokenPurpose `json:"purpose"`
	jwt.RegisteredClaims
}
