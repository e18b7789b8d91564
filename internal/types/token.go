package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the role required by the admin endpoints.
const RoleAdmin = "admin"

// AdminClaims represents the claims in an admin bearer token
type AdminClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}
