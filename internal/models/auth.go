package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the access token payload issued by the auth service.
type JWTClaims struct {
	UserID     string   `json:"user_id"`
	Role       UserRole `json:"role"`
	College    string   `json:"college,omitempty"`
	Department string   `json:"department,omitempty"`
	jwt.RegisteredClaims
}

// Identity projects the claims onto the caller identity.
func (c *JWTClaims) Identity() Identity {
	return Identity{UserID: c.UserID, Role: c.Role, College: c.College, Department: c.Department}
}
