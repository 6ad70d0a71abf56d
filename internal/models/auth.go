package models

import "github.com/golang-jwt/jwt/v5"

// Role identifies the actor category carried by a token.
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
)

// JWTClaims represents the JWT payload for access tokens. Tokens are issued
// by the upstream accounts service; this API only validates them.
type JWTClaims struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
	jwt.RegisteredClaims
}

// SubjectID returns the principal's subject identifier.
func (c *JWTClaims) SubjectID() string {
	if c == nil {
		return ""
	}
	return c.Subject
}
