package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims accepted by the scoring service.
type Claims struct {
	jwt.RegisteredClaims
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles"`
}

// HasRole checks if the claims include the specified role.
func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// IsStaff reports whether the claims carry a role that may act on any user.
func (c Claims) IsStaff() bool {
	return c.HasRole(RoleAdmin) || c.HasRole(RoleLoanOfficer) || c.HasRole(RoleService)
}

// CanAccessUser reports whether the bearer may read or act on userID's
// credit data. Staff roles see every user; customers only themselves.
func (c Claims) CanAccessUser(userID string) bool {
	if c.IsStaff() {
		return true
	}
	return c.HasRole(RoleCustomer) && c.UserID != "" && c.UserID == userID
}

// Role constants
const (
	RoleAdmin       = "admin"
	RoleLoanOfficer = "loan_officer"
	RoleCustomer    = "customer"
	RoleService     = "service"
)
