package domain

import (
	"strings"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User models a person record owned by the content store.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// NormalizeRole case-folds a role so "Admin" and "admin" compare equal.
func NormalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
