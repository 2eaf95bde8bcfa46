package models

import "time"

// User represents a registered account
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	RegionID     *string   `json:"region_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Role constants
const (
	RoleCompanyRep          = "company_representative"
	RoleRegionalSecretariat = "regional_secretariat"
	RoleNationalSecretariat = "national_secretariat"
	RoleAdmin               = "admin"
)

var validRoles = map[string]bool{
	RoleCompanyRep:          true,
	RoleRegionalSecretariat: true,
	RoleNationalSecretariat: true,
	RoleAdmin:               true,
}

// IsValidRole reports whether role is one of the closed role set
func IsValidRole(role string) bool {
	return validRoles[role]
}

// Actor is the authenticated principal attached to every request
type Actor struct {
	UserID   string  `json:"user_id"`
	Role     string  `json:"role"`
	RegionID *string `json:"region_id,omitempty"`
}
