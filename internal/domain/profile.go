package domain

import "time"

// Role enumerates dashboard access levels.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is a known enumeration value.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Profile is the domain model for a registered person. Created once at
// sign-up and mirrored into the profiles table keyed by id.
type Profile struct {
	ID           string
	Email        string
	FullName     string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the profile carries the admin role.
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
