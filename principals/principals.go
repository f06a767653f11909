package principals

import (
	"fmt"
	"time"
)

// RoleType represents a principal's role within the directory backend
type RoleType string

const (
	RoleAdmin     RoleType = "admin"     // Can manage all directory data and principals
	RoleOwner     RoleType = "owner"     // Can manage directory entries they own
	RoleDeveloper RoleType = "developer" // Read-mostly access, used for API integrations
)

// DefaultRole is assigned when a registration does not name a role.
const DefaultRole = RoleDeveloper

// ParseRole validates a role string against the closed enumeration.
// An empty string resolves to DefaultRole.
func ParseRole(s string) (RoleType, error) {
	if s == "" {
		return DefaultRole, nil
	}
	switch RoleType(s) {
	case RoleAdmin, RoleOwner, RoleDeveloper:
		return RoleType(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Valid reports whether the role is one of the enumerated values.
func (r RoleType) Valid() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleDeveloper:
		return true
	}
	return false
}

type Principal struct {
	ID             string    `json:"id,omitempty"`        // Unique identifier, assigned at creation
	LoginKey       string    `json:"login_key,omitempty"` // Email or username, unique across the store
	CredentialHash string    `json:"-"`                   // Hashed credential - never serialize
	Role           RoleType  `json:"role,omitempty"`
	Active         bool      `json:"active"`               // Inactive principals may not obtain new sessions
	CreatedAt      time.Time `json:"created_at,omitempty"` // When the principal registered
	UpdatedAt      time.Time `json:"updated_at,omitempty"` // Last modification of any field
}

// Public returns a copy safe to hand back to clients. The credential hash
// carries a `json:"-"` tag already; clearing it here keeps the value itself
// out of any code path that copies the struct around.
func (p Principal) Public() Principal {
	p.CredentialHash = ""
	return p
}
