package auth

import "errors"

// Role is the authorisation tier carried in an operator token.
type Role string

const (
	// RoleViewer can read the catalog, endpoints and audit trail and watch
	// the live directive feed.
	RoleViewer Role = "viewer"

	// RoleAdmin can also change appliances, reload the catalog and manage
	// linked accounts.
	RoleAdmin Role = "admin"
)

// ValidRoles lists the roles a token may carry.
var ValidRoles = []Role{RoleViewer, RoleAdmin}

// IsValidRole reports whether r is a known role.
func IsValidRole(r Role) bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// Sentinel errors for token handling.
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrInvalidRole  = errors.New("invalid role")
	ErrForbidden    = errors.New("insufficient permissions")
)
