package auth

// Permission represents a named capability on the admin API.
type Permission string

// Permission constants.
const (
	PermCatalogRead   Permission = "catalog:read"
	PermCatalogManage Permission = "catalog:manage"
	PermAuditRead     Permission = "audit:read"
	PermAccountManage Permission = "account:manage"
)

// rolePermissions is the single source of truth for the admin API
// authorisation model.
var rolePermissions = map[Role][]Permission{
	RoleViewer: {
		PermCatalogRead,
		PermAuditRead,
	},
	RoleAdmin: {
		PermCatalogRead,
		PermCatalogManage,
		PermAuditRead,
		PermAccountManage,
	},
}

// HasPermission returns true if the given role has the specified permission.
func HasPermission(role Role, perm Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}
