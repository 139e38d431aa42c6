package model

import "strings"

// Role is the job a user performs inside a tenant.  It is stored verbatim in
// users.role and carried in the access token's "role" claim.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleWaiter  Role = "waiter"
	RoleKitchen Role = "kitchen"
	RoleCashier Role = "cashier"
)

// Roles lists every valid role in display order.
var Roles = []Role{RoleAdmin, RoleWaiter, RoleKitchen, RoleCashier}

// ParseRole normalizes s and reports whether it names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Roles {
		if r == known {
			return r, true
		}
	}
	return "", false
}

// In is the capability gate used by every protected route: it reports
// whether r is one of the allowed roles.  An empty allowed list denies.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// JoinRoles renders roles as a comma separated list for messages.
func JoinRoles(roles []Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}
