package user

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Can refresh data and view settings
	RoleEmployee Role = "employee" // Read-only dashboards
	RolePending  Role = "pending"  // Still in onboarding
)

// ParseRole returns the role for a claim value.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleOwner, RoleManager, RoleEmployee, RolePending:
		return r, true
	}
	return "", false
}
