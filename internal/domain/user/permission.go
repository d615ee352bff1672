package user

type Permission string

const (
	// Reports
	PermissionReportsView    Permission = "reports.view"
	PermissionReportsRefresh Permission = "reports.refresh"

	// Settings
	PermissionSettingsView   Permission = "settings.view"
	PermissionSettingsManage Permission = "settings.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		// Owner has all permissions
		PermissionReportsView,
		PermissionReportsRefresh,
		PermissionSettingsView,
		PermissionSettingsManage,
	},
	RoleManager: {
		PermissionReportsView,
		PermissionReportsRefresh,
		PermissionSettingsView,
	},
	RoleEmployee: {
		// Employees only read reports
		PermissionReportsView,
	},
	RolePending: {
		// Pending role has no permissions
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
