package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role       Role
		permission Permission
		want       bool
	}{
		{RoleOwner, PermissionSettingsManage, true},
		{RoleManager, PermissionSettingsManage, false},
		{RoleManager, PermissionReportsRefresh, true},
		{RoleEmployee, PermissionReportsView, true},
		{RoleEmployee, PermissionSettingsView, false},
		{RolePending, PermissionReportsView, false},
		{Role("auditor"), PermissionReportsView, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.permission), func(t *testing.T) {
			assert.Equal(t, tt.want, HasPermission(tt.role, tt.permission))
		})
	}
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("manager")
	assert.True(t, ok)
	assert.Equal(t, RoleManager, r)

	_, ok = ParseRole("Manager")
	assert.False(t, ok)
}
