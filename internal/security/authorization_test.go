package security

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aryan0dhankhar/medops/internal/domain"
	"github.com/aryan0dhankhar/medops/internal/infrastructure/logger"
)

func TestRolePermissions(t *testing.T) {
	as := NewAuthorizationService(logger.Discard())

	cases := []struct {
		role domain.Role
		perm Permission
		want bool
	}{
		{domain.RoleClinician, PermManageTasks, true},
		{domain.RoleClinician, PermTelemedicine, true},
		{domain.RoleNurse, PermViewDashboard, true},
		{domain.RoleNurse, PermTelemedicine, false},
		{domain.RoleAdministrator, PermManagePatients, true},
		{domain.RoleAdministrator, PermTelemedicine, false},
		{domain.RolePatient, PermViewAppointments, true},
		{domain.RolePatient, PermManageAppointments, false},
		{domain.RolePatient, PermViewTasks, false},
		{domain.RolePatient, PermTelemedicine, true},
		{domain.RoleAdministrator, PermReloadData, true},
		{domain.RoleClinician, PermReloadData, false},
		{domain.Role("visitor"), PermViewAppointments, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, as.HasPermission(c.role, c.perm), "%s/%s", c.role, c.perm)
	}
}

func TestValidatePermission(t *testing.T) {
	as := NewAuthorizationService(nil)
	assert.NoError(t, as.ValidatePermission(domain.RoleNurse, PermManageTasks))
	assert.Error(t, as.ValidatePermission(domain.RolePatient, PermManageTasks))
}

func TestGetRolePermissionsReturnsCopy(t *testing.T) {
	as := NewAuthorizationService(nil)
	perms := as.GetRolePermissions(domain.RoleNurse)
	perms[0] = "tampered"
	assert.True(t, as.HasPermission(domain.RoleNurse, PermViewDashboard))
	assert.False(t, as.HasPermission(domain.RoleClinician, "tampered"))
}
