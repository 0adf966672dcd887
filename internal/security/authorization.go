package security

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/aryan0dhankhar/medops/internal/domain"
)

// Permission represents an action permission
type Permission string

const (
	PermViewDashboard      Permission = "view_dashboard"
	PermViewTasks          Permission = "view_tasks"
	PermManageTasks        Permission = "manage_tasks"
	PermViewPatients       Permission = "view_patients"
	PermManagePatients     Permission = "manage_patients"
	PermViewAppointments   Permission = "view_appointments"
	PermManageAppointments Permission = "manage_appointments"
	PermTelemedicine       Permission = "telemedicine"
	PermReloadData         Permission = "reload_data"
)

var staff = []Permission{
	PermViewDashboard,
	PermViewTasks,
	PermManageTasks,
	PermViewPatients,
	PermManagePatients,
	PermViewAppointments,
	PermManageAppointments,
}

// RolePermissions mirrors the console navigation: staff see the ward views,
// patients only their appointments and telemedicine.
var RolePermissions = map[domain.Role][]Permission{
	domain.RoleClinician:     append(slices.Clone(staff), PermTelemedicine),
	domain.RoleNurse:         staff,
	domain.RoleAdministrator: append(slices.Clone(staff), PermReloadData),
	domain.RolePatient:       {PermViewAppointments, PermTelemedicine},
}

// AuthorizationService handles authorization checks
type AuthorizationService struct {
	logger *slog.Logger
}

func NewAuthorizationService(logger *slog.Logger) *AuthorizationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthorizationService{logger: logger}
}

// HasPermission checks if a role has a specific permission
func (as *AuthorizationService) HasPermission(role domain.Role, permission Permission) bool {
	return slices.Contains(RolePermissions[role], permission)
}

// ValidatePermission validates that a role has a specific permission
func (as *AuthorizationService) ValidatePermission(role domain.Role, permission Permission) error {
	if !as.HasPermission(role, permission) {
		as.logger.Warn("permission denied",
			slog.String("role", string(role)),
			slog.String("permission", string(permission)),
		)
		return fmt.Errorf("permission denied: %s role cannot %s", role, permission)
	}
	return nil
}

func (as *AuthorizationService) GetRolePermissions(role domain.Role) []Permission {
	return slices.Clone(RolePermissions[role])
}
