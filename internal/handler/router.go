package handler

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aryan0dhankhar/medops/internal/domain"
	"github.com/aryan0dhankhar/medops/internal/security"
	"github.com/aryan0dhankhar/medops/internal/security/audit"
	"github.com/aryan0dhankhar/medops/internal/security/middleware"
)

// Routes bundles every handler the API mounts. Feed may be nil to leave the
// change feed off.
type Routes struct {
	Auth         *AuthHandler
	Health       *HealthHandler
	Views        *ViewsHandler
	Tasks        *TasksHandler
	Patients     *PatientsHandler
	Appointments *AppointmentsHandler
	Feed         *FeedHandler

	Authz *security.AuthorizationService
	Audit *audit.Logger
}

// NewMux registers the API on a pattern mux. Authentication is applied
// outside the mux; permissions are checked per route here.
func NewMux(rt Routes) *http.ServeMux {
	mux := http.NewServeMux()
	guard := func(p security.Permission, h http.HandlerFunc) http.Handler {
		return middleware.RequirePermission(rt.Authz, rt.Audit, p)(h)
	}

	mux.HandleFunc("GET /healthz", rt.Health.Health)
	mux.HandleFunc("GET /readyz", rt.Health.Ready)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/login", rt.Auth.Login)
	mux.HandleFunc("POST /api/logout", rt.Auth.Logout)
	mux.HandleFunc("GET /api/me", rt.Auth.Me)
	mux.HandleFunc("GET /api/session", rt.Auth.Session)
	mux.HandleFunc("GET /api/permissions", permissionsFor(rt.Authz))

	mux.Handle("GET /api/tasks", guard(security.PermViewTasks, rt.Tasks.List))
	mux.Handle("POST /api/tasks", guard(security.PermManageTasks, rt.Tasks.Create))
	mux.Handle("GET /api/tasks/{id}", guard(security.PermViewTasks, rt.Tasks.Get))
	mux.Handle("PATCH /api/tasks/{id}", guard(security.PermManageTasks, rt.Tasks.Update))
	mux.Handle("DELETE /api/tasks/{id}", guard(security.PermManageTasks, rt.Tasks.Delete))

	mux.Handle("GET /api/patients", guard(security.PermViewPatients, rt.Patients.List))
	mux.Handle("POST /api/patients", guard(security.PermManagePatients, rt.Patients.Create))
	mux.Handle("GET /api/patients/{id}", guard(security.PermViewPatients, rt.Patients.Get))
	mux.Handle("PATCH /api/patients/{id}", guard(security.PermManagePatients, rt.Patients.Update))
	mux.Handle("DELETE /api/patients/{id}", guard(security.PermManagePatients, rt.Patients.Delete))

	mux.Handle("GET /api/appointments", guard(security.PermViewAppointments, rt.Appointments.List))
	mux.Handle("POST /api/appointments", guard(security.PermManageAppointments, rt.Appointments.Create))
	mux.Handle("GET /api/appointments/calendar", guard(security.PermViewAppointments, rt.Views.Calendar))
	mux.Handle("GET /api/appointments/{id}", guard(security.PermViewAppointments, rt.Appointments.Get))
	mux.Handle("PATCH /api/appointments/{id}", guard(security.PermManageAppointments, rt.Appointments.Update))
	mux.Handle("DELETE /api/appointments/{id}", guard(security.PermManageAppointments, rt.Appointments.Delete))

	mux.Handle("GET /api/dashboard", guard(security.PermViewDashboard, rt.Views.Dashboard))
	mux.Handle("GET /api/board", guard(security.PermViewTasks, rt.Views.Board))
	mux.Handle("GET /api/telemedicine", guard(security.PermTelemedicine, rt.Views.Telemedicine))
	mux.Handle("POST /api/reload", guard(security.PermReloadData, rt.Views.Reload))

	if rt.Feed != nil {
		mux.Handle("GET /ws/changes", rt.Feed)
	}
	return mux
}

// PermissionsResponse lists what the caller's role may do, for menu gating.
type PermissionsResponse struct {
	Role        domain.Role           `json:"role"`
	Permissions []security.Permission `json:"permissions"`
}

func permissionsFor(as *security.AuthorizationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.GetClaimsFromContext(r.Context())
		if claims == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		writeJSON(w, http.StatusOK, PermissionsResponse{
			Role:        claims.Role,
			Permissions: as.GetRolePermissions(claims.Role),
		}, slog.Default())
	}
}
