package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aryan0dhankhar/medops/internal/projection"
	"github.com/aryan0dhankhar/medops/internal/service"
)

// ViewsHandler serves the read-only projections behind the console pages.
type ViewsHandler struct {
	facade *service.Facade
	now    func() time.Time
	loc    *time.Location
	logger *slog.Logger
}

// NewViewsHandler computes calendar days in loc (time.Local when nil).
func NewViewsHandler(f *service.Facade, loc *time.Location, logger *slog.Logger) *ViewsHandler {
	if loc == nil {
		loc = time.Local
	}
	return &ViewsHandler{facade: f, now: time.Now, loc: loc, logger: orDefault(logger)}
}

// Dashboard handles GET /api/dashboard
func (h *ViewsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d := projection.BuildDashboard(
		h.facade.ListTasks(),
		h.facade.ListPatients(),
		h.facade.ListAppointments(),
		h.now().In(h.loc),
	)
	writeJSON(w, http.StatusOK, d, h.logger)
}

// Board handles GET /api/board
func (h *ViewsHandler) Board(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, projection.Board(h.facade.ListTasks()), h.logger)
}

// Calendar handles GET /api/appointments/calendar?day=YYYY-MM-DD. The day
// defaults to today.
func (h *ViewsHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	day := h.now().In(h.loc)
	if v := r.URL.Query().Get("day"); v != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, v, h.loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "day must be YYYY-MM-DD")
			return
		}
		day = parsed
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"day":          day.Format(time.DateOnly),
		"appointments": projection.OnDay(h.facade.ListAppointments(), day),
	}, h.logger)
}

// Telemedicine handles GET /api/telemedicine
func (h *ViewsHandler) Telemedicine(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, projection.Telemedicine(h.facade.ListAppointments()), h.logger)
}

// Reload handles POST /api/reload
func (h *ViewsHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.facade.Reload(r.Context()); err != nil {
		h.logger.Error("reload failed", slog.String("error", err.Error()))
		writeError(w, http.StatusServiceUnavailable, "reload failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
