package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/medops/internal/domain"
	"github.com/aryan0dhankhar/medops/internal/projection"
	"github.com/aryan0dhankhar/medops/internal/service"
)

// RecordsHandler serves list/get/create/update/delete for one collection.
// T is the record, I its creation input and P its patch.
type RecordsHandler[T, I, P any] struct {
	name string

	list   func(r *http.Request) []T
	get    func(id string) (T, bool)
	add    func(ctx context.Context, in I) (T, error)
	update func(ctx context.Context, id string, p P) (T, bool, error)
	remove func(ctx context.Context, id string) (bool, error)

	checkInput func(*I) error
	checkPatch func(P) error

	logger *slog.Logger
}

type (
	TasksHandler        = RecordsHandler[domain.Task, domain.TaskInput, domain.TaskPatch]
	PatientsHandler     = RecordsHandler[domain.Patient, domain.PatientInput, domain.PatientPatch]
	AppointmentsHandler = RecordsHandler[domain.Appointment, domain.AppointmentInput, domain.AppointmentPatch]
)

func NewTasksHandler(f *service.Facade, logger *slog.Logger) *TasksHandler {
	return &TasksHandler{
		name:       "tasks",
		list:       func(*http.Request) []domain.Task { return f.ListTasks() },
		get:        f.GetTask,
		add:        f.AddTask,
		update:     f.UpdateTask,
		remove:     f.DeleteTask,
		checkInput: validateTaskInput,
		checkPatch: validateTaskPatch,
		logger:     orDefault(logger),
	}
}

// NewPatientsHandler lists patients filtered by the optional ?q= search.
func NewPatientsHandler(f *service.Facade, logger *slog.Logger) *PatientsHandler {
	return &PatientsHandler{
		name: "patients",
		list: func(r *http.Request) []domain.Patient {
			return projection.SearchPatients(f.ListPatients(), r.URL.Query().Get("q"))
		},
		get:        f.GetPatient,
		add:        f.AddPatient,
		update:     f.UpdatePatient,
		remove:     f.DeletePatient,
		checkInput: validatePatientInput,
		checkPatch: validatePatientPatch,
		logger:     orDefault(logger),
	}
}

// NewAppointmentsHandler lists appointments in date order.
func NewAppointmentsHandler(f *service.Facade, logger *slog.Logger) *AppointmentsHandler {
	return &AppointmentsHandler{
		name: "appointments",
		list: func(*http.Request) []domain.Appointment {
			return projection.SortedByDate(f.ListAppointments())
		},
		get:    f.GetAppointment,
		add:    f.AddAppointment,
		update: f.UpdateAppointment,
		remove: f.DeleteAppointment,
		checkInput: func(in *domain.AppointmentInput) error {
			return validateAppointmentInput(in, f.GetPatient)
		},
		checkPatch: validateAppointmentPatch,
		logger:     orDefault(logger),
	}
}

// List handles GET /api/<collection>
func (h *RecordsHandler[T, I, P]) List(w http.ResponseWriter, r *http.Request) {
	items := h.list(r)
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, items, h.logger)
}

// Get handles GET /api/<collection>/{id}
func (h *RecordsHandler[T, I, P]) Get(w http.ResponseWriter, r *http.Request) {
	item, ok := h.get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, h.name+" record not found")
		return
	}
	writeJSON(w, http.StatusOK, item, h.logger)
}

// Create handles POST /api/<collection>
func (h *RecordsHandler[T, I, P]) Create(w http.ResponseWriter, r *http.Request) {
	var in I
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.checkInput(&in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.add(r.Context(), in)
	if err != nil {
		h.logger.Error("failed to add record",
			slog.String("collection", h.name),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusServiceUnavailable, "failed to save "+h.name)
		return
	}
	writeJSON(w, http.StatusCreated, item, h.logger)
}

// Update handles PATCH /api/<collection>/{id}
func (h *RecordsHandler[T, I, P]) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var patch P
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.checkPatch(patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, found, err := h.update(r.Context(), id, patch)
	if err != nil {
		h.logger.Error("failed to update record",
			slog.String("collection", h.name),
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusServiceUnavailable, "failed to save "+h.name)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, h.name+" record not found")
		return
	}
	writeJSON(w, http.StatusOK, item, h.logger)
}

// Delete handles DELETE /api/<collection>/{id}. Deleting an unknown id
// succeeds.
func (h *RecordsHandler[T, I, P]) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	removed, err := h.remove(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to delete record",
			slog.String("collection", h.name),
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusServiceUnavailable, "failed to save "+h.name)
		return
	}
	h.logger.Debug("record deleted",
		slog.String("collection", h.name),
		slog.String("id", id),
		slog.Bool("removed", removed),
	)
	w.WriteHeader(http.StatusNoContent)
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
