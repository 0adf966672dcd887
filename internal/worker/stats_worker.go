package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/aryan0dhankhar/medops/internal/domain"
	"github.com/aryan0dhankhar/medops/internal/observability/metrics"
	"github.com/aryan0dhankhar/medops/internal/projection"
)

// Source is the read side the worker samples.
type Source interface {
	ListTasks() []domain.Task
	ListPatients() []domain.Patient
	ListAppointments() []domain.Appointment
}

// Snapshot is one sample of the collections.
type Snapshot struct {
	Tasks        int
	Patients     int
	Appointments int
	OverdueTasks int
	Today        int
}

// StatsWorker periodically publishes collection gauges.
type StatsWorker struct {
	source   Source
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time
}

func NewStatsWorker(source Source, logger *slog.Logger, interval time.Duration) *StatsWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsWorker{source: source, logger: logger, interval: interval, now: time.Now}
}

// Start samples once immediately and then every interval until ctx ends.
func (w *StatsWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("stats worker started", slog.Duration("interval", w.interval))
	w.Sample()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("stats worker stopped")
			return
		case <-ticker.C:
			w.Sample()
		}
	}
}

// Sample reads every collection once and updates the gauges.
func (w *StatsWorker) Sample() Snapshot {
	now := w.now()
	tasks := w.source.ListTasks()
	appts := w.source.ListAppointments()

	s := Snapshot{
		Tasks:        len(tasks),
		Patients:     len(w.source.ListPatients()),
		Appointments: len(appts),
		OverdueTasks: projection.OverdueTasks(tasks, now),
		Today:        projection.CountAppointments(appts, now).Today,
	}

	metrics.SetCollectionSize("tasks", s.Tasks)
	metrics.SetCollectionSize("patients", s.Patients)
	metrics.SetCollectionSize("appointments", s.Appointments)
	metrics.SetOverdueTasks(s.OverdueTasks)

	w.logger.Debug("collection stats sampled",
		slog.Int("tasks", s.Tasks),
		slog.Int("patients", s.Patients),
		slog.Int("appointments", s.Appointments),
		slog.Int("overdue_tasks", s.OverdueTasks),
		slog.Int("appointments_today", s.Today),
	)
	return s
}
