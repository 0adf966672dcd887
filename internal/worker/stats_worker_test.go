package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aryan0dhankhar/medops/internal/domain"
	"github.com/aryan0dhankhar/medops/internal/infrastructure/logger"
)

type fakeSource struct {
	tasks []domain.Task
	appts []domain.Appointment
	calls int
}

func (f *fakeSource) ListTasks() []domain.Task {
	f.calls++
	return f.tasks
}
func (f *fakeSource) ListPatients() []domain.Patient { return []domain.Patient{{ID: "1"}} }
func (f *fakeSource) ListAppointments() []domain.Appointment { return f.appts }

func TestSample(t *testing.T) {
	now := time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC)
	src := &fakeSource{
		tasks: []domain.Task{
			{ID: "1", Status: domain.TaskPending, DueDate: now.Add(-time.Hour)},
			{ID: "2", Status: domain.TaskComplete, DueDate: now.Add(-time.Hour)},
			{ID: "3", Status: domain.TaskActive, DueDate: now.Add(time.Hour)},
		},
		appts: []domain.Appointment{
			{ID: "1", Date: now.Add(-2 * time.Hour)},
			{ID: "2", Date: now.Add(48 * time.Hour)},
		},
	}
	w := NewStatsWorker(src, logger.Discard(), time.Minute)
	w.now = func() time.Time { return now }

	s := w.Sample()
	assert.Equal(t, Snapshot{Tasks: 3, Patients: 1, Appointments: 2, OverdueTasks: 1, Today: 1}, s)
}

func TestStartSamplesImmediatelyAndStops(t *testing.T) {
	src := &fakeSource{}
	w := NewStatsWorker(src, logger.Discard(), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	assert.Equal(t, 1, src.calls)
}

func TestDefaultInterval(t *testing.T) {
	assert.Equal(t, time.Minute, NewStatsWorker(&fakeSource{}, nil, 0).interval)
}
