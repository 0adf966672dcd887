package repository

import (
	"context"

	"github.com/aryan0dhankhar/medops/internal/storage"
)

// Store groups the three collections that share one slot store.
type Store struct {
	Tasks        *TaskRepository
	Patients     *PatientRepository
	Appointments *AppointmentRepository
}

// NewStore hydrates every collection from persist.
func NewStore(ctx context.Context, persist *storage.PersistentStore, opts ...Option) *Store {
	return &Store{
		Tasks:        NewTaskRepository(ctx, persist, opts...),
		Patients:     NewPatientRepository(ctx, persist, opts...),
		Appointments: NewAppointmentRepository(ctx, persist, opts...),
	}
}

// Reload re-reads all three slots, replacing the in-memory collections. It
// stops at the first collection whose reload was abandoned.
func (s *Store) Reload(ctx context.Context) error {
	for _, reload := range []func(context.Context) error{
		s.Tasks.Reload,
		s.Patients.Reload,
		s.Appointments.Reload,
	} {
		if err := reload(ctx); err != nil {
			return err
		}
	}
	return nil
}
