package repository

import (
	"context"

	"github.com/aryan0dhankhar/medops/internal/domain"
	"github.com/aryan0dhankhar/medops/internal/storage"
)

// AppointmentRepository implements domain.AppointmentRepository over the
// appointments slot.
type AppointmentRepository struct {
	c    *collection[domain.Appointment]
	opts options
}

var _ domain.AppointmentRepository = (*AppointmentRepository)(nil)

func NewAppointmentRepository(ctx context.Context, persist *storage.PersistentStore, opts ...Option) *AppointmentRepository {
	o := buildOptions(opts)
	r := &AppointmentRepository{
		c: newCollection(storage.Appointments, persist, o,
			func(a domain.Appointment) string { return a.ID },
			func(a domain.Appointment) domain.Appointment { return a },
			DemoAppointments),
		opts: o,
	}
	r.c.load(ctx)
	return r
}

func (r *AppointmentRepository) List() []domain.Appointment { return r.c.list() }

func (r *AppointmentRepository) Get(id string) (domain.Appointment, bool) { return r.c.get(id) }

func (r *AppointmentRepository) Add(ctx context.Context, in domain.AppointmentInput) (domain.Appointment, error) {
	return r.c.add(ctx, in.Build(r.opts.newID(), r.opts.now()))
}

func (r *AppointmentRepository) Update(ctx context.Context, id string, patch domain.AppointmentPatch) (domain.Appointment, bool, error) {
	return r.c.update(ctx, id, patch.Apply)
}

func (r *AppointmentRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.c.remove(ctx, id)
}

func (r *AppointmentRepository) Reload(ctx context.Context) error { return r.c.reload(ctx) }

func (r *AppointmentRepository) Len() int { return r.c.size() }
