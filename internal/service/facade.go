package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aryan0dhankhar/medops/internal/domain"
	"github.com/aryan0dhankhar/medops/internal/events"
)

// SessionStore is the identity state machine behind login and logout.
type SessionStore interface {
	Login(ctx context.Context, email, password string) (domain.Identity, error)
	Logout(ctx context.Context) error
	Current() (domain.Identity, bool)
	Pending() bool
}

// Reloader re-reads every collection from durable storage.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Facade is the single entry point used by the HTTP API and tools. It passes
// calls straight through to the repositories and the session store, adding
// no caching or derived data, and announces each successful mutation.
type Facade struct {
	tasks        domain.TaskRepository
	patients     domain.PatientRepository
	appointments domain.AppointmentRepository
	session      SessionStore
	reloader     Reloader
	publisher    events.Publisher
	now          func() time.Time
	logger       *slog.Logger
}

type FacadeOption func(*Facade)

// WithPublisher sets where change events go.
func WithPublisher(p events.Publisher) FacadeOption {
	return func(f *Facade) {
		if p != nil {
			f.publisher = p
		}
	}
}

// WithReloader enables Reload.
func WithReloader(r Reloader) FacadeOption {
	return func(f *Facade) { f.reloader = r }
}

func WithClock(now func() time.Time) FacadeOption {
	return func(f *Facade) {
		if now != nil {
			f.now = now
		}
	}
}

func NewFacade(
	tasks domain.TaskRepository,
	patients domain.PatientRepository,
	appointments domain.AppointmentRepository,
	session SessionStore,
	logger *slog.Logger,
	opts ...FacadeOption,
) *Facade {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Facade{
		tasks:        tasks,
		patients:     patients,
		appointments: appointments,
		session:      session,
		publisher:    events.Nop{},
		now:          time.Now,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Facade) ListTasks() []domain.Task { return f.tasks.List() }

func (f *Facade) ListPatients() []domain.Patient { return f.patients.List() }

func (f *Facade) ListAppointments() []domain.Appointment { return f.appointments.List() }

func (f *Facade) GetTask(id string) (domain.Task, bool) { return f.tasks.Get(id) }

func (f *Facade) GetPatient(id string) (domain.Patient, bool) { return f.patients.Get(id) }

func (f *Facade) GetAppointment(id string) (domain.Appointment, bool) { return f.appointments.Get(id) }

// CurrentIdentity returns the logged-in identity, if any.
func (f *Facade) CurrentIdentity() (domain.Identity, bool) { return f.session.Current() }

// LoginPending reports whether a login is in progress.
func (f *Facade) LoginPending() bool { return f.session.Pending() }

func (f *Facade) AddTask(ctx context.Context, in domain.TaskInput) (domain.Task, error) {
	t, err := f.tasks.Add(ctx, in)
	if err != nil {
		return domain.Task{}, err
	}
	f.announce(ctx, "tasks", events.OpCreated, t.ID)
	return t, nil
}

// UpdateTask reports found=false, with no error, when id is unknown.
func (f *Facade) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, bool, error) {
	t, found, err := f.tasks.Update(ctx, id, patch)
	if err == nil && found {
		f.announce(ctx, "tasks", events.OpUpdated, id)
	}
	return t, found, err
}

func (f *Facade) DeleteTask(ctx context.Context, id string) (bool, error) {
	removed, err := f.tasks.Delete(ctx, id)
	if err == nil && removed {
		f.announce(ctx, "tasks", events.OpDeleted, id)
	}
	return removed, err
}

func (f *Facade) AddPatient(ctx context.Context, in domain.PatientInput) (domain.Patient, error) {
	p, err := f.patients.Add(ctx, in)
	if err != nil {
		return domain.Patient{}, err
	}
	f.announce(ctx, "patients", events.OpCreated, p.ID)
	return p, nil
}

func (f *Facade) UpdatePatient(ctx context.Context, id string, patch domain.PatientPatch) (domain.Patient, bool, error) {
	p, found, err := f.patients.Update(ctx, id, patch)
	if err == nil && found {
		f.announce(ctx, "patients", events.OpUpdated, id)
	}
	return p, found, err
}

func (f *Facade) DeletePatient(ctx context.Context, id string) (bool, error) {
	removed, err := f.patients.Delete(ctx, id)
	if err == nil && removed {
		f.announce(ctx, "patients", events.OpDeleted, id)
	}
	return removed, err
}

func (f *Facade) AddAppointment(ctx context.Context, in domain.AppointmentInput) (domain.Appointment, error) {
	a, err := f.appointments.Add(ctx, in)
	if err != nil {
		return domain.Appointment{}, err
	}
	f.announce(ctx, "appointments", events.OpCreated, a.ID)
	return a, nil
}

func (f *Facade) UpdateAppointment(ctx context.Context, id string, patch domain.AppointmentPatch) (domain.Appointment, bool, error) {
	a, found, err := f.appointments.Update(ctx, id, patch)
	if err == nil && found {
		f.announce(ctx, "appointments", events.OpUpdated, id)
	}
	return a, found, err
}

func (f *Facade) DeleteAppointment(ctx context.Context, id string) (bool, error) {
	removed, err := f.appointments.Delete(ctx, id)
	if err == nil && removed {
		f.announce(ctx, "appointments", events.OpDeleted, id)
	}
	return removed, err
}

// Login authenticates against the directory. Failures leave the session as it was.
func (f *Facade) Login(ctx context.Context, email, password string) (domain.Identity, error) {
	id, err := f.session.Login(ctx, email, password)
	if err != nil {
		return domain.Identity{}, err
	}
	f.announce(ctx, "session", events.OpLogin, id.ID)
	return id, nil
}

func (f *Facade) Logout(ctx context.Context) error {
	err := f.session.Logout(ctx)
	f.announce(ctx, "session", events.OpLogout, "")
	return err
}

// Reload discards the in-memory collections and re-reads durable storage.
func (f *Facade) Reload(ctx context.Context) error {
	if f.reloader == nil {
		return nil
	}
	if err := f.reloader.Reload(ctx); err != nil {
		return err
	}
	f.announce(ctx, "*", events.OpReloaded, "")
	return nil
}

func (f *Facade) announce(ctx context.Context, collection string, op events.Op, id string) {
	c := events.Change{Collection: collection, Op: op, ID: id, At: f.now()}
	if err := f.publisher.Publish(context.WithoutCancel(ctx), c); err != nil {
		f.logger.Warn("failed to publish change",
			slog.String("collection", collection),
			slog.String("op", string(op)),
			slog.String("error", err.Error()),
		)
	}
}
