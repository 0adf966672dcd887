package repository

import (
	"context"

	"github.com/aryan0dhankhar/medops/internal/domain"
	"github.com/aryan0dhankhar/medops/internal/storage"
)

// PatientRepository implements domain.PatientRepository over the patients slot.
type PatientRepository struct {
	c    *collection[domain.Patient]
	opts options
}

var _ domain.PatientRepository = (*PatientRepository)(nil)

func NewPatientRepository(ctx context.Context, persist *storage.PersistentStore, opts ...Option) *PatientRepository {
	o := buildOptions(opts)
	r := &PatientRepository{
		c: newCollection(storage.Patients, persist, o,
			func(p domain.Patient) string { return p.ID },
			domain.Patient.Clone,
			DemoPatients),
		opts: o,
	}
	r.c.load(ctx)
	return r
}

func (r *PatientRepository) List() []domain.Patient { return r.c.list() }

func (r *PatientRepository) Get(id string) (domain.Patient, bool) { return r.c.get(id) }

func (r *PatientRepository) Add(ctx context.Context, in domain.PatientInput) (domain.Patient, error) {
	return r.c.add(ctx, in.Build(r.opts.newID(), r.opts.now()))
}

// Update merges patch into the patient. Deleting a patient or changing its
// name does not touch appointments that reference it.
func (r *PatientRepository) Update(ctx context.Context, id string, patch domain.PatientPatch) (domain.Patient, bool, error) {
	return r.c.update(ctx, id, patch.Apply)
}

func (r *PatientRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.c.remove(ctx, id)
}

func (r *PatientRepository) Reload(ctx context.Context) error { return r.c.reload(ctx) }

func (r *PatientRepository) Len() int { return r.c.size() }
