package repository

import (
	"context"

	"github.com/aryan0dhankhar/medops/internal/domain"
	"github.com/aryan0dhankhar/medops/internal/storage"
)

// TaskRepository implements domain.TaskRepository over the tasks slot.
type TaskRepository struct {
	c    *collection[domain.Task]
	opts options
}

var _ domain.TaskRepository = (*TaskRepository)(nil)

// NewTaskRepository loads the tasks slot, falling back to the demo tasks.
func NewTaskRepository(ctx context.Context, persist *storage.PersistentStore, opts ...Option) *TaskRepository {
	o := buildOptions(opts)
	r := &TaskRepository{
		c: newCollection(storage.Tasks, persist, o,
			func(t domain.Task) string { return t.ID },
			func(t domain.Task) domain.Task { return t },
			DemoTasks),
		opts: o,
	}
	r.c.load(ctx)
	return r
}

func (r *TaskRepository) List() []domain.Task { return r.c.list() }

func (r *TaskRepository) Get(id string) (domain.Task, bool) { return r.c.get(id) }

// Add assigns a fresh id and createdAt. The input is stored as given.
func (r *TaskRepository) Add(ctx context.Context, in domain.TaskInput) (domain.Task, error) {
	return r.c.add(ctx, in.Build(r.opts.newID(), r.opts.now()))
}

// Update merges patch into the task. found is false when no task has id.
func (r *TaskRepository) Update(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, bool, error) {
	return r.c.update(ctx, id, patch.Apply)
}

// Delete removes the task if present and rewrites the slot regardless.
func (r *TaskRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.c.remove(ctx, id)
}

// Reload re-reads the slot.
func (r *TaskRepository) Reload(ctx context.Context) error { return r.c.reload(ctx) }

func (r *TaskRepository) Len() int { return r.c.size() }
