package domain

import (
	"context"
	"time"
)

// TaskStatus is the board column a task sits in.
type TaskStatus string

const (
	TaskPending  TaskStatus = "pending"
	TaskActive   TaskStatus = "active"
	TaskComplete TaskStatus = "complete"
)

// TaskStatuses lists the statuses in board order.
var TaskStatuses = []TaskStatus{TaskPending, TaskActive, TaskComplete}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskActive, TaskComplete:
		return true
	}
	return false
}

// Priority ranks a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a unit of clinical or operational work on the board.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Assignee    string     `json:"assignee"`
	Status      TaskStatus `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     time.Time  `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// TaskInput carries every task field except the ones the store assigns.
type TaskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Assignee    string     `json:"assignee"`
	Status      TaskStatus `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     time.Time  `json:"dueDate"`
}

// Build materializes the input into a task with the given identity fields.
func (in TaskInput) Build(id string, createdAt time.Time) Task {
	return Task{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Assignee:    in.Assignee,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		CreatedAt:   createdAt,
	}
}

// TaskPatch is a partial update. Nil fields are left unchanged.
type TaskPatch struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Assignee    *string     `json:"assignee,omitempty"`
	Status      *TaskStatus `json:"status,omitempty"`
	Priority    *Priority   `json:"priority,omitempty"`
	DueDate     *time.Time  `json:"dueDate,omitempty"`
}

// Apply merges the patch over t and returns the result.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Assignee != nil {
		t.Assignee = *p.Assignee
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	return t
}

// TaskRepository is the task collection as seen by the access layer.
type TaskRepository interface {
	List() []Task
	Get(id string) (Task, bool)
	Add(ctx context.Context, in TaskInput) (Task, error)
	Update(ctx context.Context, id string, patch TaskPatch) (Task, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}
