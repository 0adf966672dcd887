// Package storage persists whole collections as JSON snapshots in named
// durable slots and rebuilds typed date fields when reading them back.
package storage

import "context"

// Slot keys. The names match the keys the dashboard has always used so
// existing data keeps loading.
const (
	KeyTasks        = "medops_tasks"
	KeyPatients     = "medops_patients"
	KeyAppointments = "medops_appointments"
	KeyIdentity     = "medops_user"
)

// SlotStore is a durable key-value medium holding one text value per key.
// Get reports ok=false for a key that was never written or was deleted.
type SlotStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
