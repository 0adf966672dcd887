package storage

import (
	"fmt"
	"time"
)

// DateSchema names the date-typed fields of one record kind. Nested maps a
// field holding a list of objects to the date fields inside each element.
type DateSchema struct {
	Fields []string
	Nested map[string][]string
}

// Collection binds a slot key to the schema of the records stored there.
type Collection struct {
	Name   string
	Key    string
	Schema DateSchema
}

var (
	Tasks = Collection{
		Name:   "tasks",
		Key:    KeyTasks,
		Schema: DateSchema{Fields: []string{"dueDate", "createdAt"}},
	}
	Patients = Collection{
		Name: "patients",
		Key:  KeyPatients,
		Schema: DateSchema{
			Fields: []string{"dateOfBirth", "createdAt"},
			Nested: map[string][]string{"medicalHistory": {"diagnosedDate"}},
		},
	}
	Appointments = Collection{
		Name:   "appointments",
		Key:    KeyAppointments,
		Schema: DateSchema{Fields: []string{"date", "createdAt"}},
	}
)

// localLayout is a wall-clock timestamp without offset, read in local time.
const localLayout = "2006-01-02T15:04:05"

// dateOnlyLayout is read as UTC midnight.
const dateOnlyLayout = "2006-01-02"

// ParseDate accepts the timestamp shapes found in stored snapshots.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(localLayout, s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(dateOnlyLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// normalize rewrites every schema date field of rec to UTC RFC 3339.
// Fields that are missing or null are left alone.
func (s DateSchema) normalize(rec map[string]any) error {
	if err := normalizeFields(rec, s.Fields); err != nil {
		return err
	}
	for field, inner := range s.Nested {
		raw, ok := rec[field]
		if !ok || raw == nil {
			continue
		}
		items, ok := raw.([]any)
		if !ok {
			return fmt.Errorf("field %s: expected a list", field)
		}
		for i, item := range items {
			obj, ok := item.(map[string]any)
			if !ok {
				return fmt.Errorf("field %s[%d]: expected an object", field, i)
			}
			if err := normalizeFields(obj, inner); err != nil {
				return fmt.Errorf("field %s[%d]: %w", field, i, err)
			}
		}
	}
	return nil
}

func normalizeFields(rec map[string]any, fields []string) error {
	for _, f := range fields {
		raw, ok := rec[f]
		if !ok || raw == nil {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			return fmt.Errorf("field %s: expected a date string", f)
		}
		t, err := ParseDate(s)
		if err != nil {
			return fmt.Errorf("field %s: %w", f, err)
		}
		rec[f] = t.UTC().Format(time.RFC3339Nano)
	}
	return nil
}
