package domain

import (
	"context"
	"strings"
	"time"
)

// AppointmentStatus tracks an appointment through its life.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentScheduled, AppointmentConfirmed, AppointmentCompleted, AppointmentCancelled:
		return true
	}
	return false
}

// Well-known appointment types. The type field itself is free-form.
const (
	TypeConsultation = "Consultation"
	TypeTelemedicine = "Telemedicine"
	TypeFollowUp     = "Follow-up"
	TypeEmergency    = "Emergency"
)

// Appointment is a scheduled encounter with a patient. PatientName is copied
// at creation time and is not kept in sync with the patient record.
type Appointment struct {
	ID          string            `json:"id"`
	PatientID   string            `json:"patientId"`
	PatientName string            `json:"patientName"`
	DoctorName  string            `json:"doctorName"`
	Date        time.Time         `json:"date"`
	Duration    int               `json:"duration"`
	Type        string            `json:"type"`
	Status      AppointmentStatus `json:"status"`
	Notes       string            `json:"notes,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// IsTelemedicine reports whether the appointment is a remote visit.
func (a Appointment) IsTelemedicine() bool {
	return strings.EqualFold(a.Type, TypeTelemedicine)
}

type AppointmentInput struct {
	PatientID   string            `json:"patientId"`
	PatientName string            `json:"patientName"`
	DoctorName  string            `json:"doctorName"`
	Date        time.Time         `json:"date"`
	Duration    int               `json:"duration"`
	Type        string            `json:"type"`
	Status      AppointmentStatus `json:"status"`
	Notes       string            `json:"notes,omitempty"`
}

func (in AppointmentInput) Build(id string, createdAt time.Time) Appointment {
	return Appointment{
		ID:          id,
		PatientID:   in.PatientID,
		PatientName: in.PatientName,
		DoctorName:  in.DoctorName,
		Date:        in.Date,
		Duration:    in.Duration,
		Type:        in.Type,
		Status:      in.Status,
		Notes:       in.Notes,
		CreatedAt:   createdAt,
	}
}

type AppointmentPatch struct {
	PatientID   *string            `json:"patientId,omitempty"`
	PatientName *string            `json:"patientName,omitempty"`
	DoctorName  *string            `json:"doctorName,omitempty"`
	Date        *time.Time         `json:"date,omitempty"`
	Duration    *int               `json:"duration,omitempty"`
	Type        *string            `json:"type,omitempty"`
	Status      *AppointmentStatus `json:"status,omitempty"`
	Notes       *string            `json:"notes,omitempty"`
}

func (p AppointmentPatch) Apply(a Appointment) Appointment {
	if p.PatientID != nil {
		a.PatientID = *p.PatientID
	}
	if p.PatientName != nil {
		a.PatientName = *p.PatientName
	}
	if p.DoctorName != nil {
		a.DoctorName = *p.DoctorName
	}
	if p.Date != nil {
		a.Date = *p.Date
	}
	if p.Duration != nil {
		a.Duration = *p.Duration
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.Notes != nil {
		a.Notes = *p.Notes
	}
	return a
}

// AppointmentRepository is the appointment collection as seen by the access layer.
type AppointmentRepository interface {
	List() []Appointment
	Get(id string) (Appointment, bool)
	Add(ctx context.Context, in AppointmentInput) (Appointment, error)
	Update(ctx context.Context, id string, patch AppointmentPatch) (Appointment, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}
