package handler

import (
	"fmt"
	"strings"

	"github.com/aryan0dhankhar/medops/internal/domain"
)

// Request validation. Store operations accept anything; these checks keep
// obviously broken records out of the API.

func validateTaskInput(in *domain.TaskInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return fmt.Errorf("title is required")
	}
	if in.Status == "" {
		in.Status = domain.TaskPending
	}
	if in.Priority == "" {
		in.Priority = domain.PriorityMedium
	}
	if !in.Status.Valid() {
		return fmt.Errorf("unknown status %q", in.Status)
	}
	if !in.Priority.Valid() {
		return fmt.Errorf("unknown priority %q", in.Priority)
	}
	if in.DueDate.IsZero() {
		return fmt.Errorf("dueDate is required")
	}
	return nil
}

func validateTaskPatch(p domain.TaskPatch) error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return fmt.Errorf("title cannot be empty")
	}
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("unknown status %q", *p.Status)
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return fmt.Errorf("unknown priority %q", *p.Priority)
	}
	return nil
}

func validatePatientInput(in *domain.PatientInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" {
		return fmt.Errorf("name is required")
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return fmt.Errorf("a valid email is required")
	}
	if in.Allergies == nil {
		in.Allergies = []string{}
	}
	if in.MedicalHistory == nil {
		in.MedicalHistory = []domain.MedicalRecord{}
	}
	return nil
}

func validatePatientPatch(p domain.PatientPatch) error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if p.Email != nil && !strings.Contains(*p.Email, "@") {
		return fmt.Errorf("a valid email is required")
	}
	return nil
}

// validateAppointmentInput fills patientName from the registry when omitted.
func validateAppointmentInput(in *domain.AppointmentInput, lookup func(string) (domain.Patient, bool)) error {
	if in.PatientID == "" {
		return fmt.Errorf("patientId is required")
	}
	if in.PatientName == "" {
		if p, ok := lookup(in.PatientID); ok {
			in.PatientName = p.Name
		} else {
			return fmt.Errorf("patientName is required for unknown patient %q", in.PatientID)
		}
	}
	if strings.TrimSpace(in.DoctorName) == "" {
		return fmt.Errorf("doctorName is required")
	}
	if in.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if in.Duration <= 0 {
		return fmt.Errorf("duration must be positive")
	}
	if in.Type == "" {
		in.Type = domain.TypeConsultation
	}
	if in.Status == "" {
		in.Status = domain.AppointmentScheduled
	}
	if !in.Status.Valid() {
		return fmt.Errorf("unknown status %q", in.Status)
	}
	return nil
}

func validateAppointmentPatch(p domain.AppointmentPatch) error {
	if p.Duration != nil && *p.Duration <= 0 {
		return fmt.Errorf("duration must be positive")
	}
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("unknown status %q", *p.Status)
	}
	if p.DoctorName != nil && strings.TrimSpace(*p.DoctorName) == "" {
		return fmt.Errorf("doctorName cannot be empty")
	}
	return nil
}
