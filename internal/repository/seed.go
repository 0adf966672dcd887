package repository

import (
	"time"

	"github.com/aryan0dhankhar/medops/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DemoTasks is the board shown on a fresh install.
func DemoTasks() []domain.Task {
	return []domain.Task{
		{
			ID:          "1",
			Title:       "Review Patient Charts",
			Description: "Review and update patient charts for morning rounds",
			Assignee:    "Dr. Sarah Johnson",
			Status:      domain.TaskPending,
			Priority:    domain.PriorityHigh,
			DueDate:     day(2025, time.January, 15),
			CreatedAt:   day(2025, time.January, 10),
		},
		{
			ID:          "2",
			Title:       "Medication Inventory",
			Description: "Check and update medication inventory levels",
			Assignee:    "Emily Chen",
			Status:      domain.TaskActive,
			Priority:    domain.PriorityMedium,
			DueDate:     day(2025, time.January, 14),
			CreatedAt:   day(2025, time.January, 9),
		},
		{
			ID:          "3",
			Title:       "Equipment Maintenance",
			Description: "Perform routine maintenance on ICU equipment",
			Assignee:    "Michael Rodriguez",
			Status:      domain.TaskComplete,
			Priority:    domain.PriorityHigh,
			DueDate:     day(2025, time.January, 12),
			CreatedAt:   day(2025, time.January, 8),
		},
	}
}

// DemoPatients is the registry shown on a fresh install.
func DemoPatients() []domain.Patient {
	return []domain.Patient{
		{
			ID:          "1",
			Name:        "John Smith",
			Email:       "john.smith@email.com",
			Phone:       "+1 (555) 123-4567",
			DateOfBirth: day(1980, time.May, 15),
			Address:     "123 Main St, Anytown, USA",
			EmergencyContact: domain.EmergencyContact{
				Name:         "Jane Smith",
				Phone:        "+1 (555) 987-6543",
				Relationship: "Spouse",
			},
			MedicalHistory: []domain.MedicalRecord{
				{Condition: "Hypertension", DiagnosedDate: day(2020, time.March, 10), Status: "Ongoing"},
				{Condition: "Type 2 Diabetes", DiagnosedDate: day(2019, time.November, 22), Status: "Managed"},
			},
			Allergies: []string{"Penicillin", "Shellfish"},
			BloodType: "A+",
			CreatedAt: day(2025, time.January, 1),
		},
		{
			ID:          "2",
			Name:        "Maria Garcia",
			Email:       "maria.garcia@email.com",
			Phone:       "+1 (555) 234-5678",
			DateOfBirth: day(1995, time.December, 8),
			Address:     "456 Oak Ave, Somewhere, USA",
			EmergencyContact: domain.EmergencyContact{
				Name:         "Carlos Garcia",
				Phone:        "+1 (555) 876-5432",
				Relationship: "Father",
			},
			MedicalHistory: []domain.MedicalRecord{
				{Condition: "Asthma", DiagnosedDate: day(2010, time.June, 15), Status: "Controlled"},
			},
			Allergies: []string{"Dust mites"},
			BloodType: "O-",
			CreatedAt: day(2025, time.January, 2),
		},
	}
}

// DemoAppointments is the schedule shown on a fresh install.
func DemoAppointments() []domain.Appointment {
	return []domain.Appointment{
		{
			ID:          "1",
			PatientID:   "1",
			PatientName: "John Smith",
			DoctorName:  "Dr. Sarah Johnson",
			Date:        time.Date(2025, time.January, 15, 9, 0, 0, 0, time.UTC),
			Duration:    30,
			Type:        domain.TypeConsultation,
			Status:      domain.AppointmentScheduled,
			Notes:       "Follow-up appointment for hypertension monitoring",
			CreatedAt:   day(2025, time.January, 10),
		},
		{
			ID:          "2",
			PatientID:   "2",
			PatientName: "Maria Garcia",
			DoctorName:  "Dr. Sarah Johnson",
			Date:        time.Date(2025, time.January, 15, 10, 30, 0, 0, time.UTC),
			Duration:    45,
			Type:        domain.TypeTelemedicine,
			Status:      domain.AppointmentScheduled,
			Notes:       "Remote consultation for asthma management",
			CreatedAt:   day(2025, time.January, 11),
		},
	}
}
