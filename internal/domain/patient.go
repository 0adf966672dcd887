package domain

import (
	"context"
	"time"
)

// EmergencyContact is the person to call for a patient.
type EmergencyContact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

// MedicalRecord is one entry of a patient's history.
type MedicalRecord struct {
	Condition     string    `json:"condition"`
	DiagnosedDate time.Time `json:"diagnosedDate"`
	Status        string    `json:"status"`
}

// Patient is a registry entry.
type Patient struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone"`
	DateOfBirth      time.Time        `json:"dateOfBirth"`
	Address          string           `json:"address"`
	EmergencyContact EmergencyContact `json:"emergencyContact"`
	MedicalHistory   []MedicalRecord  `json:"medicalHistory"`
	Allergies        []string         `json:"allergies"`
	BloodType        string           `json:"bloodType"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// Clone returns a deep copy of p.
func (p Patient) Clone() Patient {
	if p.MedicalHistory != nil {
		p.MedicalHistory = append([]MedicalRecord(nil), p.MedicalHistory...)
	}
	if p.Allergies != nil {
		p.Allergies = append([]string(nil), p.Allergies...)
	}
	return p
}

// PatientInput carries every patient field except the ones the store assigns.
type PatientInput struct {
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone"`
	DateOfBirth      time.Time        `json:"dateOfBirth"`
	Address          string           `json:"address"`
	EmergencyContact EmergencyContact `json:"emergencyContact"`
	MedicalHistory   []MedicalRecord  `json:"medicalHistory"`
	Allergies        []string         `json:"allergies"`
	BloodType        string           `json:"bloodType"`
}

func (in PatientInput) Build(id string, createdAt time.Time) Patient {
	return Patient{
		ID:               id,
		Name:             in.Name,
		Email:            in.Email,
		Phone:            in.Phone,
		DateOfBirth:      in.DateOfBirth,
		Address:          in.Address,
		EmergencyContact: in.EmergencyContact,
		MedicalHistory:   in.MedicalHistory,
		Allergies:        in.Allergies,
		BloodType:        in.BloodType,
		CreatedAt:        createdAt,
	}.Clone()
}

// PatientPatch is a partial update. List fields replace the whole list.
type PatientPatch struct {
	Name             *string           `json:"name,omitempty"`
	Email            *string           `json:"email,omitempty"`
	Phone            *string           `json:"phone,omitempty"`
	DateOfBirth      *time.Time        `json:"dateOfBirth,omitempty"`
	Address          *string           `json:"address,omitempty"`
	EmergencyContact *EmergencyContact `json:"emergencyContact,omitempty"`
	MedicalHistory   *[]MedicalRecord  `json:"medicalHistory,omitempty"`
	Allergies        *[]string         `json:"allergies,omitempty"`
	BloodType        *string           `json:"bloodType,omitempty"`
}

func (p PatientPatch) Apply(pt Patient) Patient {
	if p.Name != nil {
		pt.Name = *p.Name
	}
	if p.Email != nil {
		pt.Email = *p.Email
	}
	if p.Phone != nil {
		pt.Phone = *p.Phone
	}
	if p.DateOfBirth != nil {
		pt.DateOfBirth = *p.DateOfBirth
	}
	if p.Address != nil {
		pt.Address = *p.Address
	}
	if p.EmergencyContact != nil {
		pt.EmergencyContact = *p.EmergencyContact
	}
	if p.MedicalHistory != nil {
		pt.MedicalHistory = *p.MedicalHistory
	}
	if p.Allergies != nil {
		pt.Allergies = *p.Allergies
	}
	if p.BloodType != nil {
		pt.BloodType = *p.BloodType
	}
	return pt.Clone()
}

// PatientRepository is the patient collection as seen by the access layer.
type PatientRepository interface {
	List() []Patient
	Get(id string) (Patient, bool)
	Add(ctx context.Context, in PatientInput) (Patient, error)
	Update(ctx context.Context, id string, patch PatientPatch) (Patient, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}
