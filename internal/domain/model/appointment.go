package model

import (
	"time"
)

type AppointmentStatus string

const (
	StatusPending  AppointmentStatus = "pending"
	StatusApproved AppointmentStatus = "approved"
	StatusRejected AppointmentStatus = "rejected"
)

// IsValid reports whether s is one of the known appointment statuses.
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type Appointment struct {
	ID        string            `json:"id"`
	PatientID string            `json:"patientId"`
	DoctorID  string            `json:"doctorId"`
	Date      time.Time         `json:"date"`
	Status    AppointmentStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`

	// Counterpart details, populated on list queries.
	DoctorName        string `json:"doctorName,omitempty"`
	DoctorRegistryID  string `json:"doctorRegistryId,omitempty"`
	PatientName       string `json:"patientName,omitempty"`
	PatientNationalID string `json:"patientNationalId,omitempty"`
}
