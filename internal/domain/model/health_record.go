package model

import (
	"time"
)

type HealthRecord struct {
	ID           string    `json:"id"`
	PatientID    string    `json:"patientId"`
	DoctorID     string    `json:"doctorId"`
	Diagnosis    string    `json:"diagnosis"`
	Prescription string    `json:"prescription"`
	Date         time.Time `json:"date"`

	// Counterpart details, populated on list queries.
	DoctorName        string `json:"doctorName,omitempty"`
	DoctorRegistryID  string `json:"doctorRegistryId,omitempty"`
	PatientName       string `json:"patientName,omitempty"`
	PatientNationalID string `json:"patientNationalId,omitempty"`
}
