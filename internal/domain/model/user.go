package model

import (
	"time"
)

const (
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"` // Not exposed
	Role           string    `json:"userType"`
	Name           string    `json:"name"`
	DoctorID       *string   `json:"doctorId,omitempty"`   // Set for doctors only
	NationalID     *string   `json:"nationalId,omitempty"` // Set for patients only
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DoctorListing is the directory view patients see when booking.
type DoctorListing struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	DoctorID string `json:"doctorId"`
}
