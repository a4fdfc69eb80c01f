package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic_portal/internal/common"
	"clinic_portal/internal/domain/model"
	"clinic_portal/internal/domain/repository"

	"github.com/google/uuid"
)

type HealthRecordService struct {
	recordRepo repository.HealthRecordRepository
	userRepo   repository.UserRepository
}

func NewHealthRecordService(recordRepo repository.HealthRecordRepository, userRepo repository.UserRepository) *HealthRecordService {
	return &HealthRecordService{recordRepo: recordRepo, userRepo: userRepo}
}

type AddHealthRecordRequest struct {
	PatientID    string `json:"patientId"`
	Diagnosis    string `json:"diagnosis"`
	Prescription string `json:"prescription"`
}

// Add creates an immutable record authored by the authenticated doctor.
func (s *HealthRecordService) Add(ctx context.Context, doctorID string, req AddHealthRecordRequest) (*model.HealthRecord, error) {
	if req.PatientID == "" || req.Diagnosis == "" || req.Prescription == "" {
		return nil, common.Errorf("patientId, diagnosis and prescription are required: %w", common.ErrValidation)
	}

	patient, err := s.userRepo.FindByID(ctx, req.PatientID)
	if err != nil || patient.Role != model.RolePatient {
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up patient: %w", err)
		}
		return nil, common.Errorf("patient not found: %w", common.ErrNotFound)
	}

	record := &model.HealthRecord{
		ID:           uuid.NewString(),
		PatientID:    patient.ID,
		DoctorID:     doctorID,
		Diagnosis:    req.Diagnosis,
		Prescription: req.Prescription,
		Date:         time.Now().UTC(),
	}

	if err := s.recordRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create health record: %w", err)
	}
	return record, nil
}

func (s *HealthRecordService) ListForPatient(ctx context.Context, patientID string) ([]model.HealthRecord, error) {
	return s.recordRepo.ListForPatient(ctx, patientID)
}

func (s *HealthRecordService) ListForDoctor(ctx context.Context, doctorID string) ([]model.HealthRecord, error) {
	return s.recordRepo.ListForDoctor(ctx, doctorID)
}
