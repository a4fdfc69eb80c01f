package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"clinic_portal/internal/common"
	"clinic_portal/internal/domain/model"
	"clinic_portal/internal/domain/repository"

	"github.com/google/uuid"
)

type AppointmentService struct {
	appointmentRepo repository.AppointmentRepository
	userRepo        repository.UserRepository
	db              *sql.DB // For transactions
}

func NewAppointmentService(
	appointmentRepo repository.AppointmentRepository,
	userRepo repository.UserRepository,
	db *sql.DB,
) *AppointmentService {
	return &AppointmentService{
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
		db:              db,
	}
}

type BookAppointmentRequest struct {
	DoctorID string `json:"doctorId"`
	Date     string `json:"date"`
}

// Booking forms send local datetimes without a zone; API clients send RFC 3339.
var bookingDateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"}

func parseBookingDate(raw string) (time.Time, error) {
	for _, layout := range bookingDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, common.Errorf("invalid appointment date %q: %w", raw, common.ErrValidation)
}

func (s *AppointmentService) Book(ctx context.Context, patientID string, req BookAppointmentRequest) (*model.Appointment, error) {
	if req.DoctorID == "" || req.Date == "" {
		return nil, common.Errorf("doctorId and date are required: %w", common.ErrValidation)
	}
	date, err := parseBookingDate(req.Date)
	if err != nil {
		return nil, err
	}

	doctor, err := s.userRepo.FindByID(ctx, req.DoctorID)
	if err != nil || doctor.Role != model.RoleDoctor {
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up doctor: %w", err)
		}
		return nil, common.Errorf("doctor not found: %w", common.ErrNotFound)
	}

	appointment := &model.Appointment{
		ID:        uuid.NewString(),
		PatientID: patientID,
		DoctorID:  doctor.ID,
		Date:      date,
		Status:    model.StatusPending,
	}

	// Conflict check and insert share a transaction; the partial unique index
	// on approved slots backstops concurrent bookings that race past the check.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	taken, err := s.appointmentRepo.ApprovedSlotExists(ctx, tx, doctor.ID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to check slot availability: %w", err)
	}
	if taken {
		return nil, common.Errorf("this time slot is already booked: %w", common.ErrConflict)
	}

	if err := s.appointmentRepo.Create(ctx, tx, appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}
	return appointment, nil
}

func (s *AppointmentService) ListForPatient(ctx context.Context, patientID string) ([]model.Appointment, error) {
	return s.appointmentRepo.ListForPatient(ctx, patientID)
}

func (s *AppointmentService) ListForDoctor(ctx context.Context, doctorID string) ([]model.Appointment, error) {
	return s.appointmentRepo.ListForDoctor(ctx, doctorID)
}

// UpdateStatus sets an appointment's status. Only the doctor referenced on
// the appointment may do so; any valid status can replace any prior one.
func (s *AppointmentService) UpdateStatus(ctx context.Context, appointmentID, requesterID string, status model.AppointmentStatus) (*model.Appointment, error) {
	if !status.IsValid() {
		return nil, common.Errorf("status must be pending, approved or rejected: %w", common.ErrValidation)
	}

	appointment, err := s.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("appointment not found: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load appointment: %w", err)
	}

	if appointment.DoctorID != requesterID {
		return nil, common.Errorf("not authorized to update this appointment: %w", common.ErrForbidden)
	}

	return s.appointmentRepo.UpdateStatus(ctx, appointmentID, status)
}
