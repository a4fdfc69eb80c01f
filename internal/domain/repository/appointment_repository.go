package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"clinic_portal/internal/common"
	"clinic_portal/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type AppointmentRepository interface {
	Create(ctx context.Context, tx *sql.Tx, appt *model.Appointment) error
	FindByID(ctx context.Context, id string) (*model.Appointment, error)
	ApprovedSlotExists(ctx context.Context, tx *sql.Tx, doctorID string, date time.Time) (bool, error)
	ListForPatient(ctx context.Context, patientID string) ([]model.Appointment, error)
	ListForDoctor(ctx context.Context, doctorID string) ([]model.Appointment, error)
	UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) (*model.Appointment, error)
}

type pgAppointmentRepository struct {
	db *sql.DB
}

func NewPgAppointmentRepository(db *sql.DB) AppointmentRepository {
	return &pgAppointmentRepository{db: db}
}

func (r *pgAppointmentRepository) Create(ctx context.Context, tx *sql.Tx, appt *model.Appointment) error {
	query := `INSERT INTO appointments (id, patient_id, doctor_id, date, status)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING created_at, updated_at`
	err := tx.QueryRowContext(ctx, query,
		appt.ID, appt.PatientID, appt.DoctorID, appt.Date, appt.Status,
	).Scan(&appt.CreatedAt, &appt.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // approved-slot unique index
			return fmt.Errorf("slot already booked: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgAppointmentRepository.Create: %w", err)
	}
	return nil
}

func (r *pgAppointmentRepository) FindByID(ctx context.Context, id string) (*model.Appointment, error) {
	query := `SELECT id, patient_id, doctor_id, date, status, created_at, updated_at
	          FROM appointments WHERE id = $1`
	appt := &model.Appointment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&appt.ID, &appt.PatientID, &appt.DoctorID, &appt.Date, &appt.Status,
		&appt.CreatedAt, &appt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgAppointmentRepository.FindByID: %w", err)
	}
	return appt, nil
}

func (r *pgAppointmentRepository) ApprovedSlotExists(ctx context.Context, tx *sql.Tx, doctorID string, date time.Time) (bool, error) {
	query := `SELECT EXISTS (
	            SELECT 1 FROM appointments
	            WHERE doctor_id = $1 AND date = $2 AND status = $3
	          )`
	var exists bool
	err := tx.QueryRowContext(ctx, query, doctorID, date, model.StatusApproved).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("pgAppointmentRepository.ApprovedSlotExists: %w", err)
	}
	return exists, nil
}

func (r *pgAppointmentRepository) ListForPatient(ctx context.Context, patientID string) ([]model.Appointment, error) {
	query := `SELECT a.id, a.patient_id, a.doctor_id, a.date, a.status, a.created_at, a.updated_at,
	                 d.name, COALESCE(d.doctor_id, '')
	          FROM appointments a
	          JOIN users d ON d.id = a.doctor_id
	          WHERE a.patient_id = $1
	          ORDER BY a.date ASC`
	rows, err := r.db.QueryContext(ctx, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("pgAppointmentRepository.ListForPatient: %w", err)
	}
	defer rows.Close()

	appts := []model.Appointment{}
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.Date, &a.Status,
			&a.CreatedAt, &a.UpdatedAt, &a.DoctorName, &a.DoctorRegistryID); err != nil {
			return nil, fmt.Errorf("pgAppointmentRepository.ListForPatient scan: %w", err)
		}
		appts = append(appts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgAppointmentRepository.ListForPatient rows: %w", err)
	}
	return appts, nil
}

func (r *pgAppointmentRepository) ListForDoctor(ctx context.Context, doctorID string) ([]model.Appointment, error) {
	query := `SELECT a.id, a.patient_id, a.doctor_id, a.date, a.status, a.created_at, a.updated_at,
	                 p.name, COALESCE(p.national_id, '')
	          FROM appointments a
	          JOIN users p ON p.id = a.patient_id
	          WHERE a.doctor_id = $1
	          ORDER BY a.date ASC`
	rows, err := r.db.QueryContext(ctx, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("pgAppointmentRepository.ListForDoctor: %w", err)
	}
	defer rows.Close()

	appts := []model.Appointment{}
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.Date, &a.Status,
			&a.CreatedAt, &a.UpdatedAt, &a.PatientName, &a.PatientNationalID); err != nil {
			return nil, fmt.Errorf("pgAppointmentRepository.ListForDoctor scan: %w", err)
		}
		appts = append(appts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgAppointmentRepository.ListForDoctor rows: %w", err)
	}
	return appts, nil
}

func (r *pgAppointmentRepository) UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) (*model.Appointment, error) {
	query := `UPDATE appointments SET status = $2, updated_at = now()
	          WHERE id = $1
	          RETURNING id, patient_id, doctor_id, date, status, created_at, updated_at`
	appt := &model.Appointment{}
	err := r.db.QueryRowContext(ctx, query, id, status).Scan(
		&appt.ID, &appt.PatientID, &appt.DoctorID, &appt.Date, &appt.Status,
		&appt.CreatedAt, &appt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // approving an already-taken slot
			return nil, fmt.Errorf("slot already booked: %w", common.ErrConflict)
		}
		return nil, fmt.Errorf("pgAppointmentRepository.UpdateStatus: %w", err)
	}
	return appt, nil
}
