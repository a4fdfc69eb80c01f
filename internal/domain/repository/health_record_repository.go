package repository

import (
	"context"
	"database/sql"
	"fmt"

	"clinic_portal/internal/domain/model"
)

type HealthRecordRepository interface {
	Create(ctx context.Context, rec *model.HealthRecord) error
	ListForPatient(ctx context.Context, patientID string) ([]model.HealthRecord, error)
	ListForDoctor(ctx context.Context, doctorID string) ([]model.HealthRecord, error)
}

type pgHealthRecordRepository struct {
	db *sql.DB
}

func NewPgHealthRecordRepository(db *sql.DB) HealthRecordRepository {
	return &pgHealthRecordRepository{db: db}
}

func (r *pgHealthRecordRepository) Create(ctx context.Context, rec *model.HealthRecord) error {
	query := `INSERT INTO health_records (id, patient_id, doctor_id, diagnosis, prescription, date)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.PatientID, rec.DoctorID, rec.Diagnosis, rec.Prescription, rec.Date)
	if err != nil {
		return fmt.Errorf("pgHealthRecordRepository.Create: %w", err)
	}
	return nil
}

func (r *pgHealthRecordRepository) ListForPatient(ctx context.Context, patientID string) ([]model.HealthRecord, error) {
	query := `SELECT h.id, h.patient_id, h.doctor_id, h.diagnosis, h.prescription, h.date,
	                 d.name, COALESCE(d.doctor_id, '')
	          FROM health_records h
	          JOIN users d ON d.id = h.doctor_id
	          WHERE h.patient_id = $1
	          ORDER BY h.date DESC`
	rows, err := r.db.QueryContext(ctx, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("pgHealthRecordRepository.ListForPatient: %w", err)
	}
	defer rows.Close()

	records := []model.HealthRecord{}
	for rows.Next() {
		var h model.HealthRecord
		if err := rows.Scan(&h.ID, &h.PatientID, &h.DoctorID, &h.Diagnosis, &h.Prescription,
			&h.Date, &h.DoctorName, &h.DoctorRegistryID); err != nil {
			return nil, fmt.Errorf("pgHealthRecordRepository.ListForPatient scan: %w", err)
		}
		records = append(records, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgHealthRecordRepository.ListForPatient rows: %w", err)
	}
	return records, nil
}

func (r *pgHealthRecordRepository) ListForDoctor(ctx context.Context, doctorID string) ([]model.HealthRecord, error) {
	query := `SELECT h.id, h.patient_id, h.doctor_id, h.diagnosis, h.prescription, h.date,
	                 p.name, COALESCE(p.national_id, '')
	          FROM health_records h
	          JOIN users p ON p.id = h.patient_id
	          WHERE h.doctor_id = $1
	          ORDER BY h.date DESC`
	rows, err := r.db.QueryContext(ctx, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("pgHealthRecordRepository.ListForDoctor: %w", err)
	}
	defer rows.Close()

	records := []model.HealthRecord{}
	for rows.Next() {
		var h model.HealthRecord
		if err := rows.Scan(&h.ID, &h.PatientID, &h.DoctorID, &h.Diagnosis, &h.Prescription,
			&h.Date, &h.PatientName, &h.PatientNationalID); err != nil {
			return nil, fmt.Errorf("pgHealthRecordRepository.ListForDoctor scan: %w", err)
		}
		records = append(records, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgHealthRecordRepository.ListForDoctor rows: %w", err)
	}
	return records, nil
}
