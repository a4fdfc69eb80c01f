package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"clinic_portal/internal/common"
	"clinic_portal/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByUsernameAndRole(ctx context.Context, username, role string) (*model.User, error)
	FindByDoctorID(ctx context.Context, doctorID string) (*model.User, error)
	FindByNationalID(ctx context.Context, nationalID string) (*model.User, error)
	ListDoctors(ctx context.Context) ([]model.DoctorListing, error)
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

const userColumns = `id, username, hashed_password, role, name, doctor_id, national_id, created_at, updated_at`

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, username, hashed_password, role, name, doctor_id, national_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.HashedPassword, user.Role, user.Name, user.DoctorID, user.NationalID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint violation
			return fmt.Errorf("user with given username or identifier already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *pgUserRepository) FindByUsernameAndRole(ctx context.Context, username, role string) (*model.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1 AND role = $2`, username, role)
}

func (r *pgUserRepository) FindByDoctorID(ctx context.Context, doctorID string) (*model.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE doctor_id = $1`, doctorID)
}

func (r *pgUserRepository) FindByNationalID(ctx context.Context, nationalID string) (*model.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE national_id = $1`, nationalID)
}

func (r *pgUserRepository) findOne(ctx context.Context, query string, args ...interface{}) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &user.Username, &user.HashedPassword, &user.Role, &user.Name,
		&user.DoctorID, &user.NationalID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.findOne: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) ListDoctors(ctx context.Context) ([]model.DoctorListing, error) {
	query := `SELECT id, name, doctor_id FROM users WHERE role = $1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, model.RoleDoctor)
	if err != nil {
		return nil, fmt.Errorf("pgUserRepository.ListDoctors: %w", err)
	}
	defer rows.Close()

	doctors := []model.DoctorListing{}
	for rows.Next() {
		var d model.DoctorListing
		if err := rows.Scan(&d.ID, &d.Name, &d.DoctorID); err != nil {
			return nil, fmt.Errorf("pgUserRepository.ListDoctors scan: %w", err)
		}
		doctors = append(doctors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgUserRepository.ListDoctors rows: %w", err)
	}
	return doctors, nil
}
