package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"clinic_portal/internal/common"
	"clinic_portal/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

// inMemoryState backs the repository mocks with maps so the full
// register -> book -> approve -> record flow can run against one dataset.
type inMemoryState struct {
	users        map[string]*model.User
	appointments map[string]*model.Appointment
	records      map[string]*model.HealthRecord
}

func newInMemoryState() *inMemoryState {
	return &inMemoryState{
		users:        map[string]*model.User{},
		appointments: map[string]*model.Appointment{},
		records:      map[string]*model.HealthRecord{},
	}
}

func (st *inMemoryState) userRepo() *MockUserRepository {
	return &MockUserRepository{
		CreateFunc: func(ctx context.Context, user *model.User) error {
			st.users[user.ID] = user
			return nil
		},
		FindByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			if u, ok := st.users[id]; ok {
				return u, nil
			}
			return nil, common.ErrNotFound
		},
		FindByUsernameAndRoleFunc: func(ctx context.Context, username, role string) (*model.User, error) {
			for _, u := range st.users {
				if u.Username == username && u.Role == role {
					return u, nil
				}
			}
			return nil, common.ErrNotFound
		},
		FindByDoctorIDFunc: func(ctx context.Context, doctorID string) (*model.User, error) {
			for _, u := range st.users {
				if u.DoctorID != nil && *u.DoctorID == doctorID {
					return u, nil
				}
			}
			return nil, common.ErrNotFound
		},
		FindByNationalIDFunc: func(ctx context.Context, nationalID string) (*model.User, error) {
			for _, u := range st.users {
				if u.NationalID != nil && *u.NationalID == nationalID {
					return u, nil
				}
			}
			return nil, common.ErrNotFound
		},
		ListDoctorsFunc: func(ctx context.Context) ([]model.DoctorListing, error) {
			doctors := []model.DoctorListing{}
			for _, u := range st.users {
				if u.Role == model.RoleDoctor {
					doctors = append(doctors, model.DoctorListing{ID: u.ID, Name: u.Name, DoctorID: *u.DoctorID})
				}
			}
			return doctors, nil
		},
	}
}

func (st *inMemoryState) appointmentRepo() *MockAppointmentRepository {
	return &MockAppointmentRepository{
		CreateFunc: func(ctx context.Context, tx *sql.Tx, appt *model.Appointment) error {
			st.appointments[appt.ID] = appt
			return nil
		},
		FindByIDFunc: func(ctx context.Context, id string) (*model.Appointment, error) {
			if a, ok := st.appointments[id]; ok {
				dup := *a
				return &dup, nil
			}
			return nil, common.ErrNotFound
		},
		ApprovedSlotExistsFunc: func(ctx context.Context, tx *sql.Tx, doctorID string, date time.Time) (bool, error) {
			for _, a := range st.appointments {
				if a.DoctorID == doctorID && a.Date.Equal(date) && a.Status == model.StatusApproved {
					return true, nil
				}
			}
			return false, nil
		},
		ListForPatientFunc: func(ctx context.Context, patientID string) ([]model.Appointment, error) {
			appts := []model.Appointment{}
			for _, a := range st.appointments {
				if a.PatientID == patientID {
					appts = append(appts, *a)
				}
			}
			return appts, nil
		},
		ListForDoctorFunc: func(ctx context.Context, doctorID string) ([]model.Appointment, error) {
			appts := []model.Appointment{}
			for _, a := range st.appointments {
				if a.DoctorID == doctorID {
					appts = append(appts, *a)
				}
			}
			return appts, nil
		},
		UpdateStatusFunc: func(ctx context.Context, id string, status model.AppointmentStatus) (*model.Appointment, error) {
			a, ok := st.appointments[id]
			if !ok {
				return nil, common.ErrNotFound
			}
			a.Status = status
			dup := *a
			return &dup, nil
		},
	}
}

func (st *inMemoryState) recordRepo() *MockHealthRecordRepository {
	return &MockHealthRecordRepository{
		CreateFunc: func(ctx context.Context, rec *model.HealthRecord) error {
			st.records[rec.ID] = rec
			return nil
		},
		ListForPatientFunc: func(ctx context.Context, patientID string) ([]model.HealthRecord, error) {
			records := []model.HealthRecord{}
			for _, r := range st.records {
				if r.PatientID == patientID {
					records = append(records, *r)
				}
			}
			return records, nil
		},
		ListForDoctorFunc: func(ctx context.Context, doctorID string) ([]model.HealthRecord, error) {
			records := []model.HealthRecord{}
			for _, r := range st.records {
				if r.DoctorID == doctorID {
					records = append(records, *r)
				}
			}
			return records, nil
		},
	}
}

func TestClinicFlow(t *testing.T) {
	ctx := context.Background()
	st := newInMemoryState()
	userRepo := st.userRepo()

	directory := NewDirectoryService(userRepo, newFakeStore())
	authSvc := NewAuthService(userRepo, directory)
	apptSvc := NewAppointmentService(st.appointmentRepo(), userRepo, newStubDB(t))
	recordSvc := NewHealthRecordService(st.recordRepo(), userRepo)

	// Register a doctor and a patient.
	doctorResp, err := authSvc.Register(ctx, RegisterRequest{
		Username: "dr1", Password: "secret", UserType: model.RoleDoctor, Name: "Dr. One", DoctorID: "DOC1",
	})
	assert.NoError(t, err)
	patientResp, err := authSvc.Register(ctx, RegisterRequest{
		Username: "p1", Password: "secret", UserType: model.RolePatient, Name: "Pat One", NationalID: "123456789012",
	})
	assert.NoError(t, err)

	// The new doctor is visible in the directory.
	doctors, err := directory.ListDoctors(ctx)
	assert.NoError(t, err)
	if assert.Len(t, doctors, 1) {
		assert.Equal(t, "DOC1", doctors[0].DoctorID)
	}

	// Patient books; the appointment starts pending.
	appt, err := apptSvc.Book(ctx, patientResp.User.ID, BookAppointmentRequest{
		DoctorID: doctorResp.User.ID, Date: "2024-01-01T10:00",
	})
	assert.NoError(t, err)
	assert.Equal(t, model.StatusPending, appt.Status)

	// A second booking at the same pending slot still succeeds.
	_, err = apptSvc.Book(ctx, patientResp.User.ID, BookAppointmentRequest{
		DoctorID: doctorResp.User.ID, Date: "2024-01-01T10:00",
	})
	assert.NoError(t, err)

	// Doctor approves the first one.
	approved, err := apptSvc.UpdateStatus(ctx, appt.ID, doctorResp.User.ID, model.StatusApproved)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusApproved, approved.Status)

	// Now the slot is taken.
	_, err = apptSvc.Book(ctx, patientResp.User.ID, BookAppointmentRequest{
		DoctorID: doctorResp.User.ID, Date: "2024-01-01T10:00",
	})
	assert.ErrorIs(t, err, common.ErrConflict)

	// Doctor records the visit.
	record, err := recordSvc.Add(ctx, doctorResp.User.ID, AddHealthRecordRequest{
		PatientID: patientResp.User.ID, Diagnosis: "flu", Prescription: "rest",
	})
	assert.NoError(t, err)

	// It appears in both participants' lists.
	mine, err := recordSvc.ListForPatient(ctx, patientResp.User.ID)
	assert.NoError(t, err)
	if assert.Len(t, mine, 1) {
		assert.Equal(t, record.ID, mine[0].ID)
	}
	authored, err := recordSvc.ListForDoctor(ctx, doctorResp.User.ID)
	assert.NoError(t, err)
	assert.Len(t, authored, 1)
}
