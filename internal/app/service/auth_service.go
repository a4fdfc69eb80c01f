package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"

	"clinic_portal/internal/common"
	"clinic_portal/internal/common/security"
	"clinic_portal/internal/domain/model"
	"clinic_portal/internal/domain/repository"

	"github.com/google/uuid"
)

// National IDs are 12-digit numeric strings.
var nationalIDPattern = regexp.MustCompile(`^[0-9]{12}$`)

type AuthService struct {
	userRepo  repository.UserRepository
	directory *DirectoryService
}

func NewAuthService(userRepo repository.UserRepository, directory *DirectoryService) *AuthService {
	return &AuthService{userRepo: userRepo, directory: directory}
}

type RegisterRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	UserType   string `json:"userType"`
	Name       string `json:"name"`
	DoctorID   string `json:"doctorId,omitempty"`
	NationalID string `json:"nationalId,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	UserType string `json:"userType"`
}

// UserSummary is the identity payload returned alongside a token.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	UserType string `json:"userType"`
	Name     string `json:"name"`
}

type AuthResponse struct {
	User  UserSummary `json:"user"`
	Token string      `json:"token"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if req.Username == "" || req.Password == "" || req.Name == "" {
		return nil, common.Errorf("username, password and name are required: %w", common.ErrValidation)
	}
	if req.UserType != model.RoleDoctor && req.UserType != model.RolePatient {
		return nil, common.Errorf("userType must be doctor or patient: %w", common.ErrValidation)
	}

	switch req.UserType {
	case model.RoleDoctor:
		if req.DoctorID == "" {
			return nil, common.Errorf("doctor ID is required for doctors: %w", common.ErrValidation)
		}
		if req.NationalID != "" {
			return nil, common.Errorf("national ID should not be set for doctors: %w", common.ErrValidation)
		}
	case model.RolePatient:
		if !nationalIDPattern.MatchString(req.NationalID) {
			return nil, common.Errorf("a 12-digit national ID is required for patients: %w", common.ErrValidation)
		}
		if req.DoctorID != "" {
			return nil, common.Errorf("doctor ID should not be set for patients: %w", common.ErrValidation)
		}
	}

	// Username is unique within a role; the role-specific IDs are unique globally.
	if _, err := s.userRepo.FindByUsernameAndRole(ctx, req.Username, req.UserType); err == nil {
		return nil, common.Errorf("username already exists for %ss: %w", req.UserType, common.ErrValidation)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	if req.UserType == model.RoleDoctor {
		if _, err := s.userRepo.FindByDoctorID(ctx, req.DoctorID); err == nil {
			return nil, common.Errorf("doctor ID already exists: %w", common.ErrValidation)
		} else if !errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("failed to check doctor ID: %w", err)
		}
	} else {
		if _, err := s.userRepo.FindByNationalID(ctx, req.NationalID); err == nil {
			return nil, common.Errorf("national ID already exists: %w", common.ErrValidation)
		} else if !errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("failed to check national ID: %w", err)
		}
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		HashedPassword: hashedPassword,
		Role:           req.UserType,
		Name:           req.Name,
	}
	if req.UserType == model.RoleDoctor {
		user.DoctorID = &req.DoctorID
	} else {
		user.NationalID = &req.NationalID
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Repo returns common.ErrConflict when a concurrent registration won the race.
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if user.Role == model.RoleDoctor {
		// New doctor should show up in the booking directory right away.
		if err := s.directory.InvalidateDoctors(ctx); err != nil {
			log.Printf("WARN: Failed to invalidate doctor directory cache: %v", err)
		}
	}

	token, err := security.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{User: summarize(user), Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, common.ErrBadRequest
	}
	if req.UserType != model.RoleDoctor && req.UserType != model.RolePatient {
		return nil, common.Errorf("userType must be doctor or patient: %w", common.ErrValidation)
	}

	user, err := s.userRepo.FindByUsernameAndRole(ctx, req.Username, req.UserType)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("invalid credentials: %w", common.ErrUnauthorized) // Generic message for security
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.Errorf("invalid credentials: %w", common.ErrUnauthorized)
	}

	token, err := security.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{User: summarize(user), Token: token}, nil
}

func summarize(user *model.User) UserSummary {
	return UserSummary{
		ID:       user.ID,
		Username: user.Username,
		UserType: user.Role,
		Name:     user.Name,
	}
}
