package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"clinic_portal/internal/domain/model"
	"clinic_portal/internal/domain/repository"
	"clinic_portal/internal/platform/cache"
	"clinic_portal/internal/platform/config"
)

// DirectoryService serves the doctor listing patients browse when booking.
// The listing is cached in Redis; the cache is best-effort and every miss
// or cache failure falls back to Postgres.
type DirectoryService struct {
	userRepo repository.UserRepository
	store    cache.Store
}

func NewDirectoryService(userRepo repository.UserRepository, store cache.Store) *DirectoryService {
	return &DirectoryService{userRepo: userRepo, store: store}
}

func (s *DirectoryService) ListDoctors(ctx context.Context) ([]model.DoctorListing, error) {
	cached, err := s.store.Get(ctx, config.AppConfig.DoctorsCacheKey)
	if err == nil {
		var doctors []model.DoctorListing
		if err := json.Unmarshal([]byte(cached), &doctors); err == nil {
			return doctors, nil
		}
		log.Printf("WARN: Corrupt doctor directory cache entry, falling back to DB")
	} else if !errors.Is(err, cache.ErrMiss) {
		log.Printf("WARN: Doctor directory cache read failed: %v", err)
	}

	return s.RefreshDoctors(ctx)
}

// RefreshDoctors reloads the listing from the database and repopulates the cache.
func (s *DirectoryService) RefreshDoctors(ctx context.Context) ([]model.DoctorListing, error) {
	doctors, err := s.userRepo.ListDoctors(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(doctors)
	if err != nil {
		return doctors, nil // serve the listing even if it cannot be cached
	}
	if err := s.store.Set(ctx, config.AppConfig.DoctorsCacheKey, string(payload), config.AppConfig.DoctorsCacheTTL); err != nil {
		log.Printf("WARN: Doctor directory cache write failed: %v", err)
	}
	return doctors, nil
}

func (s *DirectoryService) InvalidateDoctors(ctx context.Context) error {
	return s.store.Del(ctx, config.AppConfig.DoctorsCacheKey)
}
