package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"clinic_portal/internal/app/service"
	"clinic_portal/internal/domain/model"
	"clinic_portal/internal/domain/repository"
	"clinic_portal/internal/platform/cache"
	"clinic_portal/internal/platform/config"

	"github.com/stretchr/testify/assert"
)

var _ repository.UserRepository = (*countingUserRepo)(nil)

// countingUserRepo only serves ListDoctors; the warmer touches nothing else.
type countingUserRepo struct {
	listCalls int32
}

func (r *countingUserRepo) Create(ctx context.Context, user *model.User) error { return nil }
func (r *countingUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return nil, nil
}
func (r *countingUserRepo) FindByUsernameAndRole(ctx context.Context, username, role string) (*model.User, error) {
	return nil, nil
}
func (r *countingUserRepo) FindByDoctorID(ctx context.Context, doctorID string) (*model.User, error) {
	return nil, nil
}
func (r *countingUserRepo) FindByNationalID(ctx context.Context, nationalID string) (*model.User, error) {
	return nil, nil
}
func (r *countingUserRepo) ListDoctors(ctx context.Context) ([]model.DoctorListing, error) {
	atomic.AddInt32(&r.listCalls, 1)
	return []model.DoctorListing{{ID: "doc-1", Name: "Dr. One", DoctorID: "DOC1"}}, nil
}

var _ cache.Store = (*mapStore)(nil)

type mapStore struct {
	data map[string]string
}

func (s *mapStore) Get(ctx context.Context, key string) (string, error) {
	if v, ok := s.data[key]; ok {
		return v, nil
	}
	return "", cache.ErrMiss
}

func (s *mapStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.data[key] = value
	return nil
}

func (s *mapStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

func TestDirectoryWarmer_RefreshesAndStops(t *testing.T) {
	config.AppConfig = &config.Config{
		DoctorsCacheKey: "directory:doctors",
		DoctorsCacheTTL: time.Minute,
	}

	repo := &countingUserRepo{}
	store := &mapStore{data: map[string]string{}}
	directory := service.NewDirectoryService(repo, store)

	warmer := NewDirectoryWarmer(directory, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		warmer.Start(ctx)
		close(done)
	}()

	// Let the initial warm plus at least one tick happen.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("warmer did not stop after context cancellation")
	}

	assert.GreaterOrEqual(t, atomic.LoadInt32(&repo.listCalls), int32(2))
	_, err := store.Get(context.Background(), config.AppConfig.DoctorsCacheKey)
	assert.NoError(t, err, "cache should be populated after warming")
}
