package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clinic_portal/internal/common"
	"clinic_portal/internal/common/security"
	"clinic_portal/internal/domain/model"
	"clinic_portal/internal/domain/repository"
	"clinic_portal/internal/platform/config"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
)

var _ repository.UserRepository = (*stubUserRepo)(nil)

type stubUserRepo struct {
	users map[string]*model.User
}

func (r *stubUserRepo) Create(ctx context.Context, user *model.User) error { return nil }
func (r *stubUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, common.ErrNotFound
}
func (r *stubUserRepo) FindByUsernameAndRole(ctx context.Context, username, role string) (*model.User, error) {
	return nil, common.ErrNotFound
}
func (r *stubUserRepo) FindByDoctorID(ctx context.Context, doctorID string) (*model.User, error) {
	return nil, common.ErrNotFound
}
func (r *stubUserRepo) FindByNationalID(ctx context.Context, nationalID string) (*model.User, error) {
	return nil, common.ErrNotFound
}
func (r *stubUserRepo) ListDoctors(ctx context.Context) ([]model.DoctorListing, error) {
	return nil, nil
}

func newTestRouter(t *testing.T, repo repository.UserRepository) http.Handler {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: []byte("test-secret"), JWTExp: time.Hour}
	security.InitJWT()

	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(security.TokenAuth))
	r.Use(NewAuthenticator(repo))

	r.Group(func(dr chi.Router) {
		dr.Use(RequireRole(model.RoleDoctor))
		dr.Get("/doctor-only", func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUserFromContext(r.Context())
			assert.True(t, ok)
			assert.Equal(t, model.RoleDoctor, user.Role)
			w.Write([]byte("ok"))
		})
	})
	return r
}

func TestAuthenticator(t *testing.T) {
	repo := &stubUserRepo{users: map[string]*model.User{
		"doc-1": {ID: "doc-1", Username: "dr1", Role: model.RoleDoctor},
		"pat-1": {ID: "pat-1", Username: "p1", Role: model.RolePatient},
	}}
	router := newTestRouter(t, repo)

	get := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/doctor-only", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("missing token", func(t *testing.T) {
		rec := get("")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed token", func(t *testing.T) {
		rec := get("not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		config.AppConfig.JWTExp = -time.Hour
		token, err := security.GenerateToken("doc-1", model.RoleDoctor)
		config.AppConfig.JWTExp = time.Hour
		assert.NoError(t, err)

		rec := get(token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token for unknown user", func(t *testing.T) {
		token, err := security.GenerateToken("ghost", model.RoleDoctor)
		assert.NoError(t, err)

		rec := get(token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong role", func(t *testing.T) {
		token, err := security.GenerateToken("pat-1", model.RolePatient)
		assert.NoError(t, err)

		rec := get(token)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("authorized doctor", func(t *testing.T) {
		token, err := security.GenerateToken("doc-1", model.RoleDoctor)
		assert.NoError(t, err)

		rec := get(token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
	})
}
