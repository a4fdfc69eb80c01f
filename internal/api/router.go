package api

import (
	"net/http"
	"time"

	"clinic_portal/internal/api/handler"
	"clinic_portal/internal/api/middleware"
	"clinic_portal/internal/app/service"
	"clinic_portal/internal/common/security"
	"clinic_portal/internal/domain/repository"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	userRepo repository.UserRepository,
	authService *service.AuthService,
	directoryService *service.DirectoryService,
	appointmentService *service.AppointmentService,
	recordService *service.HealthRecordService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies the bearer token and puts claims in context; the per-group
	// authenticator below decides whether a request actually needs them.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	authn := middleware.NewAuthenticator(userRepo)

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		// Auth routes (public)
		authHandler := handler.NewAuthHandler(authService)
		v1.Route("/auth", authHandler.RegisterRoutes)

		// Doctor directory (any authenticated user)
		userHandler := handler.NewUserHandler(directoryService)
		v1.Route("/users", func(ur chi.Router) {
			userHandler.RegisterRoutes(ur, authn)
		})

		// Appointments (patient books/lists, doctor lists/decides)
		appointmentHandler := handler.NewAppointmentHandler(appointmentService)
		v1.Route("/appointments", func(ar chi.Router) {
			appointmentHandler.RegisterRoutes(ar, authn)
		})

		// Health records (doctor writes, both sides read their own)
		recordHandler := handler.NewHealthRecordHandler(recordService)
		v1.Route("/health-records", func(hr chi.Router) {
			recordHandler.RegisterRoutes(hr, authn)
		})
	})

	return r
}
