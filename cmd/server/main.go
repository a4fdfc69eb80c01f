package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic_portal/internal/api"
	"clinic_portal/internal/app/service"
	"clinic_portal/internal/app/worker"
	"clinic_portal/internal/common/security"
	"clinic_portal/internal/domain/repository"
	"clinic_portal/internal/platform/cache"
	"clinic_portal/internal/platform/config"
	"clinic_portal/internal/platform/database"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	database.Migrate()

	// 4. Initialize Redis
	cache.ConnectRedis()
	defer cache.CloseRedis()

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	appointmentRepo := repository.NewPgAppointmentRepository(database.DB)
	recordRepo := repository.NewPgHealthRecordRepository(database.DB)

	// 6. Initialize Services
	store := cache.NewRedisStore(cache.RDB)
	directoryService := service.NewDirectoryService(userRepo, store)
	authService := service.NewAuthService(userRepo, directoryService)
	appointmentService := service.NewAppointmentService(appointmentRepo, userRepo, database.DB)
	recordService := service.NewHealthRecordService(recordRepo, userRepo)

	// 7. Initialize Directory Warmer (as a goroutine)
	directoryWarmer := worker.NewDirectoryWarmer(directoryService, config.AppConfig.DirectoryWarmInterval)
	warmerCtx, warmerCancel := context.WithCancel(context.Background())
	defer warmerCancel()
	go directoryWarmer.Start(warmerCtx)

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(userRepo, authService, directoryService, appointmentService, recordService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")
	warmerCancel() // Signal warmer to stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
