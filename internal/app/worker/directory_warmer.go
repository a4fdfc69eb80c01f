package worker

import (
	"context"
	"log"
	"time"

	"clinic_portal/internal/app/service"
)

// DirectoryWarmer keeps the Redis doctor-directory cache populated so the
// patient booking path is usually served without touching Postgres.
type DirectoryWarmer struct {
	directoryService *service.DirectoryService
	interval         time.Duration
}

func NewDirectoryWarmer(directoryService *service.DirectoryService, interval time.Duration) *DirectoryWarmer {
	return &DirectoryWarmer{
		directoryService: directoryService,
		interval:         interval,
	}
}

func (w *DirectoryWarmer) Start(ctx context.Context) {
	log.Printf("Directory warmer started, refreshing every %s", w.interval)

	w.refresh(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Directory warmer stopping...")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *DirectoryWarmer) refresh(ctx context.Context) {
	if _, err := w.directoryService.RefreshDoctors(ctx); err != nil {
		log.Printf("WARN: Directory warm refresh failed: %v", err)
	}
}
