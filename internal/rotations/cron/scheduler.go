package cronjob

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rotaops/rota-backend/internal/rotations/service"
)

type Scheduler struct {
	rotations *service.Service
}

func NewScheduler(rotations *service.Service) *Scheduler {
	return &Scheduler{rotations: rotations}
}

// Start schedules the nightly advancement job (12:00 AM) and returns the
// running cron so the caller can stop it on shutdown.
func (s *Scheduler) Start() *cron.Cron {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc("0 0 0 * * *", func() {
		s.RunOnce()
	})
	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return c
	}

	log.Println("Cron scheduler started (advancing rotations nightly at 12:00AM)")
	c.Start()
	return c
}

// RunOnce advances every due rotation window immediately.
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	created, err := s.rotations.Advance(ctx, time.Now().UTC())
	if err != nil {
		log.Printf("Rotation advancement failed after %d windows: %v", created, err)
		return
	}
	log.Printf("Rotation advancement done, %d windows created", created)
}
