package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotaops/rota-backend/config"
	"github.com/rotaops/rota-backend/internal/bootstrap"
	cronjob "github.com/rotaops/rota-backend/internal/rotations/cron"
	"github.com/rotaops/rota-backend/internal/rotations/repository"
	"github.com/rotaops/rota-backend/internal/rotations/service"
	"github.com/rotaops/rota-backend/internal/storage/postgres"
)

// The worker owns all background work: the API stays request/response only.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	pool, err := bootstrap.OpenDB(context.Background(), bootstrap.DBOptions{DSN: postgres.DSN(&cfg.Database)})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	rotations := service.New(repository.NewRepo(pool))
	scheduler := cronjob.NewScheduler(rotations)

	if len(os.Args) > 1 && os.Args[1] == "once" {
		scheduler.RunOnce()
		return
	}

	c := scheduler.Start()
	defer c.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("worker shutting down")
}
