package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/BruksfildServices01/nail-scheduler/internal/app"
	"github.com/BruksfildServices01/nail-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/nail-scheduler/internal/db"
	"github.com/BruksfildServices01/nail-scheduler/internal/worker"
)

// Runs deposit expiry, reminder scheduling and notification dispatch on a
// ticker. Use -once from cron.
func main() {
	once := flag.Bool("once", false, "run every task a single time and exit")
	flag.Parse()

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	container := app.New(cfg, db)
	defer container.Close()

	runner := worker.NewRunner(cfg.WorkerInterval, container.Tasks()...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *once {
		runner.RunOnce(ctx)
		log.Printf("[worker] single pass done")
		return
	}

	runner.Run(ctx)
}
