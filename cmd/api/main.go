package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/nail-scheduler/internal/app"
	"github.com/BruksfildServices01/nail-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/nail-scheduler/internal/db"
	"github.com/BruksfildServices01/nail-scheduler/internal/routes"
	"github.com/BruksfildServices01/nail-scheduler/internal/worker"
)

func main() {

	cfg := config.Load()
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	db := dbpkg.NewDB(cfg)
	container := app.New(cfg, db)
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// with RUN_WORKER=false the jobs run only in cmd/worker
	if os.Getenv("RUN_WORKER") != "false" {
		go worker.NewRunner(cfg.WorkerInterval, container.Tasks()...).Run(ctx)
	}

	r := gin.New()
	routes.RegisterRoutes(r, container)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	go func() {
		log.Printf("Server running on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
