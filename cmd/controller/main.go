// Command controller runs the Flow Controller: it expands seedable
// Flows into dated Jobs, materializes JobSteps from their FlowStep
// templates, and promotes first-sequence JobSteps once their Job is
// seeded. It also serves /healthz, /readyz and /metrics.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arrowkit/flowcore/config"
	"github.com/arrowkit/flowcore/internal/health"
	"github.com/arrowkit/flowcore/internal/infrastructure/postgres"
	"github.com/arrowkit/flowcore/internal/logging"
	"github.com/arrowkit/flowcore/internal/metrics"
	"github.com/arrowkit/flowcore/internal/scheduler"
	httptransport "github.com/arrowkit/flowcore/internal/transport/http"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogDir, "controller.log", cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(ctx, postgres.ConnParams{
		DB:       cfg.PGDB,
		User:     cfg.PGUser,
		Password: cfg.PGSecret,
		Host:     cfg.PGHost,
		Port:     cfg.PGPort,
	}, int32(cfg.WorkerCount)+2, 1)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	logger.Info("db connected")

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	flowRepo := postgres.NewFlowRepository(pool, logger)
	flowStepRepo := postgres.NewFlowStepRepository(pool, logger)
	jobRepo := postgres.NewJobRepository(pool, logger)
	jobStepRepo := postgres.NewJobStepRepository(pool, logger)

	controller := scheduler.NewController(
		flowRepo, flowStepRepo, jobRepo, jobStepRepo,
		logger, time.Duration(cfg.FlowTickSec)*time.Second,
	)
	go controller.Start(ctx)

	srv := &http.Server{
		Addr:    ":" + cfg.MetricsPort,
		Handler: httptransport.NewRouter(checker),
	}
	go func() {
		logger.Info("http server started", "port", cfg.MetricsPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown", "error", err)
	}

	logger.Info("flow controller stopped")
}
