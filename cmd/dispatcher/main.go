// Command dispatcher runs the Worker Dispatcher and its fixed pool of
// Workers: each tick it joins job_step against flow_step/job/flow for
// launchable steps and fans them round-robin across per-worker queues.
// Each worker owns its own small connection pool and executor for
// scheduled one-shot script invocations.
package main

import (
	"context"
	"errors"
	"fmt"
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
	"github.com/arrowkit/flowcore/internal/queue"
	"github.com/arrowkit/flowcore/internal/repository"
	"github.com/arrowkit/flowcore/internal/scheduler"
	httptransport "github.com/arrowkit/flowcore/internal/transport/http"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogDir, "dispatcher.log", cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connParams := postgres.ConnParams{
		DB:       cfg.PGDB,
		User:     cfg.PGUser,
		Password: cfg.PGSecret,
		Host:     cfg.PGHost,
		Port:     cfg.PGPort,
	}

	dispatchPool, err := postgres.Connect(ctx, connParams, 5, 1)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer dispatchPool.Close()

	logger.Info("db connected")

	metrics.Register()
	checker := health.NewChecker(dispatchPool, logger, prometheus.DefaultRegisterer)

	jobStepRepo := postgres.NewJobStepRepository(dispatchPool, logger)

	queues := make([]*queue.Queue, cfg.WorkerCount)
	workerJobStepRepos := make([]repository.JobStepRepository, cfg.WorkerCount)
	workerPools := make([]interface{ Close() }, 0, cfg.WorkerCount)

	for i := 0; i < cfg.WorkerCount; i++ {
		pool, err := postgres.Connect(ctx, connParams, 2, 1)
		if err != nil {
			log.Fatalf("worker %d db: %v", i, err)
		}
		workerPools = append(workerPools, pool)
		workerJobStepRepos[i] = postgres.NewJobStepRepository(pool, logger)
		queues[i] = queue.New(64)
	}
	defer func() {
		for _, p := range workerPools {
			p.Close()
		}
	}()

	workers := make([]*scheduler.Worker, cfg.WorkerCount)
	for i := 0; i < cfg.WorkerCount; i++ {
		id := fmt.Sprintf("w%d-%d", i, os.Getpid())
		workers[i] = scheduler.NewWorker(id, queues[i], workerJobStepRepos[i], cfg.BuildTool, cfg.Path, logger)
		go workers[i].Run(ctx)
	}

	dispatcher := scheduler.NewDispatcher(jobStepRepo, queues, logger, time.Duration(cfg.DispatchTickSec)*time.Second)
	go dispatcher.Start(ctx)

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

	logger.Info("dispatcher stopped")
}
