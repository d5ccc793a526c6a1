package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/svthalia/concrexit-sub001/internal/adapter"
	"github.com/svthalia/concrexit-sub001/internal/config"
	"github.com/svthalia/concrexit-sub001/internal/handler"
	"github.com/svthalia/concrexit-sub001/internal/logger"
	"github.com/svthalia/concrexit-sub001/internal/server"
	"github.com/svthalia/concrexit-sub001/internal/service"
	"github.com/svthalia/concrexit-sub001/internal/store"
	"github.com/svthalia/concrexit-sub001/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error getting configs: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger("syncer", cfg.Log.Level)
	log.Debug().Str("driver", cfg.Storage.DB.Driver).Str("tenant", cfg.Remote.TenantID).Msg("received configs")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, cfg, log); err != nil {
		log.Err(err).Msg("syncer stopped with error")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) error {
	storages, err := store.NewStorages(ctx, cfg.Storage.DB, log)
	if err != nil {
		return fmt.Errorf("error creating storages: %w", err)
	}
	defer func() {
		if closeErr := storages.Close(); closeErr != nil {
			log.Err(closeErr).Msg("error closing storages")
		}
	}()

	client, err := adapter.NewHTTPRemoteClient(cfg.Remote, log)
	if err != nil {
		return fmt.Errorf("error creating remote client: %w", err)
	}

	services, err := service.NewServices(client, storages, log)
	if err != nil {
		return fmt.Errorf("error creating services: %w", err)
	}

	if cfg.Workers.RunOnce {
		return services.SyncEngine.Run(ctx)
	}

	syncJob, err := workers.NewSyncJob(cfg.Workers, services.SyncEngine, log)
	if err != nil {
		return err
	}
	running := []workers.Worker{syncJob}

	if cfg.Server.HTTPAddress != "" {
		handlers, err := handler.NewHandlers(services, cfg, log)
		if err != nil {
			return fmt.Errorf("error creating handlers: %w", err)
		}
		srv, err := server.NewServer(handlers, cfg.Server, log)
		if err != nil {
			return fmt.Errorf("error creating server: %w", err)
		}
		running = append(running, srv)
	}

	return workers.NewWorkers(running...).Run(ctx)
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
