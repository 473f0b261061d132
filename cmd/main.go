package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"event-analytics-service/internal/config"
	"event-analytics-service/internal/controller"
	"event-analytics-service/internal/db"
	httpserver "event-analytics-service/internal/http"
	"event-analytics-service/internal/logger"
	"event-analytics-service/internal/repository"
	"event-analytics-service/internal/routes"
	"event-analytics-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	log := logger.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, err := db.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Error("connect mongo", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.Error("disconnect mongo", "error", err)
		}
	}()
	if err := mongoClient.EnsureIndexes(ctx); err != nil {
		log.Error("ensure indexes", "error", err)
		os.Exit(1)
	}

	conn, err := db.NewConnection(ctx, cfg)
	if err != nil {
		log.Error("connect clickhouse", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	if err := db.RunMigrations(ctx, conn); err != nil {
		log.Error("migrate", "error", err)
		os.Exit(1)
	}

	ownership := service.OwnedByID
	if cfg.OwnershipNameFallback {
		log.Warn("ownership name fallback enabled: events whose creator name matches the owner name count as owned")
		ownership = service.OwnedByIDOrName
	}

	eventRepo := repository.NewEventRepository(mongoClient.Database())
	registrationRepo := repository.NewRegistrationRepository(mongoClient.Database())
	activityRepo := repository.NewActivityRepository(conn)

	worker := service.NewBatchActivityWorker(activityRepo, cfg.WorkerBufferSize, cfg.WorkerBatchSize, cfg.WorkerFlushEvery)
	activityService := service.NewActivityService(activityRepo, worker, cfg.FutureTolerance)
	dashboardService := service.NewDashboardService(eventRepo, activityRepo, service.DashboardOptions{
		Debounce:     cfg.StatsDebounce,
		PollInterval: cfg.SummaryPollInterval,
		Ownership:    ownership,
		IdleTTL:      cfg.OwnerIdleTTL,
	})
	eventService := service.NewEventService(eventRepo, registrationRepo, activityService, dashboardService)
	reportService := service.NewReportService(eventRepo, activityRepo, registrationRepo)

	server := httpserver.NewServer(cfg, routes.Controllers{
		Activity:  controller.NewActivityController(activityService),
		Events:    controller.NewEventController(eventService),
		Dashboard: controller.NewDashboardController(dashboardService),
		Reports:   controller.NewReportController(reportService),
	})

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := server.Shutdown(); err != nil {
			log.Error("server shutdown", "error", err)
		}
	}()

	log.Info("starting server", "addr", cfg.HTTPPort, "mode", cfg.AppMode)
	if err := server.Listen(cfg.HTTPPort); err != nil {
		log.Error("server stopped", "error", err)
	}

	dashboardService.Close()
	worker.Shutdown()
}
