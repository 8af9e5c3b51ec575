package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/straye-as/pipeline-api/internal/auth"
	"github.com/straye-as/pipeline-api/internal/config"
	"github.com/straye-as/pipeline-api/internal/database"
	"github.com/straye-as/pipeline-api/internal/events"
	"github.com/straye-as/pipeline-api/internal/http/handler"
	"github.com/straye-as/pipeline-api/internal/http/middleware"
	"github.com/straye-as/pipeline-api/internal/http/router"
	"github.com/straye-as/pipeline-api/internal/jobs"
	"github.com/straye-as/pipeline-api/internal/logger"
	"github.com/straye-as/pipeline-api/internal/repository"
	"github.com/straye-as/pipeline-api/internal/service"
	"github.com/straye-as/pipeline-api/internal/storage"
	"go.uber.org/zap"
)

// @title Straye Pipeline API
// @version 1.0
// @description Sales pipeline stage transitions and lead conversion
// @BasePath /api/v1

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// In staging/production secrets come from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	var publisher events.Publisher = events.NoopPublisher{}
	var rabbit *events.RabbitMQPublisher
	if cfg.Events.Enabled {
		rabbit, err = events.NewRabbitMQPublisher(cfg.Events.URL, cfg.Events.Exchange, log)
		if err != nil {
			return fmt.Errorf("failed to connect event publisher: %w", err)
		}
		publisher = rabbit
		log.Info("Event publisher connected", zap.String("exchange", cfg.Events.Exchange))
	} else {
		log.Info("Events disabled, using no-op publisher")
	}

	// Initialize repositories
	leadRepo := repository.NewLeadRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	contactRepo := repository.NewContactRepository(db)
	dealRepo := repository.NewDealRepository(db)
	dealStageHistoryRepo := repository.NewDealStageHistoryRepository(db)
	salesOrderRepo := repository.NewSalesOrderRepository(db)

	// Initialize services
	documents := storage.NewDocumentGateway(fileStorage, cfg.Storage.MaxUploadSizeBytes(), log)
	dealService := service.NewDealService(dealRepo, dealStageHistoryRepo, publisher, log)
	leadService := service.NewLeadService(leadRepo, log)
	conversionService := service.NewConversionService(
		documents,
		accountRepo,
		contactRepo,
		dealRepo,
		salesOrderRepo,
		leadRepo,
		publisher,
		cfg.Conversion,
		log,
	)

	rt := router.NewRouter(
		cfg,
		log,
		auth.NewMiddleware(log),
		middleware.NewRateLimiter(&cfg.RateLimit, log),
		handler.NewHealthHandler(db, log),
		handler.NewDealHandler(dealService, log),
		handler.NewLeadHandler(leadService, conversionService, cfg.Storage.MaxUploadSizeBytes(), log),
		handler.NewQuoteHandler(),
	)

	// Leads are only left behind for the sweep when deletion is the cleanup mode
	var scheduler *jobs.Scheduler
	if cfg.Jobs.LeadCleanupEnabled && cfg.Conversion.LeadCleanupMode == config.LeadCleanupDelete {
		scheduler = jobs.NewScheduler(log)
		if err := jobs.RegisterLeadCleanupJob(
			scheduler,
			leadRepo,
			log,
			cfg.Jobs.LeadCleanupCron,
			cfg.Jobs.LeadCleanupBatch,
			cfg.Jobs.LeadCleanupTimeoutDuration(),
		); err != nil {
			log.Error("Failed to register lead cleanup job", zap.Error(err))
			scheduler = nil
		} else {
			scheduler.Start()
		}
	} else {
		log.Info("Lead cleanup job disabled",
			zap.Bool("enabled", cfg.Jobs.LeadCleanupEnabled),
			zap.String("cleanup_mode", cfg.Conversion.LeadCleanupMode),
		)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			<-scheduler.Stop().Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if rabbit != nil {
			if err := rabbit.Close(); err != nil {
				log.Warn("Error closing event publisher", zap.Error(err))
			}
		}

		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
