package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Anuragcr07/pharmacare-backend/api/routes"
	"github.com/Anuragcr07/pharmacare-backend/internal/auth"
	"github.com/Anuragcr07/pharmacare-backend/internal/billing"
	"github.com/Anuragcr07/pharmacare-backend/internal/catalog"
	"github.com/Anuragcr07/pharmacare-backend/internal/inventory"
	"github.com/Anuragcr07/pharmacare-backend/internal/patients"
	"github.com/Anuragcr07/pharmacare-backend/internal/search"
	"github.com/Anuragcr07/pharmacare-backend/internal/stats"
	"github.com/Anuragcr07/pharmacare-backend/internal/symptoms"
	"github.com/Anuragcr07/pharmacare-backend/pkg/config"
	"github.com/Anuragcr07/pharmacare-backend/pkg/db"
	"github.com/Anuragcr07/pharmacare-backend/pkg/logger"
	"github.com/Anuragcr07/pharmacare-backend/pkg/metrics"
	"github.com/Anuragcr07/pharmacare-backend/pkg/migrate"
	"github.com/Anuragcr07/pharmacare-backend/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	conn := dbClient.DB()
	authRepo := auth.NewRepository(conn)
	inventoryRepo := inventory.NewRepository(conn)
	catalogRepo := catalog.NewRepository(conn)
	billingRepo := billing.NewRepository(conn)
	statsRepo := stats.NewRepository(conn)
	patientsRepo := patients.NewRepository(conn)

	authService, err := auth.NewService(
		dbClient,
		authRepo,
		func(tx *gorm.DB) auth.TxUserStore { return authRepo.WithTx(tx) },
		cfg.JWT,
		cfg.Password,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	searchService, err := search.NewService(inventoryRepo, catalogRepo, cfg.Search)
	if err != nil {
		logg.Error(context.Background(), "failed to create search service", err)
		os.Exit(1)
	}

	inventoryService, err := inventory.NewService(inventoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	billingService, err := billing.NewService(
		dbClient,
		billingRepo,
		func(tx *gorm.DB) billing.TxTransactionStore { return billingRepo.WithTx(tx) },
		func(tx *gorm.DB) billing.InventoryTxRepo { return inventoryRepo.WithTx(tx) },
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create billing service", err)
		os.Exit(1)
	}

	statsService, err := stats.NewService(statsRepo, inventoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create stats service", err)
		os.Exit(1)
	}

	patientsService, err := patients.NewService(patientsRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create patients service", err)
		os.Exit(1)
	}

	symptomsService, err := symptoms.NewService(catalogRepo, inventoryRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create symptoms service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
		Handler: routes.NewRouter(routes.Deps{
			Config:    cfg,
			Logger:    logg,
			DB:        dbClient,
			Redis:     redisClient,
			Metrics:   httpMetrics,
			Gatherer:  registry,
			Auth:      authService,
			Search:    searchService,
			Inventory: inventoryService,
			Billing:   billingService,
			Stats:     statsService,
			Patients:  patientsService,
			Symptoms:  symptomsService,
		}),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(drainCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
