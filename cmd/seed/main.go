package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/Anuragcr07/pharmacare-backend/internal/catalog"
	"github.com/Anuragcr07/pharmacare-backend/pkg/config"
	"github.com/Anuragcr07/pharmacare-backend/pkg/db"
	"github.com/Anuragcr07/pharmacare-backend/pkg/logger"
)

func main() {
	file := flag.String("file", "seed/medicines.json", "path to the catalog seed file")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "seed"})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	svc, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(ctx, "failed to build catalog service", err)
		os.Exit(1)
	}

	f, err := os.Open(*file)
	if err != nil {
		logg.Error(ctx, "failed to open seed file", err)
		os.Exit(1)
	}
	defer f.Close()

	ctx = logg.WithField(ctx, "file", *file)
	result, err := catalog.Seed(ctx, svc, f, logg)
	if result != nil {
		ctx = logg.WithFields(ctx, map[string]any{
			"inserted": result.Inserted,
			"skipped":  result.Skipped,
		})
	}
	if err != nil {
		logg.Error(ctx, "seed finished with errors", err)
		os.Exit(1)
	}
	logg.Info(ctx, "seed finished")
}
