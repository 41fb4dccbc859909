package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/Anuragcr07/pharmacare-backend/pkg/config"
	"github.com/Anuragcr07/pharmacare-backend/pkg/db"
	"github.com/Anuragcr07/pharmacare-backend/pkg/logger"
	"github.com/Anuragcr07/pharmacare-backend/pkg/migrate"
)

func main() {
	var (
		cmd     = flag.String("cmd", "up", "migration command: up, down, status, version, create, validate")
		dir     = flag.String("dir", migrate.DefaultDir, "directory holding SQL migrations")
		name    = flag.String("name", "", "migration name, required for create")
		version = flag.String("version", "", "target version, required for version")
	)
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "pharmacare-migrate"})
	ctx := context.Background()

	// create and validate work against the filesystem only.
	switch *cmd {
	case "create":
		if *name == "" {
			logg.Error(ctx, "missing -name for create", nil)
			os.Exit(1)
		}
		path, err := migrate.CreateSQLMigration(*dir, *name)
		if err != nil {
			logg.Error(ctx, "create migration", err)
			os.Exit(1)
		}
		logg.Info(logg.WithField(ctx, "path", path), "migration created")
		return
	case "validate":
		if err := migrate.ValidateDir(*dir); err != nil {
			logg.Error(ctx, "validate migrations", err)
			os.Exit(1)
		}
		logg.Info(ctx, "migrations valid")
		return
	}

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, "no .env file found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "load config", err)
		os.Exit(1)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "connect database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		logg.Error(ctx, "unwrap sql database", err)
		os.Exit(1)
	}

	ctx = logg.WithFields(ctx, map[string]any{"cmd": *cmd, "dir": *dir})

	switch *cmd {
	case "version":
		if *version == "" {
			logg.Error(ctx, "missing -version for version", nil)
			os.Exit(1)
		}
		err = migrate.MigrateToVersion(ctx, sqlDB, *dir, *version)
	default:
		err = migrate.Run(ctx, sqlDB, *dir, *cmd)
	}
	if err != nil {
		logg.Error(ctx, "run migrations", err)
		os.Exit(1)
	}
	logg.Info(ctx, "migrations finished")
}
