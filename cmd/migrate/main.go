package main

// Apply the embedded schema:
//   go run ./cmd/migrate
// List the embedded migrations without connecting:
//   go run ./cmd/migrate -list

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"cozetik-backend/internal/shared/config"
	"cozetik-backend/internal/shared/storage/db"
	"cozetik-backend/internal/shared/telemetry"
)

func main() {
	list := flag.Bool("list", false, "print embedded migrations and exit")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall deadline")
	flag.Parse()

	if *list {
		names, err := db.MigrationNames()
		if err != nil {
			log.Fatalf("list migrations: %v", err)
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}

	cfg := config.Load()
	if err := telemetry.Init(cfg.Env, cfg.LogLevel); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer telemetry.Sync()

	if cfg.DatabaseURL == "" {
		telemetry.Error("migrate.config", map[string]any{"error": "DATABASE_URL is required"})
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		telemetry.Error("migrate.connect", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	telemetry.Info("migrate.done", nil)
}
