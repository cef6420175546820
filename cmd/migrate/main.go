package main

// Run database migrations:
//   go run ./cmd/migrate            # up
//   go run ./cmd/migrate down
//   go run ./cmd/migrate status

import (
	"context"
	"os"
	"strings"

	"logit-backend/internal/shared/config"
	"logit-backend/internal/shared/storage/db"
	"logit-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	command := "up"
	if len(os.Args) > 1 {
		command = strings.ToLower(strings.TrimSpace(os.Args[1]))
	}

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		telemetry.Error("migrate.missing_database_url", nil)
		os.Exit(1)
	}
	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"err": err})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, sqlDB, command); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"command": command, "err": err})
		sqlDB.Close()
		os.Exit(1)
	}
	telemetry.Info("migrate.done", map[string]any{"command": command})
}
