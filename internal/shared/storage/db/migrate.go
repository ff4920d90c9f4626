package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"

	"cozetik-backend/internal/shared/telemetry"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsDir = "migrations"

var gooseOnce sync.Once

// gooseLogger routes goose output through the structured logger.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) {
	telemetry.Info("db.migrate", map[string]any{"message": strings.TrimSpace(fmt.Sprintf(format, v...))})
}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	telemetry.Error("db.migrate", map[string]any{"message": strings.TrimSpace(fmt.Sprintf(format, v...))})
}

// RunMigrations applies the embedded schema (candidatures, contact requests,
// admin users). A nil database is a no-op so in-memory mode can share the
// bootstrap path.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return nil
	}
	var setupErr error
	gooseOnce.Do(func() {
		goose.SetBaseFS(migrationFiles)
		goose.SetLogger(gooseLogger{})
		setupErr = goose.SetDialect("postgres")
	})
	if setupErr != nil {
		return setupErr
	}
	if err := goose.UpContext(ctx, database, migrationsDir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// MigrationNames lists the embedded migration files in apply order.
func MigrationNames() ([]string, error) {
	names, err := fs.Glob(migrationFiles, migrationsDir+"/*.sql")
	if err != nil {
		return nil, err
	}
	for i, n := range names {
		names[i] = strings.TrimPrefix(n, migrationsDir+"/")
	}
	sort.Strings(names)
	return names, nil
}
