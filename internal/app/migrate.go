package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adanyl0v/task-tracker/internal/migrations"
)

// MigrationSource is a directory of migration scripts inside FS.
type MigrationSource struct {
	FS  fs.FS
	Dir string
}

// EmbeddedMigrations are the scripts compiled into the binary.
var EmbeddedMigrations = MigrationSource{
	FS:  migrations.FS,
	Dir: migrations.Dir,
}

// MigrationSourceFor reads scripts from dir on disk, so that scripts
// scaffolded by create are picked up without a rebuild. It falls back to
// the embedded scripts when dir does not exist.
func MigrationSourceFor(dir string) MigrationSource {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		globalLogger.Info().
			Str("dir", dir).
			Msg("migrations dir not found, using embedded migrations")
		return EmbeddedMigrations
	}

	globalLogger.Info().
		Str("dir", dir).
		Msg("using migrations from disk")
	return MigrationSource{
		FS:  os.DirFS(dir),
		Dir: ".",
	}
}

func mustNewMigrator(pool *pgxpool.Pool, src MigrationSource) *migrations.Migrator {
	loaded, err := migrations.Load(src.FS, src.Dir)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to load migrations")
		panic(err)
	}

	store := migrations.NewPostgresStore(pool)
	return migrations.NewMigrator(globalLogger, store, loaded)
}

// MustRunMigrations applies every pending migration.
func MustRunMigrations(pool *pgxpool.Pool, src MigrationSource) {
	applied, err := mustNewMigrator(pool, src).Up(context.Background())
	if err != nil {
		globalLogger.Error().
			Err(err).
			Strs("applied", applied).
			Msg("failed to run migrations")
		panic(err)
	}
	globalLogger.Info().
		Int("count", len(applied)).
		Msg("migrations are up to date")
}

// MustRollbackMigration reverts the most recently applied migration.
func MustRollbackMigration(pool *pgxpool.Pool, src MigrationSource) {
	name, err := mustNewMigrator(pool, src).Down(context.Background())
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to roll back migration")
		panic(err)
	}
	if name == "" {
		globalLogger.Info().Msg("no migrations to roll back")
		return
	}
	globalLogger.Info().
		Str("migration", name).
		Msg("rolled back migration")
}

// MustPrintMigrationStatus writes one line per known migration.
func MustPrintMigrationStatus(pool *pgxpool.Pool, src MigrationSource) {
	statuses, err := mustNewMigrator(pool, src).Status(context.Background())
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to read migration status")
		panic(err)
	}

	for _, s := range statuses {
		if s.Applied {
			fmt.Printf("[x] %s (executed at %s)\n", s.Name, s.ExecutedAt.Format(time.DateTime))
		} else {
			fmt.Printf("[ ] %s\n", s.Name)
		}
	}
}

// MustCreateMigration scaffolds an empty up/down script pair in dir.
func MustCreateMigration(dir, name string) {
	upPath, downPath, err := migrations.Create(dir, name)
	if err != nil {
		if errors.Is(err, migrations.ErrEmptyMigrationName) {
			globalLogger.Error().Msg("migration name is required")
		} else {
			globalLogger.Error().
				Err(err).
				Str("dir", dir).
				Msg("failed to create migration")
		}
		panic(err)
	}
	globalLogger.Info().
		Str("up", upPath).
		Str("down", downPath).
		Msg("created migration")
}
