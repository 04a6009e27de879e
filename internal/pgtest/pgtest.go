// Package pgtest opens isolated Postgres pools for integration tests.
// Tests using it are skipped unless POSTGRES_HOST is set.
package pgtest

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adanyl0v/task-tracker/internal/config"
)

const hostEnv = "POSTGRES_HOST"

// NewPool returns a pool whose search_path is a fresh schema. The schema
// is dropped and the pool closed when the test ends.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	var cfg config.PostgresConfig
	err := cleanenv.ReadEnv(&cfg)
	if err != nil {
		if cfg.Host == "" {
			t.Skipf("%s is not set, skipping postgres test", hostEnv)
		}
		t.Fatalf("failed to read postgres env: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	admin, err := pgx.Connect(ctx, cfg.ConnString())
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}
	defer func() { _ = admin.Close(context.Background()) }()

	_, err = admin.Exec(ctx, "CREATE SCHEMA "+schema)
	if err != nil {
		t.Fatalf("failed to create schema %s: %v", schema, err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.ConnString())
	if err != nil {
		t.Fatalf("failed to parse postgres config: %v", err)
	}
	poolCfg.ConnConfig.RuntimeParams["search_path"] = schema

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		t.Fatalf("failed to open pool: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		conn, err := pgx.Connect(ctx, cfg.ConnString())
		if err != nil {
			t.Errorf("failed to connect for cleanup: %v", err)
			return
		}
		defer func() { _ = conn.Close(context.Background()) }()

		_, err = conn.Exec(ctx, "DROP SCHEMA "+schema+" CASCADE")
		if err != nil {
			t.Errorf("failed to drop schema %s: %v", schema, err)
		}
	})
	return pool
}
