package migrations

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresStore struct {
	pgPool *pgxpool.Pool
}

// NewPostgresStore tracks executed migrations in schema_migrations_history.
func NewPostgresStore(pgPool *pgxpool.Pool) Store {
	return &postgresStore{pgPool: pgPool}
}

func (s *postgresStore) EnsureTable(ctx context.Context) error {
	const createTableQuery = `
CREATE TABLE IF NOT EXISTS schema_migrations_history (
    id          BIGSERIAL PRIMARY KEY,
    name        VARCHAR(255) NOT NULL UNIQUE,
    executed_at TIMESTAMPTZ  NOT NULL DEFAULT CURRENT_TIMESTAMP
)
`
	_, err := s.pgPool.Exec(ctx, createTableQuery)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func (s *postgresStore) Applied(ctx context.Context) ([]Record, error) {
	const selectAppliedQuery = `
SELECT name,
       executed_at
FROM schema_migrations_history
ORDER BY id
`
	rows, err := s.pgPool.Query(ctx, selectAppliedQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to select applied migrations: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Record, error) {
		var r Record
		err := row.Scan(&r.Name, &r.ExecutedAt)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan applied migrations: %w", err)
	}
	return records, nil
}

func (s *postgresStore) Apply(ctx context.Context, m Migration) error {
	const insertRecordQuery = `
INSERT INTO schema_migrations_history (name)
VALUES ($1)
`
	return s.inTx(ctx, m.Up, insertRecordQuery, m.Name)
}

func (s *postgresStore) Revert(ctx context.Context, m Migration) error {
	const deleteRecordQuery = `
DELETE FROM schema_migrations_history
WHERE name = $1
`
	return s.inTx(ctx, m.Down, deleteRecordQuery, m.Name)
}

// inTx runs the script with the simple protocol so it may contain
// several statements, then the tracking statement, in one transaction.
func (s *postgresStore) inTx(ctx context.Context, script, trackingQuery, name string) error {
	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, script)
	if err != nil {
		return fmt.Errorf("failed to execute script: %w", err)
	}

	_, err = tx.Exec(ctx, trackingQuery, name)
	if err != nil {
		return fmt.Errorf("failed to update migrations table: %w", err)
	}

	err = tx.Commit(ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
