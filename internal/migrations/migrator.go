package migrations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrUnknownMigration = errors.New("applied migration has no script")
	ErrNoDownScript     = errors.New("migration has no down script")
)

// Record is a row of the tracking table.
type Record struct {
	Name       string
	ExecutedAt time.Time
}

// Store persists the execution history. Apply and Revert must run the
// script and the tracking change in a single transaction.
type Store interface {
	EnsureTable(ctx context.Context) error
	// Applied returns the records in the order they were inserted.
	Applied(ctx context.Context) ([]Record, error)
	Apply(ctx context.Context, m Migration) error
	Revert(ctx context.Context, m Migration) error
}

type Status struct {
	Name       string
	Applied    bool
	ExecutedAt time.Time
}

type Migrator struct {
	logger     zerolog.Logger
	store      Store
	migrations []Migration
}

func NewMigrator(logger zerolog.Logger, store Store, migrations []Migration) *Migrator {
	return &Migrator{
		logger:     logger,
		store:      store,
		migrations: migrations,
	}
}

// Up applies every pending migration in ascending order and returns the
// names it applied. It stops at the first failure; migrations applied
// before it stay committed.
func (m *Migrator) Up(ctx context.Context) ([]string, error) {
	applied, err := m.appliedSet(ctx)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, migration := range m.migrations {
		if _, ok := applied[migration.Name]; ok {
			continue
		}

		m.logger.Info().
			Str("migration", migration.Name).
			Msg("applying migration")
		err = m.store.Apply(ctx, migration)
		if err != nil {
			m.logger.Error().
				Err(err).
				Str("migration", migration.Name).
				Msg("failed to apply migration")
			return names, fmt.Errorf("failed to apply migration %s: %w", migration.Name, err)
		}
		names = append(names, migration.Name)
	}

	if len(names) == 0 {
		m.logger.Info().Msg("no pending migrations")
	} else {
		m.logger.Info().
			Int("count", len(names)).
			Msg("applied migrations")
	}
	return names, nil
}

// Down reverts the most recently applied migration and returns its
// name, or an empty string if nothing has been applied.
func (m *Migrator) Down(ctx context.Context) (string, error) {
	err := m.store.EnsureTable(ctx)
	if err != nil {
		return "", err
	}

	records, err := m.store.Applied(ctx)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		m.logger.Info().Msg("no migrations to roll back")
		return "", nil
	}

	last := records[len(records)-1]
	migration, ok := m.find(last.Name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownMigration, last.Name)
	}
	if migration.Down == "" {
		return "", fmt.Errorf("%w: %s", ErrNoDownScript, migration.Name)
	}

	m.logger.Info().
		Str("migration", migration.Name).
		Msg("rolling back migration")
	err = m.store.Revert(ctx, migration)
	if err != nil {
		m.logger.Error().
			Err(err).
			Str("migration", migration.Name).
			Msg("failed to roll back migration")
		return "", fmt.Errorf("failed to roll back migration %s: %w", migration.Name, err)
	}
	return migration.Name, nil
}

// Status reports every known migration as applied or pending.
func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	applied, err := m.appliedSet(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]Status, 0, len(m.migrations))
	for _, migration := range m.migrations {
		record, ok := applied[migration.Name]
		statuses = append(statuses, Status{
			Name:       migration.Name,
			Applied:    ok,
			ExecutedAt: record.ExecutedAt,
		})
	}
	return statuses, nil
}

func (m *Migrator) appliedSet(ctx context.Context) (map[string]Record, error) {
	err := m.store.EnsureTable(ctx)
	if err != nil {
		return nil, err
	}

	records, err := m.store.Applied(ctx)
	if err != nil {
		return nil, err
	}

	applied := make(map[string]Record, len(records))
	for _, r := range records {
		applied[r.Name] = r
	}
	return applied, nil
}

func (m *Migrator) find(name string) (Migration, bool) {
	for _, migration := range m.migrations {
		if migration.Name == name {
			return migration, true
		}
	}
	return Migration{}, false
}
