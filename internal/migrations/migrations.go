// Package migrations applies and reverts the ordered schema scripts and
// records which of them have been executed.
//
// Scripts are pairs of files named NNN_name.up.sql and NNN_name.down.sql.
// They are applied in ascending NNN order. The down file is optional;
// a migration without one cannot be rolled back.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Dir is the directory of FS holding the bundled scripts.
const Dir = "sql"

//go:embed sql/*.sql
var FS embed.FS

type Migration struct {
	Version uint
	Name    string
	Up      string
	Down    string
}

// Load reads every script pair under dir, ordered by version.
func Load(fsys fs.FS, dir string) ([]Migration, error) {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open migrations source: %w", err)
	}
	defer func() { _ = src.Close() }()

	var migrations []Migration
	version, err := src.First()
	for err == nil {
		m, readErr := readMigration(src, version)
		if readErr != nil {
			return nil, readErr
		}
		migrations = append(migrations, m)

		version, err = src.Next(version)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to enumerate migrations: %w", err)
	}
	return migrations, nil
}

func readMigration(src source.Driver, version uint) (Migration, error) {
	up, identifier, err := readScript(src.ReadUp, version)
	if err != nil {
		return Migration{}, fmt.Errorf("failed to read up script %d: %w", version, err)
	}

	down, _, err := readScript(src.ReadDown, version)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Migration{}, fmt.Errorf("failed to read down script %d: %w", version, err)
	}

	return Migration{
		Version: version,
		Name:    fmt.Sprintf("%03d_%s", version, identifier),
		Up:      up,
		Down:    down,
	}, nil
}

func readScript(
	read func(uint) (io.ReadCloser, string, error),
	version uint,
) (string, string, error) {
	r, identifier, err := read(version)
	if err != nil {
		return "", "", err
	}
	defer func() { _ = r.Close() }()

	body, err := io.ReadAll(r)
	if err != nil {
		return "", "", err
	}
	return string(body), identifier, nil
}
