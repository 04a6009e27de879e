package migrations

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrEmptyMigrationName = errors.New("migration name is required")

	versionPrefix   = regexp.MustCompile(`^(\d+)_.+\.(up|down)\.sql$`)
	nameReplacement = regexp.MustCompile(`[^a-z0-9]+`)
)

const upTemplate = `-- Write your migration here.
`

const downTemplate = `-- Write the rollback of %s here.
`

// Create writes the up and down templates for the next migration version
// into dir and returns their paths.
func Create(dir, name string) (string, string, error) {
	name = strings.Trim(nameReplacement.ReplaceAllString(strings.ToLower(name), "_"), "_")
	if name == "" {
		return "", "", ErrEmptyMigrationName
	}

	next, err := nextVersion(dir)
	if err != nil {
		return "", "", err
	}

	base := fmt.Sprintf("%03d_%s", next, name)
	upPath := filepath.Join(dir, base+".up.sql")
	downPath := filepath.Join(dir, base+".down.sql")

	err = writeNew(upPath, upTemplate)
	if err != nil {
		return "", "", err
	}
	err = writeNew(downPath, fmt.Sprintf(downTemplate, base))
	if err != nil {
		_ = os.Remove(upPath)
		return "", "", err
	}
	return upPath, downPath, nil
}

func nextVersion(dir string) (uint64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read migrations dir: %w", err)
	}

	var latest uint64
	for _, e := range entries {
		match := versionPrefix.FindStringSubmatch(e.Name())
		if e.IsDir() || match == nil {
			continue
		}
		v, err := strconv.ParseUint(match[1], 10, 64)
		if err != nil {
			continue
		}
		latest = max(latest, v)
	}
	return latest + 1, nil
}

func writeNew(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	_, err = f.WriteString(content)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
