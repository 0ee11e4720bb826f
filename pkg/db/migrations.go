package db

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// Migrator is the per-backend half of a migration run
type Migrator interface {
	// EnsureMigrationsTable creates schema_migrations if it does not exist
	EnsureMigrationsTable(ctx context.Context) error
	// AppliedMigrations returns the filenames already recorded
	AppliedMigrations(ctx context.Context) (map[string]bool, error)
	// ApplyMigration runs one file and records it, in a single transaction
	ApplyMigration(ctx context.Context, filename, content string) error
}

// RunMigrations applies every pending *.sql file of dir in filename order and
// returns the filenames it applied
func RunMigrations(ctx context.Context, m Migrator, migrations fs.FS, dir string) ([]string, error) {
	if err := m.EnsureMigrationsTable(ctx); err != nil {
		return nil, fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	applied, err := m.AppliedMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}

	entries, err := fs.ReadDir(migrations, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}
	sort.Strings(sqlFiles)

	var ran []string
	for _, filename := range sqlFiles {
		if applied[filename] {
			continue
		}

		content, err := fs.ReadFile(migrations, dir+"/"+filename)
		if err != nil {
			return ran, fmt.Errorf("failed to read migration %s: %w", filename, err)
		}

		if err := m.ApplyMigration(ctx, filename, string(content)); err != nil {
			return ran, fmt.Errorf("failed to apply migration %s: %w", filename, err)
		}
		ran = append(ran, filename)
	}

	return ran, nil
}
