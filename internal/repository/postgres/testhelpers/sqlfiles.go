package testhelpers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

// ApplyMigrations применяет все *.up.sql из dir по порядку имен.
// Миграции идемпотентны, поэтому повторный запуск suite безопасен.
func ApplyMigrations(ctx context.Context, db *sqlx.DB, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	return execFiles(ctx, db, dir, "migration", files)
}

// LoadFixtures выполняет SQL-фикстуры в переданном порядке
func LoadFixtures(ctx context.Context, db *sqlx.DB, dir string, files ...string) error {
	return execFiles(ctx, db, dir, "fixture", files)
}

func execFiles(ctx context.Context, db *sqlx.DB, dir, kind string, files []string) error {
	for _, file := range files {
		content, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			return fmt.Errorf("read %s %s: %w", kind, file, err)
		}

		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("apply %s %s: %w", kind, file, err)
		}
	}
	return nil
}
