package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/iliyamo/fyyur/internal/logging"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migration is one versioned schema file, named V<version>__<name>.sql.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// LoadMigrations reads the embedded migration files ordered by version.
func LoadMigrations() ([]Migration, error) {
	files, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrations []Migration
	for _, f := range files {
		if !strings.HasSuffix(f.Name(), ".sql") {
			continue
		}
		m, ok := parseMigrationName(f.Name())
		if !ok {
			logging.Warn().Str("file", f.Name()).Msg("skipping invalid migration file name")
			continue
		}
		content, err := migrationsFS.ReadFile("migrations/" + f.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", f.Name(), err)
		}
		m.SQL = string(content)
		migrations = append(migrations, m)
	}
	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}

func parseMigrationName(file string) (Migration, bool) {
	parts := strings.SplitN(strings.TrimSuffix(file, ".sql"), "__", 2)
	if len(parts) != 2 || !strings.HasPrefix(parts[0], "V") || parts[1] == "" {
		return Migration{}, false
	}
	v, err := strconv.Atoi(parts[0][1:])
	if err != nil || v <= 0 {
		return Migration{}, false
	}
	return Migration{Version: v, Name: parts[1]}, true
}

// SplitStatements splits a migration into single statements. The driver
// runs without multiStatements, so each statement is executed on its own.
// Lines starting with "--" are dropped.
func SplitStatements(script string) []string {
	var b strings.Builder
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	var out []string
	for _, stmt := range strings.Split(b.String(), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

// Migrate applies every embedded migration not yet recorded in
// schema_migrations. MySQL commits DDL implicitly, so each migration is
// recorded right after its statements succeed.
func Migrate(ctx context.Context, db *sql.DB) error {
	logging.Info().Msg("starting database migrations")

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations, err := LoadMigrations()
	if err != nil {
		return err
	}

	for _, m := range migrations {
		var count int
		if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, m.Version).Scan(&count); err != nil {
			return fmt.Errorf("failed to check migration V%d__%s: %w", m.Version, m.Name, err)
		}
		if count > 0 {
			logging.Debug().Int("version", m.Version).Str("name", m.Name).Msg("migration already applied, skipping")
			continue
		}

		logging.Info().Int("version", m.Version).Str("name", m.Name).Msg("applying migration")
		for _, stmt := range SplitStatements(m.SQL) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply migration V%d__%s: %w", m.Version, m.Name, err)
			}
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, m.Version, m.Name); err != nil {
			return fmt.Errorf("failed to record migration V%d__%s: %w", m.Version, m.Name, err)
		}
	}

	logging.Info().Msg("database migrations completed")
	return nil
}
