package migrations

import (
	"database/sql"
	"fmt"
)

// Migration represents a single database migration
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// AllMigrations contains all database migrations in order
var AllMigrations = []Migration{
	{
		Version: 1,
		Name:    "Add submission lookup indices",
		Up: `
			CREATE INDEX IF NOT EXISTS idx_submissions_created_at ON submissions(created_at DESC);
			CREATE INDEX IF NOT EXISTS idx_submissions_result_kind ON submissions(result_kind);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_submissions_created_at;
			DROP INDEX IF EXISTS idx_submissions_result_kind;
		`,
	},
	{
		Version: 2,
		Name:    "Store form values with each submission",
		Up: `
			ALTER TABLE submissions ADD COLUMN form_values TEXT NOT NULL DEFAULT '{}';
		`,
		Down: `
			-- SQLite before 3.35 cannot drop columns; the column is left in place
		`,
	},
}

// InitSchema creates the base tables. Columns added later live in AllMigrations.
func InitSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		endpoint TEXT NOT NULL,
		payload TEXT NOT NULL,
		status INTEGER NOT NULL DEFAULT 0,
		status_text TEXT NOT NULL DEFAULT '',
		result_kind TEXT NOT NULL,
		record_count INTEGER NOT NULL DEFAULT 0,
		body TEXT NOT NULL DEFAULT '',
		duration_ms INTEGER NOT NULL DEFAULT 0,
		error TEXT
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Run creates the schema and applies every pending migration, each in its own transaction
func Run(db *sql.DB) error {
	if err := InitSchema(db); err != nil {
		return err
	}

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, err := GetCurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	for _, migration := range AllMigrations {
		if migration.Version <= currentVersion {
			continue
		}
		if err := apply(db, migration); err != nil {
			return err
		}
	}

	return nil
}

func apply(db *sql.DB, m Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.Up); err != nil {
		return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
		return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
	}
	return tx.Commit()
}

// GetCurrentVersion returns the current database schema version
func GetCurrentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow(`
		SELECT COALESCE(MAX(version), 0)
		FROM schema_migrations
	`).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return 0, err
	}
	return version, nil
}
