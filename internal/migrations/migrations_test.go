package migrations

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunAppliesAllMigrations(t *testing.T) {
	db := openDB(t)

	require.NoError(t, Run(db))

	version, err := GetCurrentVersion(db)
	require.NoError(t, err)
	require.Equal(t, AllMigrations[len(AllMigrations)-1].Version, version)

	// form_values comes from migration 2
	_, err = db.Exec(`INSERT INTO submissions (id, created_at, endpoint, payload, result_kind, form_values)
		VALUES ('a', '2026-01-01 00:00:00.000000', 'http://x', '{}', 'raw', '{"buildingId":"HQ"}')`)
	require.NoError(t, err)
}

func TestRunIsIdempotent(t *testing.T) {
	db := openDB(t)

	require.NoError(t, Run(db))
	require.NoError(t, Run(db))

	var applied int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	require.Equal(t, len(AllMigrations), applied)
}

func TestMigrationVersionsAscending(t *testing.T) {
	for i := 1; i < len(AllMigrations); i++ {
		if AllMigrations[i].Version <= AllMigrations[i-1].Version {
			t.Errorf("migration %d has version %d, not above %d", i, AllMigrations[i].Version, AllMigrations[i-1].Version)
		}
	}
}
