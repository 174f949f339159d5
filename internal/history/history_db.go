package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/studiowebux/archibus-connect/internal/config"
	"github.com/studiowebux/archibus-connect/internal/logging"
	"github.com/studiowebux/archibus-connect/internal/migrations"
)

// sortable in text form; SQLite has no native timestamp type
const timeLayout = "2006-01-02 15:04:05.000000"

type Manager struct {
	db *sql.DB
}

func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, config.DirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db}, nil
}

// Save stores an entry, assigning an id and timestamp when missing
func (m *Manager) Save(e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	if e.Form == nil {
		e.Form = map[string]string{}
	}

	formJSON, err := json.Marshal(e.Form)
	if err != nil {
		return e, fmt.Errorf("failed to marshal form values: %w", err)
	}

	var errText sql.NullString
	if e.Error != "" {
		errText = sql.NullString{String: e.Error, Valid: true}
	}

	_, err = m.db.Exec(`
		INSERT INTO submissions (
			id, created_at, endpoint, payload, form_values, status, status_text,
			result_kind, record_count, body, duration_ms, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.CreatedAt.UTC().Format(timeLayout),
		e.Endpoint,
		e.Payload,
		string(formJSON),
		e.Status,
		e.StatusText,
		e.ResultKind,
		e.RecordCount,
		e.Body,
		e.Duration.Milliseconds(),
		errText,
	)
	if err != nil {
		return e, fmt.Errorf("failed to save history entry: %w", err)
	}

	logging.Logger().V(1).Info("history entry saved", "id", e.ID, "kind", e.ResultKind)
	return e, nil
}

const selectColumns = `
	SELECT id, created_at, endpoint, payload, form_values, status, status_text,
	       result_kind, record_count, body, duration_ms, error
	FROM submissions`

// List returns the newest entries first. A limit of zero or less returns all.
func (m *Manager) List(limit int) ([]Entry, error) {
	query := selectColumns + " ORDER BY created_at DESC, rowid DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := m.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns one entry by id, or ErrNotFound
func (m *Manager) Get(id string) (Entry, error) {
	row := m.db.QueryRow(selectColumns+" WHERE id = ?", id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var (
		e          Entry
		createdAt  string
		formJSON   string
		durationMs int64
		errText    sql.NullString
	)

	err := s.Scan(
		&e.ID,
		&createdAt,
		&e.Endpoint,
		&e.Payload,
		&formJSON,
		&e.Status,
		&e.StatusText,
		&e.ResultKind,
		&e.RecordCount,
		&e.Body,
		&durationMs,
		&errText,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return e, err
	}
	if err != nil {
		return e, fmt.Errorf("failed to scan history entry: %w", err)
	}

	if t, err := time.ParseInLocation(timeLayout, createdAt, time.UTC); err == nil {
		e.CreatedAt = t
	}
	if err := json.Unmarshal([]byte(formJSON), &e.Form); err != nil {
		e.Form = map[string]string{}
	}
	e.Duration = time.Duration(durationMs) * time.Millisecond
	e.Error = errText.String
	return e, nil
}

func (m *Manager) Clear() error {
	if _, err := m.db.Exec("DELETE FROM submissions"); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (m *Manager) Delete(id string) error {
	if _, err := m.db.Exec("DELETE FROM submissions WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}
	return nil
}

func (m *Manager) Count() (int, error) {
	var count int
	if err := m.db.QueryRow("SELECT COUNT(*) FROM submissions").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get history count: %w", err)
	}
	return count, nil
}

func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
