// Package drafts keeps unsent edit-form contents in a local sqlite database,
// so a save that failed against the backend is not lost when the form closes.
package drafts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nickpending/voicejournal/internal/api"
)

// NewEntryID is the draft key of a form for an entry that does not exist yet
const NewEntryID int64 = 0

// Draft is one saved form
type Draft struct {
	EntryID   int64
	Input     api.EntryInput
	UpdatedAt time.Time
}

// Store persists drafts keyed by entry id
type Store struct {
	db *sql.DB
}

const schema = `CREATE TABLE IF NOT EXISTS drafts (
	entry_id     INTEGER PRIMARY KEY,
	content      TEXT NOT NULL,
	start_ms     INTEGER NOT NULL,
	stop_ms      INTEGER,
	category_ids TEXT NOT NULL,
	updated_at   INTEGER NOT NULL
)`

// DefaultPath returns $XDG_DATA_HOME/voicejournal/drafts.db (or ~/.local/share)
func DefaultPath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "voicejournal", "drafts.db"), nil
}

// Open opens or creates the drafts database at path
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create drafts directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One writer; the UI saves at most one draft at a time
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	for _, stmt := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000", schema} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to prepare database: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores the form for entryID, replacing any earlier draft
func (s *Store) Save(ctx context.Context, entryID int64, in api.EntryInput) error {
	ids := in.CategoryIDs
	if ids == nil {
		ids = []int64{}
	}
	categoryJSON, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode categories: %w", err)
	}

	var stop sql.NullInt64
	if in.Stop != nil {
		stop = sql.NullInt64{Int64: in.Stop.UnixMilli(), Valid: true}
	}

	query := `
		INSERT INTO drafts (entry_id, content, start_ms, stop_ms, category_ids, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(entry_id) DO UPDATE SET
			content = excluded.content,
			start_ms = excluded.start_ms,
			stop_ms = excluded.stop_ms,
			category_ids = excluded.category_ids,
			updated_at = excluded.updated_at
	`
	_, err = s.db.ExecContext(ctx, query,
		entryID, in.Content, in.Start.UnixMilli(), stop, string(categoryJSON), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// Get returns the draft for entryID; ok is false when there is none
func (s *Store) Get(ctx context.Context, entryID int64) (Draft, bool, error) {
	query := `
		SELECT content, start_ms, stop_ms, category_ids, updated_at
		FROM drafts
		WHERE entry_id = ?
	`

	var (
		content      string
		startMS      int64
		stopMS       sql.NullInt64
		categoryJSON string
		updatedMS    int64
	)
	err := s.db.QueryRowContext(ctx, query, entryID).Scan(&content, &startMS, &stopMS, &categoryJSON, &updatedMS)
	if errors.Is(err, sql.ErrNoRows) {
		return Draft{}, false, nil
	}
	if err != nil {
		return Draft{}, false, fmt.Errorf("failed to load draft: %w", err)
	}

	d := Draft{
		EntryID:   entryID,
		UpdatedAt: time.UnixMilli(updatedMS),
		Input: api.EntryInput{
			Content: content,
			Start:   time.UnixMilli(startMS),
		},
	}
	if stopMS.Valid {
		stop := time.UnixMilli(stopMS.Int64)
		d.Input.Stop = &stop
	}
	if err := json.Unmarshal([]byte(categoryJSON), &d.Input.CategoryIDs); err != nil {
		return Draft{}, false, fmt.Errorf("failed to decode categories: %w", err)
	}
	return d, true, nil
}

// Delete removes the draft for entryID. Deleting a missing draft is not an error.
func (s *Store) Delete(ctx context.Context, entryID int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM drafts WHERE entry_id = ?", entryID); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

// Count returns the number of stored drafts
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM drafts").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count drafts: %w", err)
	}
	return n, nil
}
