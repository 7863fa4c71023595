// Package mirror keeps a local SQLite copy of the session snapshots the CLI
// has seen. The server copy always wins: every snapshot fetched from the
// server replaces the mirrored one, and the mirror is only read when the
// server cannot be reached.
package mirror

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/tracking"
	_ "modernc.org/sqlite"
)

// Snapshot is a mirrored session and the time it was copied from the server.
type Snapshot struct {
	View     tracking.SessionView
	SyncedAt time.Time
}

// Mirror is the SQLite snapshot store.
type Mirror struct {
	db *sql.DB
}

// Open opens (or creates) the mirror database at path.
func Open(path string) (*Mirror, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating mirror dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening mirror db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		id         TEXT PRIMARY KEY,
		status     TEXT NOT NULL,
		snapshot   TEXT NOT NULL,
		updated_at INTEGER NOT NULL,
		synced_at  INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating mirror table: %w", err)
	}

	return &Mirror{db: db}, nil
}

// Save replaces the mirrored copy of v with the server's.
func (m *Mirror) Save(ctx context.Context, v *tracking.SessionView, syncedAt time.Time) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding snapshot %s: %w", v.ID, err)
	}
	_, err = m.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO sessions (id, status, snapshot, updated_at, synced_at) VALUES (?, ?, ?, ?, ?)`,
		v.ID, string(v.Status), string(data), v.UpdatedAt.UnixNano(), syncedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("saving snapshot %s: %w", v.ID, err)
	}
	return nil
}

// Get returns the mirrored session id, or nil when it was never mirrored.
func (m *Mirror) Get(ctx context.Context, id string) (*Snapshot, error) {
	return m.scan(m.db.QueryRowContext(ctx,
		`SELECT snapshot, synced_at FROM sessions WHERE id = ?`, id))
}

// Active returns the most recently updated open session, or nil.
func (m *Mirror) Active(ctx context.Context) (*Snapshot, error) {
	return m.scan(m.db.QueryRowContext(ctx,
		`SELECT snapshot, synced_at FROM sessions WHERE status IN (?, ?) ORDER BY updated_at DESC LIMIT 1`,
		string(models.SessionActive), string(models.SessionPaused)))
}

// ClearActive drops mirrored open sessions. Used when the server reports
// that the member has none.
func (m *Mirror) ClearActive(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `DELETE FROM sessions WHERE status IN (?, ?)`,
		string(models.SessionActive), string(models.SessionPaused))
	if err != nil {
		return fmt.Errorf("clearing open snapshots: %w", err)
	}
	return nil
}

// Close closes the mirror database.
func (m *Mirror) Close() error {
	return m.db.Close()
}

func (m *Mirror) scan(row *sql.Row) (*Snapshot, error) {
	var data string
	var synced int64
	if err := row.Scan(&data, &synced); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	s := Snapshot{SyncedAt: time.Unix(0, synced).UTC()}
	if err := json.Unmarshal([]byte(data), &s.View); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &s, nil
}
