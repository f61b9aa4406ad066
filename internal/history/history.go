// Package history keeps a SQLite log of library mutations for auditing.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/zonelib/zonelib/internal/migrations"
)

// Event types recorded by the API layer.
const (
	EventCreated  = "created"
	EventRenamed  = "renamed"
	EventTagged   = "tagged"
	EventSubtitle = "subtitle"
	EventDeleted  = "deleted"
	EventImported = "imported"
)

// Entry is one recorded mutation.
type Entry struct {
	ID        int64     `json:"id"`
	Event     string    `json:"event"`
	MediaID   string    `json:"mediaId"`
	Data      string    `json:"data"`
	CreatedAt time.Time `json:"createdAt"`
}

// Log appends mutation events to a SQLite database.
type Log struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (creating if needed) the history database at path and applies
// the schema.
func Open(path string, log *slog.Logger) (*Log, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(migrations.HistorySQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}

	return &Log{db: db, log: log.With("component", "history")}, nil
}

// Close closes the underlying database.
func (l *Log) Close() error {
	return l.db.Close()
}

// Record appends an event. data is marshalled to JSON; failures are logged
// and swallowed so a broken history never fails a library mutation.
func (l *Log) Record(event, mediaID string, data any) {
	payload := "{}"
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			l.log.Warn("history payload not serializable", "event", event, "error", err)
		} else {
			payload = string(b)
		}
	}

	_, err := l.db.Exec(`
		INSERT INTO history (event, media_id, data, created_at)
		VALUES (?, ?, ?, ?)`,
		event, mediaID, payload, time.Now().UTC(),
	)
	if err != nil {
		l.log.Error("history append failed", "event", event, "mediaId", mediaID, "error", err)
	}
}

// Recent returns the newest events, most recent first.
func (l *Log) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.Query(`
		SELECT id, event, media_id, data, created_at
		FROM history
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Event, &e.MediaID, &e.Data, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ForMedia returns all events for one entry, oldest first.
func (l *Log) ForMedia(mediaID string) ([]Entry, error) {
	rows, err := l.db.Query(`
		SELECT id, event, media_id, data, created_at
		FROM history
		WHERE media_id = ?
		ORDER BY id ASC`, mediaID)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Event, &e.MediaID, &e.Data, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
