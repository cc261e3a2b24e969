// Package history archives generation entries in a local sqlite file so
// past generations survive process restarts.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rpjhariharan/newscraft/pkg/models"
)

// Archive is a sqlite-backed, append-only store of generation entries.
type Archive struct {
	db *sql.DB
}

// Open creates or opens the archive at path.
func Open(path string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating archive dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	db.SetMaxOpenConns(1)

	a := &Archive{db: db}
	if err := a.init(); err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

func (a *Archive) init() error {
	_, err := a.db.Exec(`
		CREATE TABLE IF NOT EXISTS generations (
			id         TEXT PRIMARY KEY,
			username   TEXT NOT NULL,
			query      TEXT NOT NULL,
			tone       TEXT NOT NULL,
			format     TEXT NOT NULL,
			platform   TEXT NOT NULL,
			content    TEXT NOT NULL,
			citations  TEXT NOT NULL DEFAULT '[]',
			asset_url  TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_generations_created ON generations(created_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (a *Archive) Close() error {
	return a.db.Close()
}

// Append stores one generation entry for the given user.
func (a *Archive) Append(username string, entry models.Entry) error {
	citations, err := json.Marshal(entry.Citations)
	if err != nil {
		return fmt.Errorf("encoding citations: %w", err)
	}

	_, err = a.db.Exec(`
		INSERT INTO generations (id, username, query, tone, format, platform, content, citations, asset_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, username, entry.Query, entry.Tone, string(entry.Format),
		entry.Platform, entry.Content, string(citations), entry.AssetURL,
		entry.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("appending entry: %w", err)
	}
	return nil
}

// Recent returns up to n entries, newest first.
func (a *Archive) Recent(n int) ([]models.Entry, error) {
	rows, err := a.db.Query(`
		SELECT id, query, tone, format, platform, content, citations, asset_url, created_at
		FROM generations ORDER BY created_at DESC, rowid DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		var e models.Entry
		var format, citations, createdAt string
		if err := rows.Scan(&e.ID, &e.Query, &e.Tone, &format, &e.Platform,
			&e.Content, &citations, &e.AssetURL, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		e.Format = models.Format(format)
		if err := json.Unmarshal([]byte(citations), &e.Citations); err != nil {
			return nil, fmt.Errorf("decoding citations: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			e.CreatedAt = ts
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
