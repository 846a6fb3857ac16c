// Package shelfstore persists dashbin shelf snapshots in a local SQLite
// database, and watches the database file so a second window can pick up
// writes made by another process. The core hands it whole-collection
// snapshots and treats the format as opaque; loads tolerate missing or
// corrupt data by starting empty.
package shelfstore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/ag758/dashbin"
)

// FileName is the database file created under the shelf directory.
const FileName = "shelf.db"

const schema = `
CREATE TABLE IF NOT EXISTS records (
	position   INTEGER NOT NULL,
	id         TEXT PRIMARY KEY,
	text       TEXT NOT NULL,
	created_at TEXT NOT NULL,
	pinned     INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS groups (
	position INTEGER NOT NULL,
	id       TEXT PRIMARY KEY,
	name     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS group_records (
	group_id   TEXT NOT NULL,
	position   INTEGER NOT NULL,
	id         TEXT NOT NULL,
	text       TEXT NOT NULL,
	created_at TEXT NOT NULL,
	pinned     INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (group_id, id)
);
`

// DB wraps the SQLite handle with snapshot save/load. It implements
// dashbin.Saver.
type DB struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (creating if needed) the shelf database under dir with WAL
// journaling and a busy timeout, and applies the schema.
func Open(dir string, logger *zap.Logger) (*DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create shelf directory: %w", err)
	}
	path := filepath.Join(dir, FileName)
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open shelf database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply shelf schema: %w", err)
	}
	return &DB{db: db, logger: logger}, nil
}

// OpenOrEmpty opens the shelf database, and when the stored file turns out
// unreadable or corrupt, moves it aside and starts a fresh one. Interactive
// use must never be blocked by bad stored data.
func OpenOrEmpty(dir string, logger *zap.Logger) (*DB, error) {
	d, err := Open(dir, logger)
	if err == nil {
		return d, nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Warn("shelf database unusable, starting empty", zap.Error(err))
	path := filepath.Join(dir, FileName)
	_ = os.Rename(path, path+".corrupt")
	_ = os.Remove(path + "-wal")
	_ = os.Remove(path + "-shm")
	return Open(dir, logger)
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Save rewrites the whole snapshot in one transaction.
func (d *DB) Save(records []dashbin.Record, groups []dashbin.Group) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin shelf save: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"records", "groups", "group_records"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	for i, r := range records {
		if _, err := tx.Exec(
			"INSERT INTO records (position, id, text, created_at, pinned) VALUES (?, ?, ?, ?, ?)",
			i, r.ID, r.Text, r.CreatedAt.UTC().Format(time.RFC3339Nano), boolInt(r.Pinned),
		); err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}
	for i, g := range groups {
		if _, err := tx.Exec(
			"INSERT INTO groups (position, id, name) VALUES (?, ?, ?)",
			i, g.ID, g.Name,
		); err != nil {
			return fmt.Errorf("insert group: %w", err)
		}
		for j, r := range g.Records {
			if _, err := tx.Exec(
				"INSERT INTO group_records (group_id, position, id, text, created_at, pinned) VALUES (?, ?, ?, ?, ?, ?)",
				g.ID, j, r.ID, r.Text, r.CreatedAt.UTC().Format(time.RFC3339Nano), boolInt(r.Pinned),
			); err != nil {
				return fmt.Errorf("insert group record: %w", err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit shelf save: %w", err)
	}
	return nil
}

// Load returns the stored collections in their saved order. Read errors
// degrade to empty collections with a logged diagnostic rather than
// failing; the caller always gets something usable.
func (d *DB) Load() ([]dashbin.Record, []dashbin.Group) {
	records, err := d.loadRecords()
	if err != nil {
		d.logger.Warn("shelf record load failed, starting empty", zap.Error(err))
		return nil, nil
	}
	groups, err := d.loadGroups()
	if err != nil {
		d.logger.Warn("shelf group load failed, keeping records only", zap.Error(err))
		return records, nil
	}
	return records, groups
}

func (d *DB) loadRecords() ([]dashbin.Record, error) {
	rows, err := d.db.Query("SELECT id, text, created_at, pinned FROM records ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []dashbin.Record
	for rows.Next() {
		var rec dashbin.Record
		var created string
		var pinned int
		if err := rows.Scan(&rec.ID, &rec.Text, &created, &pinned); err != nil {
			return nil, err
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		rec.Pinned = pinned != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (d *DB) loadGroups() ([]dashbin.Group, error) {
	rows, err := d.db.Query("SELECT id, name FROM groups ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []dashbin.Group
	for rows.Next() {
		var g dashbin.Group
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		members, err := d.loadGroupRecords(out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Records = members
	}
	return out, nil
}

func (d *DB) loadGroupRecords(groupID string) ([]dashbin.Record, error) {
	rows, err := d.db.Query("SELECT id, text, created_at, pinned FROM group_records WHERE group_id = ? ORDER BY position", groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []dashbin.Record
	for rows.Next() {
		var rec dashbin.Record
		var created string
		var pinned int
		if err := rows.Scan(&rec.ID, &rec.Text, &created, &pinned); err != nil {
			return nil, err
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		rec.Pinned = pinned != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
