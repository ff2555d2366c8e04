package storage

import "time"

// ValueRecord is a row in the kv table
type ValueRecord struct {
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ArchiveRecord is a row in the kv_archive write log
type ArchiveRecord struct {
	ArchiveID int64     `db:"archive_id"`
	Key       string    `db:"key"`
	Size      int       `db:"size"`
	Value     string    `db:"value"`
	WrittenAt time.Time `db:"written_at"`
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS kv_archive (
	archive_id INTEGER PRIMARY KEY AUTOINCREMENT,
	key TEXT NOT NULL,
	size INTEGER NOT NULL,
	value TEXT NOT NULL,
	written_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_kv_archive_key ON kv_archive(key);
`
