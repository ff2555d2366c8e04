package storage

import (
	"database/sql"
	"fmt"
)

// recordArchive asynchronously appends a copy of a write to the archive
func (s *Store) recordArchive(record ArchiveRecord) {
	s.enqueue("archive", func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO kv_archive (key, size, value, written_at) VALUES (?, ?, ?, ?)`,
			record.Key, record.Size, record.Value, record.WrittenAt)
		return err
	})
}

// QueryArchive returns archived writes newest first, optionally filtered by
// key ("" or "*" for all) and capped by limit (0 for no cap)
func (s *Store) QueryArchive(key string, limit int) ([]ArchiveRecord, error) {
	query := `SELECT archive_id, key, size, value, written_at FROM kv_archive WHERE 1=1`
	var args []interface{}

	if key != "" && key != "*" {
		query += " AND key = ?"
		args = append(args, key)
	}

	query += " ORDER BY archive_id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var records []ArchiveRecord
	for rows.Next() {
		var r ArchiveRecord
		if err := rows.Scan(&r.ArchiveID, &r.Key, &r.Size, &r.Value, &r.WrittenAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return records, nil
}
