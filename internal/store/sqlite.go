// Package store persists the three fishing-data domains in independent
// file-backed SQLite databases. Each domain store creates its own schema on
// first open; there is no migration framework.
package store

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// Open opens (creating if needed) a SQLite database at path with the
// standard pragmas applied.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	return db, nil
}

// queryAll runs query and scans every row with scan. All three domain
// stores share this instead of hand-rolling the same row loop.
func queryAll[T any](db *sql.DB, scan func(*sql.Rows) (T, error), query string, args ...any) ([]T, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, v)
	}
	return results, rows.Err()
}

// countWhere returns COUNT(*) for a single-condition query.
func countWhere(db *sql.DB, query string, args ...any) (int64, error) {
	var n int64
	err := db.QueryRow(query, args...).Scan(&n)
	return n, err
}
