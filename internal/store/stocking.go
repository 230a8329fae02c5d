package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mpeavey/fishcast/internal/models"
)

const stockingSchema = `
CREATE TABLE IF NOT EXISTS stocking_records (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    lake_name TEXT NOT NULL,
    species TEXT NOT NULL,
    stocking_date TEXT NOT NULL,
    fish_size TEXT,
    quantity INTEGER,
    latitude REAL,
    longitude REAL,
    notes TEXT,
    source TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(lake_name, species, stocking_date)
);

CREATE INDEX IF NOT EXISTS idx_stocking_lake ON stocking_records(lake_name);
CREATE INDEX IF NOT EXISTS idx_stocking_date ON stocking_records(stocking_date);

CREATE TABLE IF NOT EXISTS stocking_update_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    update_type TEXT NOT NULL,
    records_updated INTEGER NOT NULL,
    success INTEGER NOT NULL,
    error_message TEXT,
    ts INTEGER NOT NULL
);
`

const stockingDateLayout = "2006-01-02"

// StockingStore persists fish-stocking events keyed by
// (lake, species, stocking date).
type StockingStore struct {
	db *sql.DB
}

func NewStockingStore(db *sql.DB) (*StockingStore, error) {
	if _, err := db.Exec(stockingSchema); err != nil {
		return nil, fmt.Errorf("ensure stocking schema: %w", err)
	}
	return &StockingStore{db: db}, nil
}

// Upsert stores one record. Re-ingesting the same event refreshes the
// mutable fields and bumps updated_at without creating a duplicate row.
func (s *StockingStore) Upsert(r models.StockingRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO stocking_records
			(lake_name, species, stocking_date, fish_size, quantity, latitude, longitude, notes, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(lake_name, species, stocking_date) DO UPDATE SET
			fish_size = excluded.fish_size,
			quantity = excluded.quantity,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			notes = excluded.notes,
			source = excluded.source,
			updated_at = CURRENT_TIMESTAMP
	`, r.LakeName, r.Species, r.StockingDate.Format(stockingDateLayout),
		r.FishSize, r.Quantity, r.Latitude, r.Longitude, r.Notes, r.Source)
	return err
}

const stockingColumns = `id, lake_name, species, stocking_date, fish_size, quantity, latitude, longitude, notes, source, created_at, updated_at`

func scanStocking(rows *sql.Rows) (models.StockingRecord, error) {
	var r models.StockingRecord
	var date string
	err := rows.Scan(&r.ID, &r.LakeName, &r.Species, &date, &r.FishSize, &r.Quantity,
		&r.Latitude, &r.Longitude, &r.Notes, &r.Source, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return r, err
	}
	r.StockingDate, err = time.Parse(stockingDateLayout, date)
	return r, err
}

// Recent returns up to limit records, most recent stocking date first.
func (s *StockingStore) Recent(limit int) ([]models.StockingRecord, error) {
	return queryAll(s.db, scanStocking, `
		SELECT `+stockingColumns+`
		FROM stocking_records
		ORDER BY stocking_date DESC, lake_name
		LIMIT ?
	`, limit)
}

// ForLake returns all records for one lake, most recent first.
func (s *StockingStore) ForLake(lakeName string) ([]models.StockingRecord, error) {
	return queryAll(s.db, scanStocking, `
		SELECT `+stockingColumns+`
		FROM stocking_records
		WHERE lake_name = ?
		ORDER BY stocking_date DESC
	`, lakeName)
}

// Count returns the number of stored records.
func (s *StockingStore) Count() (int64, error) {
	return countWhere(s.db, `SELECT COUNT(*) FROM stocking_records`)
}

// LogUpdate records one updater run against this store.
func (s *StockingStore) LogUpdate(l models.UpdateLog) error {
	_, err := s.db.Exec(`
		INSERT INTO stocking_update_log (update_type, records_updated, success, error_message, ts)
		VALUES (?, ?, ?, ?, ?)
	`, l.UpdateType, l.RecordsUpdated, l.Success, l.ErrorMessage, l.Timestamp.Unix())
	return err
}

// LastStatus summarizes the most recent updater run plus the current record
// count, for the status endpoint.
type StockingStatus struct {
	TotalRecords   int64          `json:"total_records"`
	LastUpdate     *time.Time     `json:"last_update,omitempty"`
	LastUpdateType string         `json:"last_update_type,omitempty"`
	RecordsUpdated int64          `json:"records_updated"`
	Success        bool           `json:"success"`
	ErrorMessage   sql.NullString `json:"-"`
}

func (s *StockingStore) LastStatus() (StockingStatus, error) {
	var st StockingStatus
	total, err := s.Count()
	if err != nil {
		return st, err
	}
	st.TotalRecords = total

	var ts int64
	err = s.db.QueryRow(`
		SELECT update_type, records_updated, success, error_message, ts
		FROM stocking_update_log
		ORDER BY id DESC
		LIMIT 1
	`).Scan(&st.LastUpdateType, &st.RecordsUpdated, &st.Success, &st.ErrorMessage, &ts)
	if err == sql.ErrNoRows {
		return st, nil
	}
	if err != nil {
		return st, err
	}
	t := time.Unix(ts, 0).UTC()
	st.LastUpdate = &t
	return st, nil
}
