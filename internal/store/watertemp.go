package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mpeavey/fishcast/internal/models"
)

const waterTempSchema = `
CREATE TABLE IF NOT EXISTS water_temperature_records (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    lake_name TEXT NOT NULL,
    temperature_celsius REAL NOT NULL,
    temperature_fahrenheit REAL NOT NULL,
    reading_ts INTEGER NOT NULL,
    source TEXT NOT NULL,
    latitude REAL,
    longitude REAL,
    depth_feet REAL,
    notes TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_watertemp_lake ON water_temperature_records(lake_name);
CREATE INDEX IF NOT EXISTS idx_watertemp_ts ON water_temperature_records(reading_ts);

CREATE TABLE IF NOT EXISTS temperature_update_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    update_type TEXT NOT NULL,
    records_updated INTEGER NOT NULL,
    success INTEGER NOT NULL,
    error_message TEXT,
    ts INTEGER NOT NULL
);
`

// WaterTempStore holds append-only temperature readings. Rows are never
// updated; readers take the highest id per lake as the current reading.
type WaterTempStore struct {
	db *sql.DB
}

func NewWaterTempStore(db *sql.DB) (*WaterTempStore, error) {
	if _, err := db.Exec(waterTempSchema); err != nil {
		return nil, fmt.Errorf("ensure water temperature schema: %w", err)
	}
	return &WaterTempStore{db: db}, nil
}

// Insert appends one reading.
func (s *WaterTempStore) Insert(r models.WaterTemperature) error {
	_, err := s.db.Exec(`
		INSERT INTO water_temperature_records
			(lake_name, temperature_celsius, temperature_fahrenheit, reading_ts, source, latitude, longitude, depth_feet, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.LakeName, r.Celsius, r.Fahrenheit, r.Timestamp.Unix(), r.Source,
		r.Latitude, r.Longitude, r.Depth, r.Notes)
	return err
}

const waterTempColumns = `id, lake_name, temperature_celsius, temperature_fahrenheit, reading_ts, source, latitude, longitude, depth_feet, notes, created_at`

func scanWaterTemp(rows *sql.Rows) (models.WaterTemperature, error) {
	var r models.WaterTemperature
	var ts int64
	err := rows.Scan(&r.ID, &r.LakeName, &r.Celsius, &r.Fahrenheit, &ts,
		&r.Source, &r.Latitude, &r.Longitude, &r.Depth, &r.Notes, &r.CreatedAt)
	if err != nil {
		return r, err
	}
	r.Timestamp = time.Unix(ts, 0).UTC()
	return r, nil
}

// LatestPerLake returns the most recently inserted reading for each lake.
// Recency is insertion order (highest id), not reading timestamp.
func (s *WaterTempStore) LatestPerLake() ([]models.WaterTemperature, error) {
	return queryAll(s.db, scanWaterTemp, `
		SELECT `+waterTempColumns+`
		FROM water_temperature_records
		WHERE id IN (
			SELECT MAX(id) FROM water_temperature_records GROUP BY lake_name
		)
		ORDER BY lake_name
	`)
}

// Recent returns readings for one lake over the trailing daysBack days,
// newest first.
func (s *WaterTempStore) Recent(lakeName string, daysBack int) ([]models.WaterTemperature, error) {
	cutoff := time.Now().AddDate(0, 0, -daysBack).Unix()
	return queryAll(s.db, scanWaterTemp, `
		SELECT `+waterTempColumns+`
		FROM water_temperature_records
		WHERE lake_name = ? AND reading_ts >= ?
		ORDER BY reading_ts DESC
	`, lakeName, cutoff)
}

// LogUpdate records one updater run against this store.
func (s *WaterTempStore) LogUpdate(l models.UpdateLog) error {
	_, err := s.db.Exec(`
		INSERT INTO temperature_update_log (update_type, records_updated, success, error_message, ts)
		VALUES (?, ?, ?, ?, ?)
	`, l.UpdateType, l.RecordsUpdated, l.Success, l.ErrorMessage, l.Timestamp.Unix())
	return err
}

// LastUpdate returns the most recent update-log entry, or ok=false when the
// log is empty.
func (s *WaterTempStore) LastUpdate() (models.UpdateLog, bool, error) {
	var l models.UpdateLog
	var ts int64
	err := s.db.QueryRow(`
		SELECT id, update_type, records_updated, success, error_message, ts
		FROM temperature_update_log
		ORDER BY id DESC
		LIMIT 1
	`).Scan(&l.ID, &l.UpdateType, &l.RecordsUpdated, &l.Success, &l.ErrorMessage, &ts)
	if err == sql.ErrNoRows {
		return l, false, nil
	}
	if err != nil {
		return l, false, err
	}
	l.Timestamp = time.Unix(ts, 0).UTC()
	return l, true, nil
}
