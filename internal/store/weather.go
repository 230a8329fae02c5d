package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mpeavey/fishcast/internal/models"
)

const weatherSchema = `
CREATE TABLE IF NOT EXISTS weather_data (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    location TEXT NOT NULL,
    date_ts INTEGER NOT NULL,
    date_str TEXT,
    sunrise TEXT,
    summary TEXT,
    temp_day REAL,
    pressure REAL,
    wind_speed REAL,
    wind_gust REAL,
    fishing_base TEXT,
    fishing_rating TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(location, date_ts)
);

CREATE INDEX IF NOT EXISTS idx_weather_date ON weather_data(date_ts);
CREATE INDEX IF NOT EXISTS idx_weather_location ON weather_data(location);
`

// WeatherStore persists rated weather readings, keyed by (location, date_ts)
// with replace-on-conflict semantics.
type WeatherStore struct {
	db *sql.DB
}

// NewWeatherStore wraps db and creates the schema if absent.
func NewWeatherStore(db *sql.DB) (*WeatherStore, error) {
	if _, err := db.Exec(weatherSchema); err != nil {
		return nil, fmt.Errorf("ensure weather schema: %w", err)
	}
	return &WeatherStore{db: db}, nil
}

// Upsert stores one reading. A second write for the same (location,
// timestamp) overwrites the first; last write wins.
func (s *WeatherStore) Upsert(r models.WeatherReading) error {
	_, err := s.db.Exec(`
		INSERT INTO weather_data (location, date_ts, date_str, sunrise, summary, temp_day, pressure, wind_speed, wind_gust, fishing_base, fishing_rating)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(location, date_ts) DO UPDATE SET
			date_str = excluded.date_str,
			sunrise = excluded.sunrise,
			summary = excluded.summary,
			temp_day = excluded.temp_day,
			pressure = excluded.pressure,
			wind_speed = excluded.wind_speed,
			wind_gust = excluded.wind_gust,
			fishing_base = excluded.fishing_base,
			fishing_rating = excluded.fishing_rating
	`, r.Location, r.Timestamp.Unix(), r.DateStr, r.Sunrise, r.Summary,
		r.Temp, r.Pressure, r.WindSpeed, r.WindGust, r.RatingBase, r.Rating)
	return err
}

// UpsertBatch stores a batch of readings, stopping at the first failure.
func (s *WeatherStore) UpsertBatch(readings []models.WeatherReading) error {
	for _, r := range readings {
		if err := s.Upsert(r); err != nil {
			return fmt.Errorf("upsert %s@%d: %w", r.Location, r.Timestamp.Unix(), err)
		}
	}
	return nil
}

const weatherColumns = `id, location, date_ts, date_str, sunrise, summary, temp_day, pressure, wind_speed, wind_gust, fishing_base, fishing_rating, created_at`

func scanWeather(rows *sql.Rows) (models.WeatherReading, error) {
	var r models.WeatherReading
	var ts int64
	err := rows.Scan(&r.ID, &r.Location, &ts, &r.DateStr, &r.Sunrise, &r.Summary,
		&r.Temp, &r.Pressure, &r.WindSpeed, &r.WindGust, &r.RatingBase, &r.Rating, &r.CreatedAt)
	if err != nil {
		return r, err
	}
	r.Timestamp = time.Unix(ts, 0).UTC()
	return r, nil
}

// Recent returns up to limit readings, newest first.
func (s *WeatherStore) Recent(limit int) ([]models.WeatherReading, error) {
	return queryAll(s.db, scanWeather, `
		SELECT `+weatherColumns+`
		FROM weather_data
		ORDER BY date_ts DESC
		LIMIT ?
	`, limit)
}

// LatestPerLocation projects the most recent reading for each location via a
// correlated max-timestamp subquery.
func (s *WeatherStore) LatestPerLocation() ([]models.WeatherReading, error) {
	return queryAll(s.db, scanWeather, `
		SELECT `+weatherColumns+`
		FROM weather_data w
		WHERE date_ts = (
			SELECT MAX(date_ts) FROM weather_data w2 WHERE w2.location = w.location
		)
		ORDER BY location
	`)
}

// ForecastWindow returns readings within windowDays either side of now,
// inclusive, oldest first, capped at limit.
func (s *WeatherStore) ForecastWindow(windowDays, limit int) ([]models.WeatherReading, error) {
	now := time.Now()
	start := now.AddDate(0, 0, -windowDays).Unix()
	end := now.AddDate(0, 0, windowDays).Unix()
	return queryAll(s.db, scanWeather, `
		SELECT `+weatherColumns+`
		FROM weather_data
		WHERE date_ts >= ? AND date_ts <= ?
		ORDER BY date_ts ASC
		LIMIT ?
	`, start, end, limit)
}

// Filtered returns readings for a location, optionally bounded by start/end
// (zero time means unbounded), newest first.
func (s *WeatherStore) Filtered(location string, start, end time.Time, limit int) ([]models.WeatherReading, error) {
	query := `SELECT ` + weatherColumns + ` FROM weather_data WHERE 1=1`
	var args []any
	if location != "" {
		query += ` AND location = ?`
		args = append(args, location)
	}
	if !start.IsZero() {
		query += ` AND date_ts >= ?`
		args = append(args, start.Unix())
	}
	if !end.IsZero() {
		query += ` AND date_ts <= ?`
		args = append(args, end.Unix())
	}
	query += ` ORDER BY date_ts DESC LIMIT ?`
	args = append(args, limit)
	return queryAll(s.db, scanWeather, query, args...)
}

// Cleanup deletes readings older than daysToKeep days and reports how many
// rows went. Rows younger than the horizon are never touched.
func (s *WeatherStore) Cleanup(daysToKeep int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -daysToKeep).Unix()
	res, err := s.db.Exec(`DELETE FROM weather_data WHERE date_ts < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CleanupStats reports how many rows a sweep at each standard horizon would
// remove, without deleting anything. Counts are cumulative: every row older
// than 90 days is also counted in the 60- and 30-day buckets.
type CleanupStats struct {
	OlderThan30 int64 `json:"older_than_30_days"`
	OlderThan60 int64 `json:"older_than_60_days"`
	OlderThan90 int64 `json:"older_than_90_days"`
	Total       int64 `json:"total_records"`
}

func (s *WeatherStore) GetCleanupStats() (CleanupStats, error) {
	var stats CleanupStats
	now := time.Now()
	for _, h := range []struct {
		days int
		dst  *int64
	}{
		{30, &stats.OlderThan30},
		{60, &stats.OlderThan60},
		{90, &stats.OlderThan90},
	} {
		cutoff := now.AddDate(0, 0, -h.days).Unix()
		n, err := countWhere(s.db, `SELECT COUNT(*) FROM weather_data WHERE date_ts < ?`, cutoff)
		if err != nil {
			return stats, err
		}
		*h.dst = n
	}
	total, err := countWhere(s.db, `SELECT COUNT(*) FROM weather_data`)
	if err != nil {
		return stats, err
	}
	stats.Total = total
	return stats, nil
}

// Statistics summarizes the table for dashboarding. Timestamps are nil when
// the table is empty.
type WeatherStatistics struct {
	TotalRecords   int64            `json:"total_records"`
	LocationCounts map[string]int64 `json:"location_counts"`
	OldestTS       *int64           `json:"oldest_ts"`
	NewestTS       *int64           `json:"newest_ts"`
}

func (s *WeatherStore) Statistics() (WeatherStatistics, error) {
	stats := WeatherStatistics{LocationCounts: make(map[string]int64)}

	total, err := countWhere(s.db, `SELECT COUNT(*) FROM weather_data`)
	if err != nil {
		return stats, err
	}
	stats.TotalRecords = total

	rows, err := s.db.Query(`SELECT location, COUNT(*) FROM weather_data GROUP BY location`)
	if err != nil {
		return stats, err
	}
	defer rows.Close()
	for rows.Next() {
		var loc string
		var n int64
		if err := rows.Scan(&loc, &n); err != nil {
			return stats, err
		}
		stats.LocationCounts[loc] = n
	}
	if err := rows.Err(); err != nil {
		return stats, err
	}

	var oldest, newest sql.NullInt64
	err = s.db.QueryRow(`SELECT MIN(date_ts), MAX(date_ts) FROM weather_data`).
		Scan(&oldest, &newest)
	if err != nil {
		return stats, err
	}
	if oldest.Valid {
		stats.OldestTS = &oldest.Int64
	}
	if newest.Valid {
		stats.NewestTS = &newest.Int64
	}
	return stats, nil
}
