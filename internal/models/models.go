package models

import (
	"database/sql"
	"time"
)

// WeatherReading is one row of the weather_data table: a rated reading for a
// single lake at a single point in time. Current conditions and forecast days
// share the table; they are distinguished only by timestamp relative to now.
type WeatherReading struct {
	ID         int64
	Location   string
	Timestamp  time.Time // stored as unix seconds in date_ts
	DateStr    string    // "Monday 01-02-2006"
	Sunrise    string    // "15:04", "N/A" when the upstream omits it
	Summary    string
	Temp       sql.NullFloat64 // °F
	Pressure   sql.NullFloat64 // inHg
	WindSpeed  sql.NullFloat64 // mph
	WindGust   sql.NullFloat64 // mph
	RatingBase string          // wind-band base category, empty when wind unknown
	Rating     string          // full composite label
	CreatedAt  time.Time
}

// WaterTemperature is an append-only reading for one lake. Rows are never
// updated; retrieval takes the most recent per lake.
type WaterTemperature struct {
	ID         int64
	LakeName   string
	Celsius    float64
	Fahrenheit float64
	Timestamp  time.Time
	Source     string // "USGS", "NOAA Buoy", "Estimation Model"
	Latitude   sql.NullFloat64
	Longitude  sql.NullFloat64
	Depth      sql.NullFloat64 // feet
	Notes      string
	CreatedAt  time.Time
}

// StockingRecord is a fish-stocking event, upserted by (lake, species, date).
type StockingRecord struct {
	ID           int64
	LakeName     string
	Species      string
	StockingDate time.Time // date precision only
	FishSize     string
	Quantity     int64
	Latitude     sql.NullFloat64
	Longitude    sql.NullFloat64
	Notes        string
	Source       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UpdateLog records one run of a periodic updater against a domain store.
type UpdateLog struct {
	ID             int64
	UpdateType     string
	RecordsUpdated int64
	Success        bool
	ErrorMessage   sql.NullString
	Timestamp      time.Time
}
