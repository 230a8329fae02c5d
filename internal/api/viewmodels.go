package api

import (
	"database/sql"
	"time"

	"github.com/mpeavey/fishcast/internal/models"
)

// View models shape database rows for JSON. Null columns become pointers so
// absent values serialize as null instead of zero.

type weatherJSON struct {
	ID        int64    `json:"id"`
	Location  string   `json:"location"`
	DateTS    int64    `json:"date_ts"`
	DateStr   string   `json:"date_str"`
	Sunrise   string   `json:"sunrise"`
	Summary   string   `json:"summary"`
	Temp      *float64 `json:"temp"`
	Pressure  *float64 `json:"pressure"`
	WindSpeed *float64 `json:"wind_speed"`
	WindGust  *float64 `json:"wind_gust"`
	Base      string   `json:"fishing_base"`
	Rating    string   `json:"fishing_rating"`
}

func toWeatherJSON(r models.WeatherReading) weatherJSON {
	return weatherJSON{
		ID:        r.ID,
		Location:  r.Location,
		DateTS:    r.Timestamp.Unix(),
		DateStr:   r.DateStr,
		Sunrise:   r.Sunrise,
		Summary:   r.Summary,
		Temp:      nullPtr(r.Temp),
		Pressure:  nullPtr(r.Pressure),
		WindSpeed: nullPtr(r.WindSpeed),
		WindGust:  nullPtr(r.WindGust),
		Base:      r.RatingBase,
		Rating:    r.Rating,
	}
}

type waterTempJSON struct {
	ID         int64     `json:"id"`
	LakeName   string    `json:"lake_name"`
	Celsius    float64   `json:"temperature_celsius"`
	Fahrenheit float64   `json:"temperature_fahrenheit"`
	Timestamp  time.Time `json:"timestamp"`
	Source     string    `json:"source"`
	Latitude   *float64  `json:"latitude"`
	Longitude  *float64  `json:"longitude"`
	Depth      *float64  `json:"depth"`
	Notes      string    `json:"notes"`
}

func toWaterTempJSON(r models.WaterTemperature) waterTempJSON {
	return waterTempJSON{
		ID:         r.ID,
		LakeName:   r.LakeName,
		Celsius:    r.Celsius,
		Fahrenheit: r.Fahrenheit,
		Timestamp:  r.Timestamp,
		Source:     r.Source,
		Latitude:   nullPtr(r.Latitude),
		Longitude:  nullPtr(r.Longitude),
		Depth:      nullPtr(r.Depth),
		Notes:      r.Notes,
	}
}

type stockingJSON struct {
	ID           int64    `json:"id"`
	LakeName     string   `json:"lake_name"`
	Species      string   `json:"species"`
	StockingDate string   `json:"stocking_date"`
	FishSize     string   `json:"fish_size"`
	Quantity     int64    `json:"quantity"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Notes        string   `json:"notes"`
	Source       string   `json:"source"`
}

func toStockingJSON(r models.StockingRecord) stockingJSON {
	return stockingJSON{
		ID:           r.ID,
		LakeName:     r.LakeName,
		Species:      r.Species,
		StockingDate: r.StockingDate.Format("2006-01-02"),
		FishSize:     r.FishSize,
		Quantity:     r.Quantity,
		Latitude:     nullPtr(r.Latitude),
		Longitude:    nullPtr(r.Longitude),
		Notes:        r.Notes,
		Source:       r.Source,
	}
}

type locationJSON struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	USGSSite  string  `json:"usgs_site,omitempty"`
	NOAABuoy  string  `json:"noaa_buoy,omitempty"`
}

func nullPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func mapSlice[T, U any](in []T, f func(T) U) []U {
	out := make([]U, len(in))
	for i, v := range in {
		out[i] = f(v)
	}
	return out
}
