package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mpeavey/fishcast/internal/lakes"
	"github.com/mpeavey/fishcast/internal/metrics"
	"github.com/mpeavey/fishcast/internal/models"
)

const (
	defaultLimit       = 50
	forecastWindowDays = 8
	defaultCleanupDays = 30
)

// handleWeather lists stored readings, optionally filtered by
// ?location=, ?start= and ?end= (unix seconds), capped at ?limit=.
func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := defaultLimit
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 && v <= defaultLimit {
		limit = v
	}

	var start, end time.Time
	if v, err := strconv.ParseInt(q.Get("start"), 10, 64); err == nil {
		start = time.Unix(v, 0)
	}
	if v, err := strconv.ParseInt(q.Get("end"), 10, 64); err == nil {
		end = time.Unix(v, 0)
	}

	readings, err := s.weather.Filtered(q.Get("location"), start, end, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, mapSlice(readings, toWeatherJSON))
}

// handleWeatherCurrent returns the most recent reading per location.
func (s *Server) handleWeatherCurrent(w http.ResponseWriter, r *http.Request) {
	readings, err := s.weather.LatestPerLocation()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, mapSlice(readings, toWeatherJSON))
}

// handleForecast returns readings within 8 days either side of now.
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	readings, err := s.weather.ForecastWindow(forecastWindowDays, defaultLimit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, mapSlice(readings, toWeatherJSON))
}

// handleWaterTemp returns the latest reading per lake as an object keyed by
// lake name, or with ?lake= the trailing ?days= (default 7) of readings for
// that lake as an array.
func (s *Server) handleWaterTemp(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if lake := q.Get("lake"); lake != "" {
		days := 7
		if v, err := strconv.Atoi(q.Get("days")); err == nil && v > 0 {
			days = v
		}
		readings, err := s.water.Recent(lake, days)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, mapSlice(readings, toWaterTempJSON))
		return
	}

	readings, err := s.water.LatestPerLake()
	if err != nil {
		writeError(w, err)
		return
	}
	byLake := make(map[string]waterTempJSON, len(readings))
	for _, rec := range readings {
		byLake[rec.LakeName] = toWaterTempJSON(rec)
	}
	writeJSON(w, byLake)
}

// handleStocking lists stocking records, all lakes or one with ?lake=.
func (s *Server) handleStocking(w http.ResponseWriter, r *http.Request) {
	var records []models.StockingRecord
	var err error
	if lake := r.URL.Query().Get("lake"); lake != "" {
		records, err = s.stocking.ForLake(lake)
	} else {
		records, err = s.stocking.Recent(defaultLimit)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, mapSlice(records, toStockingJSON))
}

func (s *Server) handleStockingStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.stocking.LastStatus()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status)
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, mapSlice(lakes.All, func(l lakes.Lake) locationJSON {
		return locationJSON{
			Name:      l.Name,
			Latitude:  l.Latitude,
			Longitude: l.Longitude,
			USGSSite:  l.USGSSite,
			NOAABuoy:  l.NOAABuoy,
		}
	}))
}

// handleCleanup deletes weather readings older than the retention horizon.
// POST only; ?days= overrides the 30-day default.
func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	days := defaultCleanupDays
	if v, err := strconv.Atoi(r.URL.Query().Get("days")); err == nil && v > 0 {
		days = v
	}

	deleted, err := s.weather.Cleanup(days)
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.CleanupDeleted.Add(float64(deleted))

	writeJSON(w, map[string]int64{
		"deleted_records": deleted,
		"days_kept":       int64(days),
	})
}

// handleWeatherStats summarizes the weather table: row counts per location
// and the stored time range.
func (s *Server) handleWeatherStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.weather.Statistics()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, stats)
}

func (s *Server) handleCleanupStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.weather.GetCleanupStats()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, stats)
}
