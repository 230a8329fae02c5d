package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mpeavey/fishcast/internal/models"
	"github.com/mpeavey/fishcast/internal/store"
)

func setupServer(t *testing.T) *Server {
	t.Helper()
	open := func() *sql.DB {
		db, err := sql.Open("sqlite", ":memory:")
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		t.Cleanup(func() { db.Close() })
		return db
	}
	weather, err := store.NewWeatherStore(open())
	if err != nil {
		t.Fatalf("weather store: %v", err)
	}
	water, err := store.NewWaterTempStore(open())
	if err != nil {
		t.Fatalf("water store: %v", err)
	}
	stocking, err := store.NewStockingStore(open())
	if err != nil {
		t.Fatalf("stocking store: %v", err)
	}
	return NewServer(weather, water, stocking, "0", "")
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	s := setupServer(t)
	rec := get(t, s.Handler(), "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode[map[string]string](t, rec)
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestLocations(t *testing.T) {
	s := setupServer(t)
	rec := get(t, s.Handler(), "/api/locations")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	locs := decode[[]locationJSON](t, rec)
	if len(locs) != 7 {
		t.Fatalf("got %d locations, want 7", len(locs))
	}
	found := false
	for _, l := range locs {
		if l.Name == "Champlain" {
			found = true
			if l.NOAABuoy != "45012" {
				t.Errorf("champlain buoy = %q", l.NOAABuoy)
			}
		}
	}
	if !found {
		t.Error("Champlain missing from locations")
	}
}

func seedWeather(t *testing.T, s *Server, location string, ts time.Time, wind float64) {
	t.Helper()
	err := s.weather.Upsert(models.WeatherReading{
		Location:  location,
		Timestamp: ts,
		DateStr:   ts.Format("Monday 01-02-2006"),
		Sunrise:   "06:10",
		Summary:   "clear sky",
		Temp:      sql.NullFloat64{Float64: 68, Valid: true},
		Pressure:  sql.NullFloat64{Float64: 29.95, Valid: true},
		WindSpeed: sql.NullFloat64{Float64: wind, Valid: true},
		Rating:    "Good Fishing",
	})
	if err != nil {
		t.Fatalf("seed weather: %v", err)
	}
}

func TestWeatherCurrent(t *testing.T) {
	s := setupServer(t)
	now := time.Now()
	seedWeather(t, s, "Squam", now.Add(-time.Hour), 5)
	seedWeather(t, s, "Squam", now, 7)
	seedWeather(t, s, "Mascoma", now, 3)

	rec := get(t, s.Handler(), "/api/weather/current")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	rows := decode[[]weatherJSON](t, rec)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	for _, row := range rows {
		if row.Location == "Squam" && (row.WindSpeed == nil || *row.WindSpeed != 7) {
			t.Errorf("squam row is not the latest: %+v", row)
		}
	}
}

func TestWeatherFilterByLocation(t *testing.T) {
	s := setupServer(t)
	now := time.Now()
	seedWeather(t, s, "Squam", now, 5)
	seedWeather(t, s, "Mascoma", now, 3)

	rec := get(t, s.Handler(), "/api/weather?location=Mascoma")
	rows := decode[[]weatherJSON](t, rec)
	if len(rows) != 1 || rows[0].Location != "Mascoma" {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestForecastWindow(t *testing.T) {
	s := setupServer(t)
	now := time.Now()
	seedWeather(t, s, "Squam", now.AddDate(0, 0, 3), 5)
	seedWeather(t, s, "Squam", now.AddDate(0, 0, 20), 5)

	rec := get(t, s.Handler(), "/api/forecast")
	rows := decode[[]weatherJSON](t, rec)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want only the in-window reading", len(rows))
	}
}

func TestWaterTempLatest(t *testing.T) {
	s := setupServer(t)
	err := s.water.Insert(models.WaterTemperature{
		LakeName:   "Champlain",
		Celsius:    21,
		Fahrenheit: 69.8,
		Timestamp:  time.Now(),
		Source:     "NOAA Buoy",
		Notes:      "Buoy 45012",
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := get(t, s.Handler(), "/api/watertemp")
	byLake := decode[map[string]waterTempJSON](t, rec)
	champlain, ok := byLake["Champlain"]
	if !ok || champlain.Source != "NOAA Buoy" {
		t.Fatalf("body = %+v", byLake)
	}
	if champlain.Latitude != nil {
		t.Error("absent latitude should be null")
	}

	rec = get(t, s.Handler(), "/api/watertemp?lake=Champlain&days=30")
	rows := decode[[]waterTempJSON](t, rec)
	if len(rows) != 1 || rows[0].Celsius != 21 {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestStockingAndStatus(t *testing.T) {
	s := setupServer(t)
	err := s.stocking.Upsert(models.StockingRecord{
		LakeName:     "Newfound",
		Species:      "Lake Trout",
		StockingDate: time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC),
		FishSize:     "12-14 inches",
		Quantity:     300,
		Source:       "NH Fish & Game",
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	err = s.stocking.LogUpdate(models.UpdateLog{
		UpdateType: "api_update", RecordsUpdated: 1, Success: true, Timestamp: time.Now(),
	})
	if err != nil {
		t.Fatalf("log: %v", err)
	}

	rec := get(t, s.Handler(), "/api/stocking")
	rows := decode[[]stockingJSON](t, rec)
	if len(rows) != 1 || rows[0].StockingDate != "2026-05-15" {
		t.Fatalf("rows = %+v", rows)
	}

	rec = get(t, s.Handler(), "/api/stocking/status")
	status := decode[map[string]any](t, rec)
	if status["total_records"].(float64) != 1 {
		t.Errorf("status = %v", status)
	}
}

func TestWeatherStats(t *testing.T) {
	s := setupServer(t)
	now := time.Now()
	seedWeather(t, s, "Squam", now, 5)
	seedWeather(t, s, "Squam", now.Add(-time.Hour), 5)
	seedWeather(t, s, "Mascoma", now, 5)

	rec := get(t, s.Handler(), "/api/weather/stats")
	stats := decode[store.WeatherStatistics](t, rec)
	if stats.TotalRecords != 3 || stats.LocationCounts["Squam"] != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.NewestTS == nil {
		t.Error("newest ts missing")
	}
}

func TestCleanupEndpoint(t *testing.T) {
	s := setupServer(t)
	now := time.Now()
	seedWeather(t, s, "Squam", now.AddDate(0, 0, -40), 5)
	seedWeather(t, s, "Squam", now, 5)

	// GET is rejected.
	rec := get(t, s.Handler(), "/api/cleanup")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET status = %d, want 405", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/cleanup", nil)
	post := httptest.NewRecorder()
	s.Handler().ServeHTTP(post, req)
	if post.Code != http.StatusOK {
		t.Fatalf("POST status = %d", post.Code)
	}
	body := decode[map[string]int64](t, post)
	if body["deleted_records"] != 1 || body["days_kept"] != 30 {
		t.Errorf("body = %v", body)
	}
}

func TestCleanupStatsEndpoint(t *testing.T) {
	s := setupServer(t)
	now := time.Now()
	for _, age := range []int{35, 65, 95} {
		seedWeather(t, s, "Squam", now.AddDate(0, 0, -age), 5)
	}

	rec := get(t, s.Handler(), "/api/cleanup/stats")
	stats := decode[store.CleanupStats](t, rec)
	if stats.OlderThan30 != 3 || stats.OlderThan60 != 2 || stats.OlderThan90 != 1 {
		t.Errorf("stats = %+v, want cumulative 3/2/1", stats)
	}
	if stats.Total != 3 {
		t.Errorf("total = %d", stats.Total)
	}
}

func TestErrorShape(t *testing.T) {
	s := setupServer(t)
	// Closing the underlying database forces a query failure.
	brokenDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	broken, err := store.NewWeatherStore(brokenDB)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	brokenDB.Close()
	s.weather = broken

	rec := get(t, s.Handler(), "/api/weather/current")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := decode[map[string]string](t, rec)
	if body["error"] == "" {
		t.Error("error body missing")
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
}
