package store

import (
	"database/sql"
	"testing"
	"time"

	"github.com/mpeavey/fishcast/internal/models"
)

func setupWeatherStore(t *testing.T) *WeatherStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	s, err := NewWeatherStore(db)
	if err != nil {
		t.Fatalf("new weather store: %v", err)
	}
	return s
}

func nf(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: true}
}

func reading(location string, ts time.Time, wind float64) models.WeatherReading {
	return models.WeatherReading{
		Location:  location,
		Timestamp: ts,
		DateStr:   ts.Format("Monday 01-02-2006"),
		Sunrise:   "06:12",
		Summary:   "clear sky",
		Temp:      nf(68),
		Pressure:  nf(29.95),
		WindSpeed: nf(wind),
		WindGust:  nf(wind + 2),
	}
}

func TestWeatherUpsertReplaces(t *testing.T) {
	s := setupWeatherStore(t)
	ts := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	r := reading("Winnipesaukee", ts, 4)
	r.Rating = "Great Fishing"
	if err := s.Upsert(r); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	r.Rating = "Good Fishing"
	r.Summary = "light rain"
	if err := s.Upsert(r); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := s.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}
	if got[0].Rating != "Good Fishing" || got[0].Summary != "light rain" {
		t.Errorf("row not replaced: rating=%q summary=%q", got[0].Rating, got[0].Summary)
	}
	if !got[0].Timestamp.Equal(ts) {
		t.Errorf("timestamp = %v, want %v", got[0].Timestamp, ts)
	}
}

func TestWeatherRecentOrderAndLimit(t *testing.T) {
	s := setupWeatherStore(t)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if err := s.Upsert(reading("Newfound", base.AddDate(0, 0, i), 5)); err != nil {
			t.Fatalf("upsert %d: %v", i, err)
		}
	}

	got, err := s.Recent(3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d rows, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.After(got[i-1].Timestamp) {
			t.Errorf("rows not newest-first at index %d", i)
		}
	}
}

func TestWeatherLatestPerLocation(t *testing.T) {
	s := setupWeatherStore(t)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for _, loc := range []string{"Squam", "Sunapee"} {
		for i := 0; i < 3; i++ {
			if err := s.Upsert(reading(loc, base.AddDate(0, 0, i), 5)); err != nil {
				t.Fatalf("upsert: %v", err)
			}
		}
	}

	got, err := s.LatestPerLocation()
	if err != nil {
		t.Fatalf("latest per location: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	want := base.AddDate(0, 0, 2)
	for _, r := range got {
		if !r.Timestamp.Equal(want) {
			t.Errorf("%s latest = %v, want %v", r.Location, r.Timestamp, want)
		}
	}
}

func TestWeatherForecastWindow(t *testing.T) {
	s := setupWeatherStore(t)
	now := time.Now()
	in := []time.Time{
		now.AddDate(0, 0, -8).Add(time.Hour),
		now,
		now.AddDate(0, 0, 8).Add(-time.Hour),
	}
	out := []time.Time{
		now.AddDate(0, 0, -9),
		now.AddDate(0, 0, 9),
	}
	for i, ts := range append(in, out...) {
		r := reading("Mascoma", ts, 5)
		r.Timestamp = ts.Add(time.Duration(i) * time.Second) // keep keys distinct
		if err := s.Upsert(r); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	got, err := s.ForecastWindow(8, 50)
	if err != nil {
		t.Fatalf("forecast window: %v", err)
	}
	if len(got) != len(in) {
		t.Fatalf("got %d rows, want %d", len(got), len(in))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.Before(got[i-1].Timestamp) {
			t.Errorf("window rows not oldest-first at index %d", i)
		}
	}
}

func TestWeatherFiltered(t *testing.T) {
	s := setupWeatherStore(t)
	base := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		if err := s.Upsert(reading("Champlain", base.AddDate(0, 0, i), 5)); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	if err := s.Upsert(reading("Squam", base, 5)); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.Filtered("Champlain", base.AddDate(0, 0, 2), base.AddDate(0, 0, 5), 50)
	if err != nil {
		t.Fatalf("filtered: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d rows, want 4", len(got))
	}
	for _, r := range got {
		if r.Location != "Champlain" {
			t.Errorf("unexpected location %q", r.Location)
		}
	}
}

func TestWeatherCleanupAndStats(t *testing.T) {
	s := setupWeatherStore(t)
	now := time.Now()
	for _, age := range []int{5, 35, 65, 95} {
		if err := s.Upsert(reading("Newfound", now.AddDate(0, 0, -age), 5)); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	stats, err := s.GetCleanupStats()
	if err != nil {
		t.Fatalf("cleanup stats: %v", err)
	}
	if stats.OlderThan30 != 3 || stats.OlderThan60 != 2 || stats.OlderThan90 != 1 {
		t.Errorf("stats = %+v, want 3/2/1", stats)
	}
	if stats.Total != 4 {
		t.Errorf("total = %d, want 4", stats.Total)
	}

	deleted, err := s.Cleanup(30)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}

	remaining, err := s.Recent(50)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(remaining) != 1 {
		t.Errorf("remaining = %d, want 1", len(remaining))
	}
}

func TestWeatherStatistics(t *testing.T) {
	s := setupWeatherStore(t)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if err := s.Upsert(reading("Squam", base.AddDate(0, 0, i), 5)); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	if err := s.Upsert(reading("Mascoma", base, 5)); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	stats, err := s.Statistics()
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.TotalRecords != 4 {
		t.Errorf("total = %d, want 4", stats.TotalRecords)
	}
	if stats.LocationCounts["Squam"] != 3 {
		t.Errorf("squam count = %d, want 3", stats.LocationCounts["Squam"])
	}
	if stats.OldestTS == nil || *stats.OldestTS != base.Unix() {
		t.Errorf("oldest = %v, want %d", stats.OldestTS, base.Unix())
	}
}
