package store

import (
	"database/sql"
	"testing"
	"time"

	"github.com/mpeavey/fishcast/internal/models"
)

func setupWaterTempStore(t *testing.T) *WaterTempStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	s, err := NewWaterTempStore(db)
	if err != nil {
		t.Fatalf("new water temp store: %v", err)
	}
	return s
}

func tempReading(lake string, ts time.Time, celsius float64, source string) models.WaterTemperature {
	return models.WaterTemperature{
		LakeName:   lake,
		Celsius:    celsius,
		Fahrenheit: celsius*9/5 + 32,
		Timestamp:  ts,
		Source:     source,
		Latitude:   nf(43.64),
		Longitude:  nf(-72.14),
		Notes:      "surface reading",
	}
}

func TestWaterTempLatestPerLake(t *testing.T) {
	s := setupWaterTempStore(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for i, c := range []float64{18, 19, 20} {
		if err := s.Insert(tempReading("Squam", base.Add(time.Duration(i)*time.Hour), c, "USGS")); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	if err := s.Insert(tempReading("Champlain", base, 16, "NOAA Buoy")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := s.LatestPerLake()
	if err != nil {
		t.Fatalf("latest per lake: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	byLake := map[string]models.WaterTemperature{}
	for _, r := range got {
		byLake[r.LakeName] = r
	}
	if byLake["Squam"].Celsius != 20 {
		t.Errorf("squam latest = %v, want 20", byLake["Squam"].Celsius)
	}
	if byLake["Champlain"].Source != "NOAA Buoy" {
		t.Errorf("champlain source = %q", byLake["Champlain"].Source)
	}
}

func TestWaterTempLatestUsesInsertionOrder(t *testing.T) {
	s := setupWaterTempStore(t)
	old := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	newer := old.AddDate(0, 0, 10)

	// Insert the newer timestamp first; the later insert with the older
	// timestamp still wins.
	if err := s.Insert(tempReading("Mascoma", newer, 22, "USGS")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.Insert(tempReading("Mascoma", old, 18, "Estimation Model")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := s.LatestPerLake()
	if err != nil {
		t.Fatalf("latest per lake: %v", err)
	}
	if len(got) != 1 || got[0].Celsius != 18 {
		t.Fatalf("latest = %+v, want the last-inserted row", got)
	}
}

func TestWaterTempRecent(t *testing.T) {
	s := setupWaterTempStore(t)
	now := time.Now()
	for _, age := range []int{1, 3, 10} {
		if err := s.Insert(tempReading("Newfound", now.AddDate(0, 0, -age), 19, "USGS")); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	if err := s.Insert(tempReading("Squam", now, 20, "USGS")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := s.Recent("Newfound", 7)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	if got[0].Timestamp.Before(got[1].Timestamp) {
		t.Error("rows not newest-first")
	}
}

func TestWaterTempUpdateLog(t *testing.T) {
	s := setupWaterTempStore(t)

	_, ok, err := s.LastUpdate()
	if err != nil {
		t.Fatalf("last update: %v", err)
	}
	if ok {
		t.Fatal("expected empty log")
	}

	if err := s.LogUpdate(models.UpdateLog{
		UpdateType:     "water_temperature",
		RecordsUpdated: 7,
		Success:        true,
		Timestamp:      time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("log update: %v", err)
	}
	if err := s.LogUpdate(models.UpdateLog{
		UpdateType:     "water_temperature",
		RecordsUpdated: 0,
		Success:        false,
		ErrorMessage:   sql.NullString{String: "usgs unreachable", Valid: true},
		Timestamp:      time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("log update: %v", err)
	}

	last, ok, err := s.LastUpdate()
	if err != nil {
		t.Fatalf("last update: %v", err)
	}
	if !ok {
		t.Fatal("expected a log entry")
	}
	if last.Success || last.ErrorMessage.String != "usgs unreachable" {
		t.Errorf("last = %+v, want the failed run", last)
	}
}
