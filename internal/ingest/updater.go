package ingest

import (
	"context"
	"log"
	"time"

	"github.com/mpeavey/fishcast/internal/lakes"
	"github.com/mpeavey/fishcast/internal/metrics"
	"github.com/mpeavey/fishcast/internal/models"
	"github.com/mpeavey/fishcast/internal/rating"
	"github.com/mpeavey/fishcast/internal/store"
)

// locationPause is the fixed gap between per-lake upstream calls, to stay
// under the OpenWeatherMap rate limits.
const locationPause = 1 * time.Second

// Fallback air temperatures (°C) per lake for the estimation model, used
// when no stored weather reading is available. Typical August values.
var defaultAirCelsius = map[string]float64{
	"Winnipesaukee":     24.0,
	"Newfound":          23.5,
	"Squam":             23.0,
	"Champlain":         25.0,
	"Mascoma":           24.5,
	"Sunapee":           23.8,
	"First Connecticut": 23.0,
}

const fallbackAirCelsius = 25.0

// Updater orchestrates one full refresh: weather for every lake, the water
// temperature source chain, and stocking records.
type Updater struct {
	Weather  *store.WeatherStore
	Water    *store.WaterTempStore
	Stocking *store.StockingStore

	OpenWeather    *OpenWeatherClient
	USGS           *USGSClient
	NOAA           *NOAAClient
	StockingClient *StockingClient

	Thresholds rating.Thresholds

	// Pause overrides locationPause; zero means the default. Tests set it
	// to keep runs fast.
	Pause time.Duration
}

func (u *Updater) pause() time.Duration {
	if u.Pause > 0 {
		return u.Pause
	}
	return locationPause
}

// UpdateWeather refreshes current conditions and the 8-day forecast for
// every lake. A lake whose fetch fails is logged and skipped; the loop
// keeps going. Returns the number of readings stored.
func (u *Updater) UpdateWeather(ctx context.Context) (int, error) {
	total := 0
	for i, lake := range lakes.All {
		if i > 0 {
			select {
			case <-ctx.Done():
				return total, ctx.Err()
			case <-time.After(u.pause()):
			}
		}

		current, err := u.OpenWeather.Current(lake)
		if err != nil {
			log.Printf("weather: current conditions for %s: %v", lake.Name, err)
		} else {
			// Live rows get the weighted-score rating.
			if current.WindSpeed.Valid && current.Temp.Valid && current.Pressure.Valid {
				label := rating.RateByScore(current.WindSpeed.Float64, current.Temp.Float64, current.Pressure.Float64)
				current.RatingBase = label
				current.Rating = label
			}
			if err := u.Weather.Upsert(current); err != nil {
				log.Printf("weather: store current for %s: %v", lake.Name, err)
			} else {
				total++
				metrics.RecordsStored.WithLabelValues("weather").Inc()
			}
		}

		forecast, err := u.OpenWeather.Forecast(lake)
		if err != nil {
			log.Printf("weather: forecast for %s: %v", lake.Name, err)
			continue
		}
		for i, day := range forecast {
			// Forecast rows get the threshold banding.
			base, label := u.Thresholds.Rate(rating.Conditions{
				WindSpeed: day.WindSpeed,
				WindGust:  day.WindGust,
				Temp:      day.Temp,
				Pressure:  day.Pressure,
			})
			forecast[i].RatingBase = base
			forecast[i].Rating = label
		}
		if err := u.Weather.UpsertBatch(forecast); err != nil {
			log.Printf("weather: store forecast for %s: %v", lake.Name, err)
			continue
		}
		total += len(forecast)
		metrics.RecordsStored.WithLabelValues("weather").Add(float64(len(forecast)))
	}
	return total, nil
}

// UpdateWaterTemperatures runs the source chain for every lake: USGS gauge,
// then NOAA buoy, then the estimation model. The estimate always succeeds,
// so every lake gets a reading. Returns the number of readings stored.
func (u *Updater) UpdateWaterTemperatures(ctx context.Context) (int, error) {
	airTemps := u.airTemperatures()

	updated := 0
	for i, lake := range lakes.All {
		if i > 0 {
			select {
			case <-ctx.Done():
				return updated, ctx.Err()
			case <-time.After(u.pause()):
			}
		}

		rec, err := u.fetchTemperature(lake, airTemps)
		if err != nil {
			log.Printf("watertemp: %s: %v", lake.Name, err)
			continue
		}
		if err := u.Water.Insert(rec); err != nil {
			log.Printf("watertemp: store %s: %v", lake.Name, err)
			continue
		}
		updated++
		metrics.RecordsStored.WithLabelValues("water_temperature").Inc()
	}

	logErr := u.Water.LogUpdate(models.UpdateLog{
		UpdateType:     "temperature_update",
		RecordsUpdated: int64(updated),
		Success:        true,
		Timestamp:      time.Now(),
	})
	if logErr != nil {
		log.Printf("watertemp: log update: %v", logErr)
	}
	return updated, nil
}

func (u *Updater) fetchTemperature(lake lakes.Lake, airTemps map[string]float64) (models.WaterTemperature, error) {
	if lake.USGSSite != "" {
		rec, err := u.USGS.Temperature(lake)
		if err == nil {
			return rec, nil
		}
		log.Printf("watertemp: usgs for %s: %v", lake.Name, err)
	}
	if lake.NOAABuoy != "" {
		rec, err := u.NOAA.Temperature(lake)
		if err == nil {
			return rec, nil
		}
		log.Printf("watertemp: noaa for %s: %v", lake.Name, err)
	}

	air, ok := airTemps[lake.Name]
	if !ok {
		air = fallbackAirCelsius
	}
	return EstimateTemperature(lake, air, time.Now()), nil
}

// airTemperatures builds the estimation model's air inputs from the latest
// stored weather per lake, falling back to the seasonal defaults.
func (u *Updater) airTemperatures() map[string]float64 {
	temps := make(map[string]float64, len(defaultAirCelsius))
	for k, v := range defaultAirCelsius {
		temps[k] = v
	}
	if u.Weather == nil {
		return temps
	}
	latest, err := u.Weather.LatestPerLocation()
	if err != nil {
		log.Printf("watertemp: latest weather for air temps: %v", err)
		return temps
	}
	for _, r := range latest {
		if r.Temp.Valid {
			temps[r.Location] = fahrenheitToCelsius(r.Temp.Float64)
		}
	}
	return temps
}

// UpdateStocking refreshes stocking records from the ArcGIS services,
// falling back to the sample dataset when no usable records come back.
// Returns the number of records stored.
func (u *Updater) UpdateStocking(ctx context.Context) (int, error) {
	updateType := "api_update"

	records, err := u.StockingClient.FetchAll()
	if err != nil {
		log.Printf("stocking: fetch: %v", err)
	}
	if len(records) == 0 {
		log.Printf("stocking: no usable upstream data, using sample dataset")
		records = SampleStockingRecords(time.Now())
		updateType = "sample_data"
	}

	saved := 0
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return saved, err
		}
		if err := u.Stocking.Upsert(rec); err != nil {
			log.Printf("stocking: store %s/%s: %v", rec.LakeName, rec.Species, err)
			continue
		}
		saved++
		metrics.RecordsStored.WithLabelValues("stocking").Inc()
	}

	logErr := u.Stocking.LogUpdate(models.UpdateLog{
		UpdateType:     updateType,
		RecordsUpdated: int64(saved),
		Success:        true,
		Timestamp:      time.Now(),
	})
	if logErr != nil {
		log.Printf("stocking: log update: %v", logErr)
	}
	return saved, nil
}

// RunAll runs the three refreshes in order and reports per-domain counts.
func (u *Updater) RunAll(ctx context.Context) (weather, water, stocking int, err error) {
	weather, err = u.UpdateWeather(ctx)
	if err != nil {
		return
	}
	water, err = u.UpdateWaterTemperatures(ctx)
	if err != nil {
		return
	}
	stocking, err = u.UpdateStocking(ctx)
	return
}
