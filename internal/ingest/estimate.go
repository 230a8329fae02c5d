package ingest

import (
	"fmt"
	"math"
	"time"

	"github.com/mpeavey/fishcast/internal/lakes"
	"github.com/mpeavey/fishcast/internal/models"
)

// EstimateTemperature models a lake's water temperature from air temperature
// and seasonal patterns, for lakes where neither a gauge nor a buoy answered.
//
// The seasonal curve peaks around day-of-year 220 (mid August) and swings
// half the lake's seasonal range. Air temperature above or below 20 °C pulls
// the estimate with a dampened, depth-scaled influence, and deeper lakes get
// a flat cooling term. The result is clamped to [0, 30] °C.
func EstimateTemperature(lake lakes.Lake, airCelsius float64, date time.Time) models.WaterTemperature {
	dayOfYear := float64(date.YearDay())
	seasonalFactor := math.Cos((dayOfYear - 220) * 2 * math.Pi / 365)

	seasonal := lake.BaseTemp + lake.SeasonalRange*seasonalFactor*0.5
	airInfluence := (airCelsius - 20) * 0.3 * lake.DepthFactor
	depthCooling := lake.MaxDepth / 100 * 2

	celsius := seasonal + airInfluence - depthCooling
	celsius = math.Max(0, math.Min(30, celsius))

	return models.WaterTemperature{
		LakeName:   lake.Name,
		Celsius:    celsius,
		Fahrenheit: celsiusToFahrenheit(celsius),
		Timestamp:  time.Now(),
		Source:     "Estimation Model",
		Depth:      nullFloat(&lake.AvgDepth),
		Notes:      fmt.Sprintf("Estimated based on air temp %.1f°C, seasonal patterns, and lake characteristics", airCelsius),
	}
}
