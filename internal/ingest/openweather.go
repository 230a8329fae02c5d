// Package ingest fetches weather, water temperature, and stocking data from
// their upstream sources and persists rated records through the domain
// stores. Every upstream call has a hard timeout and no retry; a failed
// source falls through to the next one in its chain.
package ingest

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/mpeavey/fishcast/internal/httputil"
	"github.com/mpeavey/fishcast/internal/lakes"
	"github.com/mpeavey/fishcast/internal/metrics"
	"github.com/mpeavey/fishcast/internal/models"
)

const (
	defaultWeatherURL = "https://api.openweathermap.org/data/2.5/weather"
	defaultOnecallURL = "https://api.openweathermap.org/data/3.0/onecall"

	forecastDays = 8

	// hPa to inHg. The two endpoints were written at different times with
	// different constants; both are kept so stored values stay comparable
	// with history.
	hpaDivisorCurrent    = 33.8639
	hpaMultiplierOnecall = 0.02953
)

const dateStrLayout = "Monday 01-02-2006"

// OpenWeatherClient fetches current conditions from the v2.5 weather
// endpoint and the daily forecast from the v3.0 One Call endpoint.
type OpenWeatherClient struct {
	apiKey     string
	weatherURL string
	onecallURL string
	client     *httputil.Client
}

func NewOpenWeatherClient(apiKey string) *OpenWeatherClient {
	return &OpenWeatherClient{
		apiKey:     apiKey,
		weatherURL: defaultWeatherURL,
		onecallURL: defaultOnecallURL,
		client:     httputil.NewClient("openweather"),
	}
}

type currentResponse struct {
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Pressure float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64  `json:"speed"`
		Gust  *float64 `json:"gust"`
	} `json:"wind"`
	Sys struct {
		Sunrise int64 `json:"sunrise"`
	} `json:"sys"`
}

type onecallResponse struct {
	Daily []struct {
		Dt      int64  `json:"dt"`
		Sunrise int64  `json:"sunrise"`
		Summary string `json:"summary"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Temp struct {
			Day *float64 `json:"day"`
		} `json:"temp"`
		Pressure  *float64 `json:"pressure"`
		WindSpeed *float64 `json:"wind_speed"`
		WindGust  float64  `json:"wind_gust"`
	} `json:"daily"`
}

// Current fetches current conditions for a lake. Units are imperial;
// pressure is converted from hPa to inHg. The reading carries no rating;
// the updater applies one.
func (c *OpenWeatherClient) Current(lake lakes.Lake) (models.WeatherReading, error) {
	var r models.WeatherReading

	url := fmt.Sprintf("%s?lat=%g&lon=%g&appid=%s&units=imperial",
		c.weatherURL, lake.Latitude, lake.Longitude, c.apiKey)

	var body currentResponse
	if err := c.getJSON("current", url, &body); err != nil {
		return r, err
	}

	now := time.Now()
	gust := body.Wind.Speed
	if body.Wind.Gust != nil {
		gust = *body.Wind.Gust
	}
	summary := ""
	if len(body.Weather) > 0 {
		summary = body.Weather[0].Description
	}
	sunrise := "N/A"
	if body.Sys.Sunrise > 0 {
		sunrise = time.Unix(body.Sys.Sunrise, 0).Format("15:04")
	}

	return models.WeatherReading{
		Location:  lake.Name,
		Timestamp: now,
		DateStr:   now.Format(dateStrLayout),
		Sunrise:   sunrise,
		Summary:   summary,
		Temp:      nullFloat(&body.Main.Temp),
		Pressure:  nullFloat(ptr(body.Main.Pressure / hpaDivisorCurrent)),
		WindSpeed: nullFloat(&body.Wind.Speed),
		WindGust:  nullFloat(&gust),
	}, nil
}

// Forecast fetches up to 8 daily forecast readings for a lake from the One
// Call endpoint.
func (c *OpenWeatherClient) Forecast(lake lakes.Lake) ([]models.WeatherReading, error) {
	url := fmt.Sprintf("%s?lat=%g&lon=%g&exclude=current,minutely,hourly,alerts&units=imperial&appid=%s",
		c.onecallURL, lake.Latitude, lake.Longitude, c.apiKey)

	var body onecallResponse
	if err := c.getJSON("onecall", url, &body); err != nil {
		return nil, err
	}

	daily := body.Daily
	if len(daily) > forecastDays {
		daily = daily[:forecastDays]
	}

	readings := make([]models.WeatherReading, 0, len(daily))
	for _, day := range daily {
		ts := time.Unix(day.Dt, 0)
		summary := day.Summary
		if summary == "" && len(day.Weather) > 0 {
			summary = day.Weather[0].Description
		}
		sunrise := "N/A"
		if day.Sunrise > 0 {
			sunrise = time.Unix(day.Sunrise, 0).Format("15:04")
		}

		var pressure *float64
		if day.Pressure != nil {
			pressure = ptr(math.Round(*day.Pressure*hpaMultiplierOnecall*100) / 100)
		}

		readings = append(readings, models.WeatherReading{
			Location:  lake.Name,
			Timestamp: ts,
			DateStr:   ts.Format(dateStrLayout),
			Sunrise:   sunrise,
			Summary:   summary,
			Temp:      nullFloat(day.Temp.Day),
			Pressure:  nullFloat(pressure),
			WindSpeed: nullFloat(day.WindSpeed),
			WindGust:  nullFloat(&day.WindGust),
		})
	}
	return readings, nil
}

func (c *OpenWeatherClient) getJSON(endpoint, url string, out any) error {
	start := time.Now()
	resp, err := c.client.Get(url)
	metrics.UpstreamLatency.WithLabelValues("openweather", endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamCallsTotal.WithLabelValues("openweather", endpoint, "error").Inc()
		return networkErr("openweather "+endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamCallsTotal.WithLabelValues("openweather", endpoint, "error").Inc()
		return networkErr("openweather "+endpoint, fmt.Errorf("status %d", resp.StatusCode))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.UpstreamCallsTotal.WithLabelValues("openweather", endpoint, "error").Inc()
		return parseErr("openweather "+endpoint, err)
	}
	metrics.UpstreamCallsTotal.WithLabelValues("openweather", endpoint, "ok").Inc()
	return nil
}
