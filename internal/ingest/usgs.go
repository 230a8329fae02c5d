package ingest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/mpeavey/fishcast/internal/httputil"
	"github.com/mpeavey/fishcast/internal/lakes"
	"github.com/mpeavey/fishcast/internal/metrics"
	"github.com/mpeavey/fishcast/internal/models"
)

const defaultUSGSURL = "https://waterservices.usgs.gov/nwis/iv/"

// USGSClient reads water temperature from the USGS instantaneous-values
// service (parameter 00010, temperature in °C).
type USGSClient struct {
	baseURL string
	client  *httputil.Client
}

func NewUSGSClient() *USGSClient {
	return &USGSClient{
		baseURL: defaultUSGSURL,
		client:  httputil.NewClient("usgs"),
	}
}

type usgsResponse struct {
	Value struct {
		TimeSeries []struct {
			SourceInfo struct {
				GeoLocation struct {
					GeogLocation struct {
						Latitude  float64 `json:"latitude"`
						Longitude float64 `json:"longitude"`
					} `json:"geogLocation"`
				} `json:"geoLocation"`
			} `json:"sourceInfo"`
			Values []struct {
				Value []struct {
					Value    string `json:"value"`
					DateTime string `json:"dateTime"`
				} `json:"value"`
			} `json:"values"`
		} `json:"timeSeries"`
	} `json:"value"`
}

// Temperature fetches the latest gauge reading for a lake's USGS site.
func (c *USGSClient) Temperature(lake lakes.Lake) (models.WaterTemperature, error) {
	var rec models.WaterTemperature

	url := fmt.Sprintf("%s?format=json&sites=%s&parameterCd=00010", c.baseURL, lake.USGSSite)

	start := time.Now()
	resp, err := c.client.Get(url)
	metrics.UpstreamLatency.WithLabelValues("usgs", "iv").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamCallsTotal.WithLabelValues("usgs", "iv", "error").Inc()
		return rec, networkErr("usgs", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamCallsTotal.WithLabelValues("usgs", "iv", "error").Inc()
		return rec, networkErr("usgs", fmt.Errorf("status %d", resp.StatusCode))
	}

	var body usgsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		metrics.UpstreamCallsTotal.WithLabelValues("usgs", "iv", "error").Inc()
		return rec, parseErr("usgs", err)
	}
	metrics.UpstreamCallsTotal.WithLabelValues("usgs", "iv", "ok").Inc()

	if len(body.Value.TimeSeries) == 0 {
		return rec, parseErr("usgs", fmt.Errorf("no time series for site %s", lake.USGSSite))
	}
	series := body.Value.TimeSeries[0]
	if len(series.Values) == 0 || len(series.Values[0].Value) == 0 {
		return rec, parseErr("usgs", fmt.Errorf("no values for site %s", lake.USGSSite))
	}
	latest := series.Values[0].Value[0]

	celsius, err := strconv.ParseFloat(latest.Value, 64)
	if err != nil {
		return rec, parseErr("usgs", fmt.Errorf("temperature %q: %w", latest.Value, err))
	}

	ts, err := time.Parse(time.RFC3339, latest.DateTime)
	if err != nil {
		ts = time.Now()
	}

	geo := series.SourceInfo.GeoLocation.GeogLocation
	return models.WaterTemperature{
		LakeName:   lake.Name,
		Celsius:    celsius,
		Fahrenheit: celsiusToFahrenheit(celsius),
		Timestamp:  ts,
		Source:     "USGS",
		Latitude:   nullFloat(&geo.Latitude),
		Longitude:  nullFloat(&geo.Longitude),
	}, nil
}
