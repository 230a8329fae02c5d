package ingest

import (
	"bufio"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mpeavey/fishcast/internal/httputil"
	"github.com/mpeavey/fishcast/internal/lakes"
	"github.com/mpeavey/fishcast/internal/metrics"
	"github.com/mpeavey/fishcast/internal/models"
)

const defaultNOAAURL = "https://www.ndbc.noaa.gov/data/realtime2/"

// NOAAClient reads water temperature from NDBC realtime2 buoy feeds. The
// feed is a fixed-column text table:
//
//	YY MM DD hh mm WDIR WSPD GST WVHT DPD APD MWD PRES ATMP WTMP DEWP ...
//
// with "MM" standing in for missing values.
type NOAAClient struct {
	baseURL string
	client  *httputil.Client
}

func NewNOAAClient() *NOAAClient {
	return &NOAAClient{
		baseURL: defaultNOAAURL,
		client:  httputil.NewClient("noaa"),
	}
}

// Temperature returns the newest current-year reading with a usable water
// temperature from the lake's buoy.
func (c *NOAAClient) Temperature(lake lakes.Lake) (models.WaterTemperature, error) {
	var rec models.WaterTemperature

	url := c.baseURL + lake.NOAABuoy + ".txt"

	start := time.Now()
	resp, err := c.client.Get(url)
	metrics.UpstreamLatency.WithLabelValues("noaa", "realtime2").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamCallsTotal.WithLabelValues("noaa", "realtime2", "error").Inc()
		return rec, networkErr("noaa", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamCallsTotal.WithLabelValues("noaa", "realtime2", "error").Inc()
		return rec, networkErr("noaa", fmt.Errorf("status %d", resp.StatusCode))
	}
	metrics.UpstreamCallsTotal.WithLabelValues("noaa", "realtime2", "ok").Inc()

	yearPrefix := strconv.Itoa(time.Now().Year())

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, yearPrefix) {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 15 {
			continue
		}

		celsius, err := strconv.ParseFloat(parts[13], 64)
		if err != nil {
			continue // "MM" or junk, try the next line
		}

		ts, err := parseBuoyTime(parts)
		if err != nil {
			continue
		}

		return models.WaterTemperature{
			LakeName:   lake.Name,
			Celsius:    celsius,
			Fahrenheit: celsiusToFahrenheit(celsius),
			Timestamp:  ts,
			Source:     "NOAA Buoy",
			Notes:      "Buoy " + lake.NOAABuoy,
		}, nil
	}
	if err := scanner.Err(); err != nil {
		return rec, networkErr("noaa", err)
	}
	return rec, parseErr("noaa", fmt.Errorf("no usable reading for buoy %s", lake.NOAABuoy))
}

func parseBuoyTime(parts []string) (time.Time, error) {
	var nums [5]int
	for i := 0; i < 5; i++ {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return time.Time{}, err
		}
		nums[i] = n
	}
	return time.Date(nums[0], time.Month(nums[1]), nums[2], nums[3], nums[4], 0, 0, time.UTC), nil
}
