package ingest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mpeavey/fishcast/internal/httputil"
	"github.com/mpeavey/fishcast/internal/models"
)

// Published NH Fish & Game stocking-report layers. Neither is guaranteed to
// answer, which is why the sample dataset exists.
var defaultStockingEndpoints = []string{
	"https://nhfg.maps.arcgis.com/rest/services/Stocking_Report/MapServer/0",
	"https://services1.arcgis.com/RbMX0mRVOFNTdLzd/arcgis/rest/services/Stocking_Report/FeatureServer/0",
}

// Per-endpoint query variants, tried in order until one parses.
var stockingQueryVariants = []string{
	"/query?where=1%3D1&outFields=*&f=json",
	"/query?where=1%3D1&outFields=*&returnGeometry=true&f=json",
	"?f=json",
}

// StockingClient pulls fish-stocking records from the ArcGIS feature
// services.
type StockingClient struct {
	endpoints []string
	client    *httputil.Client
}

func NewStockingClient() *StockingClient {
	return &StockingClient{
		endpoints: defaultStockingEndpoints,
		client:    httputil.NewClient("arcgis"),
	}
}

type arcgisResponse struct {
	Features []struct {
		Attributes map[string]any `json:"attributes"`
		Geometry   struct {
			X           *float64  `json:"x"`
			Y           *float64  `json:"y"`
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// FetchAll queries every endpoint, first successful variant per endpoint,
// and returns all parseable records. An empty slice with nil error means
// the services answered but had nothing usable; the caller decides whether
// to fall back to sample data.
func (c *StockingClient) FetchAll() ([]models.StockingRecord, error) {
	var records []models.StockingRecord
	var lastErr error

	for _, endpoint := range c.endpoints {
		body, err := c.fetchEndpoint(endpoint)
		if err != nil {
			lastErr = err
			continue
		}
		records = append(records, parseArcGIS(body)...)
	}

	if records == nil && lastErr != nil {
		return nil, lastErr
	}
	return records, nil
}

func (c *StockingClient) fetchEndpoint(endpoint string) (*arcgisResponse, error) {
	var lastErr error
	for _, variant := range stockingQueryVariants {
		resp, err := c.client.Get(endpoint + variant)
		if err != nil {
			lastErr = networkErr("arcgis", err)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = networkErr("arcgis", fmt.Errorf("status %d", resp.StatusCode))
			continue
		}
		var body arcgisResponse
		err = json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		if err != nil {
			lastErr = parseErr("arcgis", err)
			continue
		}
		return &body, nil
	}
	return nil, lastErr
}

var stockingDateFormats = []string{"2006-01-02", "1/2/2006", "2006/01/02"}

func parseArcGIS(body *arcgisResponse) []models.StockingRecord {
	var records []models.StockingRecord
	for _, feature := range body.Features {
		attrs := feature.Attributes

		lakeName := attrString(attrs, "WATERBODY", "LAKE_NAME")
		species := attrString(attrs, "SPECIES", "FISH_TYPE")
		dateStr := attrString(attrs, "STOCKING_DATE", "DATE")
		if lakeName == "" || species == "" || dateStr == "" {
			continue
		}

		var date time.Time
		var ok bool
		for _, layout := range stockingDateFormats {
			if d, err := time.Parse(layout, dateStr); err == nil {
				date, ok = d, true
				break
			}
		}
		if !ok {
			continue
		}

		fishSize := attrString(attrs, "SIZE", "FISH_SIZE")
		if fishSize == "" {
			fishSize = "Unknown"
		}

		rec := models.StockingRecord{
			LakeName:     lakeName,
			Species:      species,
			StockingDate: date,
			FishSize:     fishSize,
			Quantity:     attrInt(attrs, "QUANTITY", "NUMBER"),
			Notes:        attrString(attrs, "NOTES"),
			Source:       "NH Fish & Game",
		}
		if feature.Geometry.X != nil && feature.Geometry.Y != nil {
			rec.Latitude = nullFloat(feature.Geometry.X)
			rec.Longitude = nullFloat(feature.Geometry.Y)
		} else if len(feature.Geometry.Coordinates) >= 2 {
			rec.Latitude = nullFloat(&feature.Geometry.Coordinates[0])
			rec.Longitude = nullFloat(&feature.Geometry.Coordinates[1])
		}
		records = append(records, rec)
	}
	return records
}

func attrString(attrs map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := attrs[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func attrInt(attrs map[string]any, keys ...string) int64 {
	for _, k := range keys {
		switch v := attrs[k].(type) {
		case float64:
			return int64(v)
		case int64:
			return v
		}
	}
	return 0
}

// SampleStockingRecords is the fixed dataset used when no upstream service
// yields records. Dates are offsets from today so the data always looks
// current.
func SampleStockingRecords(today time.Time) []models.StockingRecord {
	day := func(offset int) time.Time {
		return today.AddDate(0, 0, -offset)
	}
	sample := func(lake, species string, daysAgo int, size string, qty int64, lat, lon float64, notes string) models.StockingRecord {
		return models.StockingRecord{
			LakeName:     lake,
			Species:      species,
			StockingDate: day(daysAgo),
			FishSize:     size,
			Quantity:     qty,
			Latitude:     nullFloat(ptr(lat)),
			Longitude:    nullFloat(ptr(lon)),
			Notes:        notes,
			Source:       "Sample Data",
		}
	}
	return []models.StockingRecord{
		sample("Winnipesaukee", "Rainbow Trout", 5, "8-10 inches", 500, 43.6406, -72.1440, "Stocked in Alton Bay area"),
		sample("Newfound", "Lake Trout", 10, "12-14 inches", 300, 43.7528, -71.7999, "Deep water stocking"),
		sample("Squam", "Brook Trout", 7, "6-8 inches", 400, 43.8280, -71.5503, "Shoreline stocking"),
		sample("Champlain", "Brown Trout", 15, "10-12 inches", 600, 44.4896, -73.3582, "Multiple locations"),
		sample("Mascoma", "Rainbow Trout", 3, "8-10 inches", 250, 43.6587, -72.3200, "Recent stocking"),
		sample("Sunapee", "Lake Trout", 12, "12-14 inches", 350, 43.3770, -72.0850, "Deep water areas"),
		sample("First Connecticut", "Brook Trout", 1, "6-8 inches", 200, 45.0926, -71.2478, "River stocking"),
	}
}
