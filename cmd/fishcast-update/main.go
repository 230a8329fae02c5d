// Command fishcast-update runs one full data refresh: current weather and
// forecasts for every lake, the water-temperature source chain, and stocking
// records. Meant to run from cron.
package main

import (
	"context"
	"log"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"

	"github.com/mpeavey/fishcast/internal/ingest"
	"github.com/mpeavey/fishcast/internal/rating"
	"github.com/mpeavey/fishcast/internal/store"
)

type CLI struct {
	APIKey string `help:"OpenWeatherMap API key." env:"OPENWEATHER_API_KEY" required:""`
	DBDir  string `help:"Directory holding the SQLite databases." default:"sqlite_db" env:"FISHCAST_DB_DIR"`

	SkipWeather  bool `help:"Skip the weather refresh."`
	SkipWater    bool `help:"Skip the water temperature refresh."`
	SkipStocking bool `help:"Skip the stocking refresh."`

	WindGreat   float64 `help:"Wind speed (mph) at or below which fishing rates great." default:"5"`
	WindGoodMin float64 `help:"Lower bound (mph) of the good-fishing wind band." default:"6"`
	WindGoodMax float64 `help:"Upper bound (mph) of the good-fishing wind band." default:"8"`
	WindBadMin  float64 `help:"Lower bound (mph) of the tough-fishing wind band." default:"9"`
	WindBadMax  float64 `help:"Upper bound (mph) of the tough-fishing wind band." default:"10"`
	GustGusty   float64 `help:"Wind gust (mph) above which conditions rate gusty." default:"15"`
	TempCold    float64 `help:"Temperature (°F) below which conditions rate cold." default:"50"`
	TempHot     float64 `help:"Temperature (°F) above which conditions rate too hot." default:"85"`
	Pressure    float64 `help:"Barometric pressure (inHg) splitting low from high." default:"29.92"`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("fishcast-update"),
		kong.Description("Refresh weather, water temperature, and stocking data."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)

	weatherDB, err := store.Open(filepath.Join(cli.DBDir, "weather_data.db"))
	if err != nil {
		log.Fatalf("open weather db: %v", err)
	}
	defer weatherDB.Close()
	waterDB, err := store.Open(filepath.Join(cli.DBDir, "water_temperature.db"))
	if err != nil {
		log.Fatalf("open water temperature db: %v", err)
	}
	defer waterDB.Close()
	stockingDB, err := store.Open(filepath.Join(cli.DBDir, "stocking_data.db"))
	if err != nil {
		log.Fatalf("open stocking db: %v", err)
	}
	defer stockingDB.Close()

	weather, err := store.NewWeatherStore(weatherDB)
	if err != nil {
		log.Fatalf("weather store: %v", err)
	}
	water, err := store.NewWaterTempStore(waterDB)
	if err != nil {
		log.Fatalf("water temperature store: %v", err)
	}
	stocking, err := store.NewStockingStore(stockingDB)
	if err != nil {
		log.Fatalf("stocking store: %v", err)
	}

	thresholds := rating.Thresholds{
		WindGreat:   cli.WindGreat,
		WindGoodMin: cli.WindGoodMin,
		WindGoodMax: cli.WindGoodMax,
		WindBadMin:  cli.WindBadMin,
		WindBadMax:  cli.WindBadMax,
		GustGusty:   cli.GustGusty,
		TempColdMax: cli.TempCold,
		TempHotMin:  cli.TempHot,
		Pressure:    cli.Pressure,
	}

	updater := &ingest.Updater{
		Weather:        weather,
		Water:          water,
		Stocking:       stocking,
		OpenWeather:    ingest.NewOpenWeatherClient(cli.APIKey),
		USGS:           ingest.NewUSGSClient(),
		NOAA:           ingest.NewNOAAClient(),
		StockingClient: ingest.NewStockingClient(),
		Thresholds:     thresholds,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if !cli.SkipWeather {
		n, err := updater.UpdateWeather(ctx)
		if err != nil {
			log.Fatalf("weather update: %v", err)
		}
		log.Printf("weather update complete: %d readings stored", n)
	}
	if !cli.SkipWater {
		n, err := updater.UpdateWaterTemperatures(ctx)
		if err != nil {
			log.Fatalf("water temperature update: %v", err)
		}
		log.Printf("water temperature update complete: %d readings stored", n)
	}
	if !cli.SkipStocking {
		n, err := updater.UpdateStocking(ctx)
		if err != nil {
			log.Fatalf("stocking update: %v", err)
		}
		log.Printf("stocking update complete: %d records stored", n)
	}
}
