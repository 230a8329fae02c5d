// Command fishcast serves the fishing-conditions JSON API over the three
// SQLite databases. It never calls upstream APIs; fishcast-update does that.
package main

import (
	"context"
	"log"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"

	"github.com/mpeavey/fishcast/internal/api"
	"github.com/mpeavey/fishcast/internal/store"
)

type CLI struct {
	DBDir     string `help:"Directory holding the SQLite databases." default:"sqlite_db" env:"FISHCAST_DB_DIR"`
	Port      string `help:"HTTP listen port." default:"8080" env:"FISHCAST_PORT"`
	StaticDir string `help:"Directory of static files to serve at /." env:"FISHCAST_STATIC_DIR"`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("fishcast"),
		kong.Description("Lake fishing conditions API server."),
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

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	server := api.NewServer(weather, water, stocking, cli.Port, cli.StaticDir)
	log.Printf("listening on :%s", cli.Port)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
	log.Println("shutdown complete")
}
