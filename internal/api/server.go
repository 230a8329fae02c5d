// Package api serves the read-only JSON endpoints over the three domain
// stores. Handlers never write domain data; the one mutating endpoint is the
// weather retention cleanup.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mpeavey/fishcast/internal/store"
)

type Server struct {
	weather  *store.WeatherStore
	water    *store.WaterTempStore
	stocking *store.StockingStore

	port      string
	staticDir string
}

func NewServer(weather *store.WeatherStore, water *store.WaterTempStore, stocking *store.StockingStore, port, staticDir string) *Server {
	return &Server{
		weather:   weather,
		water:     water,
		stocking:  stocking,
		port:      port,
		staticDir: staticDir,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/weather", s.handleWeather)
	mux.HandleFunc("/api/weather/current", s.handleWeatherCurrent)
	mux.HandleFunc("/api/weather/stats", s.handleWeatherStats)
	mux.HandleFunc("/api/forecast", s.handleForecast)
	mux.HandleFunc("/api/watertemp", s.handleWaterTemp)
	mux.HandleFunc("/api/stocking", s.handleStocking)
	mux.HandleFunc("/api/stocking/status", s.handleStockingStatus)
	mux.HandleFunc("/api/locations", s.handleLocations)
	mux.HandleFunc("/api/cleanup", s.handleCleanup)
	mux.HandleFunc("/api/cleanup/stats", s.handleCleanupStats)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	if s.staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	}
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}
