// Package monitor provides the HTTP diagnostics surface: JSON endpoints
// over the same pull-based snapshot getters the renderer uses, plus debug
// charts. It is read-only and owns no state of its own.
package monitor

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/SamSkjord/open-TPT-sub002/internal/history"
	"github.com/SamSkjord/open-TPT-sub002/internal/thermal"
	"github.com/SamSkjord/open-TPT-sub002/internal/units"
)

// ReportProvider supplies the latest zone report per corner, as published
// by the ingestion runtime for the live boundary overlay.
type ReportProvider interface {
	LatestReport(corner thermal.Corner) (thermal.ZoneReport, bool)
}

// WebServer handles the HTTP interface for tyre telemetry diagnostics.
// It provides endpoints for health checks, current snapshots and trend
// charts.
type WebServer struct {
	address string
	tracker *history.Tracker
	reports ReportProvider
	plotter *ZonePlotter
	server  *http.Server
}

// WebServerConfig contains configuration options for the web server.
type WebServerConfig struct {
	Address string
	Tracker *history.Tracker
	Reports ReportProvider
	Plotter *ZonePlotter // optional; enables /debug/trends
}

// NewWebServer creates a new web server with the provided configuration.
func NewWebServer(config WebServerConfig) *WebServer {
	ws := &WebServer{
		address: config.Address,
		tracker: config.Tracker,
		reports: config.Reports,
		plotter: config.Plotter,
	}

	ws.server = &http.Server{
		Addr:    ws.address,
		Handler: ws.setupRoutes(),
	}
	return ws
}

func (ws *WebServer) setupRoutes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", ws.handleHealth)
	mux.HandleFunc("/api/tires/snapshots", ws.handleSnapshots)
	mux.HandleFunc("/api/tires/report", ws.handleReport)
	mux.HandleFunc("/debug/trends", ws.handleTrendsChart)
	return mux
}

// Start begins serving and blocks until the context is cancelled or the
// listener fails, then shuts down gracefully.
func (ws *WebServer) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return ws.server.Shutdown(shutdownCtx)
	}
}

func (ws *WebServer) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (ws *WebServer) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	ws.writeJSON(w, map[string]string{"status": "ok"})
}

// handleSnapshots returns the latest history snapshot for every corner
// that has published one, keyed by corner.
func (ws *WebServer) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	snaps := ws.tracker.AllSnapshots()
	out := make(map[string]*history.Snapshot, len(snaps))
	for corner, snap := range snaps {
		out[string(corner)] = snap
	}
	ws.writeJSON(w, out)
}

// handleReport returns the latest zone report for one corner.
// Query params: corner (front_left/FL etc.), units (c/f/k, default c).
func (ws *WebServer) handleReport(w http.ResponseWriter, r *http.Request) {
	corner, ok := parseCornerParam(r.URL.Query().Get("corner"))
	if !ok {
		ws.writeJSONError(w, http.StatusBadRequest, "unknown or missing corner")
		return
	}

	unit := r.URL.Query().Get("units")
	if unit == "" {
		unit = units.Celsius
	}
	if !units.IsValid(unit) {
		ws.writeJSONError(w, http.StatusBadRequest, "units must be one of: "+units.GetValidUnitsString())
		return
	}

	report, ok := ws.reports.LatestReport(corner)
	if !ok {
		ws.writeJSONError(w, http.StatusNotFound, "no report for corner yet")
		return
	}
	ws.writeJSON(w, convertReport(report, unit))
}

// convertReport maps every temperature field of a report from Celsius to
// the requested unit. Counts and column indices are untouched.
func convertReport(r thermal.ZoneReport, unit string) thermal.ZoneReport {
	if unit == units.Celsius {
		return r
	}
	r.Inner = convertZone(r.Inner, unit)
	r.Centre = convertZone(r.Centre, unit)
	r.Outer = convertZone(r.Outer, unit)
	r.Detection.AvgTemp = units.ConvertTemperature(r.Detection.AvgTemp, unit)
	r.Detection.ThresholdTemp = units.ConvertTemperature(r.Detection.ThresholdTemp, unit)
	return r
}

func convertZone(z thermal.ZoneStats, unit string) thermal.ZoneStats {
	z.Avg = units.ConvertTemperature(z.Avg, unit)
	z.Min = units.ConvertTemperature(z.Min, unit)
	z.Max = units.ConvertTemperature(z.Max, unit)
	// Std is a spread, so Kelvin and Celsius share it and Fahrenheit
	// only scales it.
	if unit == units.Fahrenheit {
		z.Std = z.Std * 9.0 / 5.0
	}
	return z
}

func parseCornerParam(v string) (thermal.Corner, bool) {
	switch v {
	case "FL", "fl":
		return thermal.FrontLeft, true
	case "FR", "fr":
		return thermal.FrontRight, true
	case "RL", "rl":
		return thermal.RearLeft, true
	case "RR", "rr":
		return thermal.RearRight, true
	}
	c := thermal.Corner(v)
	return c, c.Valid()
}
