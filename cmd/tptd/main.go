// Command tptd runs the tyre telemetry core: it polls a thermal frame
// source for all four corners, runs contact-patch detection and zonal
// analysis, and serves snapshots and diagnostics over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SamSkjord/open-TPT-sub002/internal/config"
	"github.com/SamSkjord/open-TPT-sub002/internal/history"
	"github.com/SamSkjord/open-TPT-sub002/internal/ingest"
	"github.com/SamSkjord/open-TPT-sub002/internal/monitor"
	"github.com/SamSkjord/open-TPT-sub002/internal/record"
	"github.com/SamSkjord/open-TPT-sub002/internal/version"
)

var (
	devMode     = flag.Bool("dev", false, "Run with the synthetic frame source")
	serialPort  = flag.String("serial", "", "Serial port of the sensor MCU (e.g. /dev/ttyUSB0)")
	baudRate    = flag.Int("baud", 921600, "Serial baud rate")
	replayPath  = flag.String("replay", "", "Replay a recorded session log instead of live input")
	sessionID   = flag.String("session", "", "Session ID to replay (default: most recent)")
	recordPath  = flag.String("record", "", "Record raw frames to a session log")
	listen      = flag.String("listen", ":8080", "Monitor listen address")
	configPath  = flag.String("config", "", "Tuning config JSON (built-in defaults when empty)")
	plotDir     = flag.String("plots", "", "Write zone trend plots to this directory on shutdown")
	showVersion = flag.Bool("version", false, "Print version information and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("tptd %s (commit %s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	cfg := config.EmptyTuningConfig()
	if *configPath != "" {
		loaded, err := config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		cfg = loaded
	}
	params := cfg.DetectionParams()

	var source ingest.FrameSource
	switch {
	case *devMode:
		syn := ingest.NewSyntheticSource(params, time.Now().UnixNano())
		syn.RotorEvery = 200
		source = syn
		log.Print("using synthetic frame source (dev mode)")
	case *replayPath != "":
		replay, err := record.OpenReplaySource(*replayPath, *sessionID)
		if err != nil {
			log.Fatalf("failed to open replay: %v", err)
		}
		source = replay
		log.Printf("replaying session log %s", *replayPath)
	case *serialPort != "":
		serial, err := ingest.OpenSerialSource(*serialPort, *baudRate, params)
		if err != nil {
			log.Fatalf("failed to open serial source: %v", err)
		}
		defer serial.Close()
		source = serial
		log.Printf("reading frames from %s @ %d baud", *serialPort, *baudRate)
	default:
		log.Fatal("one of -dev, -serial or -replay is required")
	}

	var sink ingest.FrameSink
	if *recordPath != "" {
		recorder, err := record.OpenRecorder(*recordPath)
		if err != nil {
			log.Fatalf("failed to open recorder: %v", err)
		}
		defer recorder.Close()
		sink = recorder
		log.Printf("recording session %s to %s", recorder.SessionID(), *recordPath)
	}

	plotter := monitor.NewZonePlotter()
	var onSnapshot func(*history.Snapshot)
	if *plotDir != "" {
		if err := plotter.Start(*plotDir); err != nil {
			log.Fatalf("failed to start zone plotter: %v", err)
		}
		onSnapshot = plotter.Sample
	}

	runtime := ingest.NewRuntime(ingest.RuntimeConfig{
		Interval:   cfg.GetPollInterval(),
		Source:     source,
		Sink:       sink,
		Params:     params,
		OnSnapshot: onSnapshot,
	})

	webserver := monitor.NewWebServer(monitor.WebServerConfig{
		Address: *listen,
		Tracker: runtime.Tracker(),
		Reports: runtime,
		Plotter: plotter,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("received %v, shutting down", sig)
		cancel()
	}()

	go runtime.Run(ctx)

	log.Printf("monitor listening on %s", *listen)
	if err := webserver.Start(ctx); err != nil {
		log.Printf("monitor server error: %v", err)
	}

	if *plotDir != "" {
		plotter.Stop()
		count, err := plotter.GeneratePlots()
		if err != nil {
			log.Printf("failed to generate plots: %v", err)
		} else {
			log.Printf("wrote %d zone plots to %s", count, *plotDir)
		}
	}
}
