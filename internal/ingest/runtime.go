package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/SamSkjord/open-TPT-sub002/internal/history"
	"github.com/SamSkjord/open-TPT-sub002/internal/monitoring"
	"github.com/SamSkjord/open-TPT-sub002/internal/thermal"
	"github.com/SamSkjord/open-TPT-sub002/internal/timeutil"
)

// RuntimeConfig bundles the dependencies of the ingestion runtime.
// Passing them explicitly keeps wiring visible and testing deterministic.
type RuntimeConfig struct {
	Clock    timeutil.Clock  // defaults to RealClock
	Interval time.Duration   // poll cadence; defaults to 100ms (10 Hz)
	Source   FrameSource     // required
	Sink     FrameSink       // optional raw-frame recorder
	Tracker  *history.Tracker // defaults to a fresh tracker
	Params   thermal.DetectionParams

	// OnSnapshot, when set, is called with each newly published snapshot
	// (e.g. to feed the zone plotter). Called from the ingestion loop, so
	// it must be cheap.
	OnSnapshot func(*history.Snapshot)
}

// Runtime owns the four corner pipelines and the shared history tracker.
// Run drives the ingestion loop; the render path reads through Tracker()
// and LatestReport() only, so the two loops share no mutable state beyond
// the snapshot slots.
type Runtime struct {
	clock    timeutil.Clock
	interval time.Duration
	source   FrameSource
	sink     FrameSink
	tracker  *history.Tracker
	onSnap   func(*history.Snapshot)

	pipelines map[thermal.Corner]*thermal.CornerPipeline

	mu      sync.RWMutex
	reports map[thermal.Corner]thermal.ZoneReport
}

// NewRuntime constructs the runtime and its per-corner pipelines.
func NewRuntime(cfg RuntimeConfig) *Runtime {
	if cfg.Clock == nil {
		cfg.Clock = timeutil.RealClock{}
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 100 * time.Millisecond
	}
	if cfg.Tracker == nil {
		cfg.Tracker = history.NewTracker()
	}

	pipelines := make(map[thermal.Corner]*thermal.CornerPipeline, 4)
	for _, c := range thermal.Corners() {
		pipelines[c] = thermal.NewCornerPipeline(c, cfg.Params)
	}

	return &Runtime{
		clock:     cfg.Clock,
		interval:  cfg.Interval,
		source:    cfg.Source,
		sink:      cfg.Sink,
		tracker:   cfg.Tracker,
		onSnap:    cfg.OnSnapshot,
		pipelines: pipelines,
		reports:   make(map[thermal.Corner]thermal.ZoneReport, 4),
	}
}

// Tracker returns the shared history tracker read by the render path.
func (r *Runtime) Tracker() *history.Tracker { return r.tracker }

// LatestReport returns the most recent zone report for a corner, used by
// the renderer's live boundary overlay. ok is false until the corner's
// first processed frame.
func (r *Runtime) LatestReport(corner thermal.Corner) (thermal.ZoneReport, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.reports[corner]
	return report, ok
}

// Run polls the frame source on the configured cadence until the context
// is cancelled.
func (r *Runtime) Run(ctx context.Context) {
	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ts := <-ticker.C():
			r.PollOnce(ts)
		}
	}
}

// PollOnce runs one ingestion cycle: for each corner, read a frame, run
// the pipeline and fold the zone averages into the history tracker. A
// corner with no frame this cycle is skipped; its last published snapshot
// simply remains current.
func (r *Runtime) PollOnce(ts time.Time) {
	for _, corner := range thermal.Corners() {
		frame, ok := r.source.ReadFrame(corner)
		if !ok {
			continue
		}

		if r.sink != nil {
			if err := r.sink.Record(corner, frame, ts); err != nil {
				monitoring.Logf("ingest: record %s: %v", corner.Short(), err)
			}
		}

		report := r.pipelines[corner].Process(frame)

		r.mu.Lock()
		r.reports[corner] = report
		r.mu.Unlock()

		accepted := r.tracker.Update(corner, report.Inner.Avg, report.Centre.Avg, report.Outer.Avg, ts)
		if accepted > 0 && r.onSnap != nil {
			r.onSnap(r.tracker.Snapshot(corner))
		}
	}
}
