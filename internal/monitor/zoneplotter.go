package monitor

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/SamSkjord/open-TPT-sub002/internal/history"
	"github.com/SamSkjord/open-TPT-sub002/internal/thermal"
)

// ZonePlotter records zone trend state over a run for visualisation.
// Sample() captures each published snapshot, accumulating time series
// that can be written out as PNG plots after the run for offline tuning
// of detector parameters.
type ZonePlotter struct {
	mu        sync.Mutex
	enabled   bool
	outputDir string

	// samples holds per-corner time series.
	samples map[thermal.Corner][]ZoneSample

	startTime time.Time
	frameIdx  int
}

// ZoneSample is one snapshot of a corner's trend state.
type ZoneSample struct {
	FrameIdx  int
	Timestamp time.Time
	Inner     history.Bands
	Centre    history.Bands
	Outer     history.Bands
}

// NewZonePlotter creates a disabled plotter. Call Start to begin sampling.
func NewZonePlotter() *ZonePlotter {
	return &ZonePlotter{
		samples: make(map[thermal.Corner][]ZoneSample),
	}
}

// Start initialises the plotter for a new run.
// outputDir should be a timestamped directory (e.g. "plots/20260830_141502").
func (zp *ZonePlotter) Start(outputDir string) error {
	zp.mu.Lock()
	defer zp.mu.Unlock()

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	zp.outputDir = outputDir
	zp.enabled = true
	zp.startTime = time.Time{}
	zp.frameIdx = 0
	zp.samples = make(map[thermal.Corner][]ZoneSample)
	return nil
}

// Stop disables sampling. Call GeneratePlots() to produce output files.
func (zp *ZonePlotter) Stop() {
	zp.mu.Lock()
	defer zp.mu.Unlock()
	zp.enabled = false
}

// IsEnabled returns true if the plotter is currently recording.
func (zp *ZonePlotter) IsEnabled() bool {
	zp.mu.Lock()
	defer zp.mu.Unlock()
	return zp.enabled
}

// Sample captures one published snapshot. Call once per accepted update.
func (zp *ZonePlotter) Sample(snap *history.Snapshot) {
	zp.mu.Lock()
	defer zp.mu.Unlock()

	if !zp.enabled || snap == nil {
		return
	}

	if zp.startTime.IsZero() {
		zp.startTime = snap.UpdatedAt
	}
	zp.frameIdx++

	zp.samples[snap.Corner] = append(zp.samples[snap.Corner], ZoneSample{
		FrameIdx:  zp.frameIdx,
		Timestamp: snap.UpdatedAt,
		Inner:     snap.Inner,
		Centre:    snap.Centre,
		Outer:     snap.Outer,
	})
}

// Samples returns a copy of the recorded series for a corner.
func (zp *ZonePlotter) Samples(corner thermal.Corner) []ZoneSample {
	zp.mu.Lock()
	defer zp.mu.Unlock()

	src := zp.samples[corner]
	out := make([]ZoneSample, len(src))
	copy(out, src)
	return out
}

// GeneratePlots creates one PNG per corner showing per-zone temperature
// trends over the run. Returns the number of plots generated.
func (zp *ZonePlotter) GeneratePlots() (int, error) {
	zp.mu.Lock()
	defer zp.mu.Unlock()

	if zp.outputDir == "" {
		return 0, fmt.Errorf("no output directory configured")
	}
	if len(zp.samples) == 0 {
		return 0, nil
	}

	plotCount := 0
	for corner, samples := range zp.samples {
		if len(samples) == 0 {
			continue
		}
		if err := zp.generateCornerPlot(corner, samples); err != nil {
			return plotCount, fmt.Errorf("corner %s: %w", corner.Short(), err)
		}
		plotCount++
	}
	return plotCount, nil
}

// generateCornerPlot draws current and slow-EMA lines for all three zones.
func (zp *ZonePlotter) generateCornerPlot(corner thermal.Corner, samples []ZoneSample) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s - Zone Temperatures", corner.Short())
	p.X.Label.Text = "Update"
	p.Y.Label.Text = "Temperature (C)"

	zones := []struct {
		name  string
		col   color.RGBA
		bands func(ZoneSample) history.Bands
	}{
		{"inner", color.RGBA{R: 220, G: 60, B: 60, A: 255}, func(s ZoneSample) history.Bands { return s.Inner }},
		{"centre", color.RGBA{R: 60, G: 160, B: 60, A: 255}, func(s ZoneSample) history.Bands { return s.Centre }},
		{"outer", color.RGBA{R: 60, G: 90, B: 220, A: 255}, func(s ZoneSample) history.Bands { return s.Outer }},
	}

	for _, z := range zones {
		curPts := make(plotter.XYs, 0, len(samples))
		emaPts := make(plotter.XYs, 0, len(samples))
		for _, s := range samples {
			b := z.bands(s)
			if !b.Initialised {
				continue
			}
			curPts = append(curPts, plotter.XY{X: float64(s.FrameIdx), Y: b.Current})
			emaPts = append(emaPts, plotter.XY{X: float64(s.FrameIdx), Y: b.EMA30s})
		}
		if len(curPts) == 0 {
			continue
		}

		curLine, err := plotter.NewLine(curPts)
		if err != nil {
			return err
		}
		curLine.Color = z.col
		curLine.Width = vg.Points(1)
		p.Add(curLine)
		p.Legend.Add(z.name, curLine)

		emaLine, err := plotter.NewLine(emaPts)
		if err != nil {
			return err
		}
		emaLine.Color = z.col
		emaLine.Width = vg.Points(1)
		emaLine.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(emaLine)
		p.Legend.Add(z.name+" ema30s", emaLine)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	outFile := filepath.Join(zp.outputDir, fmt.Sprintf("zones_%s.png", corner.Short()))
	if err := p.Save(14*vg.Inch, 6*vg.Inch, outFile); err != nil {
		return fmt.Errorf("save zone plot: %w", err)
	}
	return nil
}
