package ingest

import (
	"math/rand"

	"github.com/SamSkjord/open-TPT-sub002/internal/thermal"
)

// SyntheticSource generates synthetic tyre frames for dev mode and demos:
// an ambient background with a hot band of configurable width, plus
// sensor noise and an optional periodic rotor spike. Deterministic for a
// fixed seed.
type SyntheticSource struct {
	params thermal.DetectionParams
	rng    *rand.Rand

	// Configuration
	AmbientC    float64 // background temperature
	TireTempC   float64 // hot-band temperature
	NoiseC      float64 // uniform noise amplitude, +/- NoiseC/2
	TireWidth   int     // hot-band width in columns
	RotorSpikeC float64 // injected rotor pixel temperature
	RotorEvery  int     // inject a rotor spike every N frames per corner; 0 disables

	frameCount map[thermal.Corner]int
}

// NewSyntheticSource creates a generator for the given tuning and seed.
func NewSyntheticSource(params thermal.DetectionParams, seed int64) *SyntheticSource {
	return &SyntheticSource{
		params:      params,
		rng:         rand.New(rand.NewSource(seed)),
		AmbientC:    22.0,
		TireTempC:   68.0,
		NoiseC:      0.8,
		TireWidth:   12,
		RotorSpikeC: 310.0,
		RotorEvery:  0,
		frameCount:  make(map[thermal.Corner]int, 4),
	}
}

// ReadFrame generates the next frame for the corner. It always succeeds.
func (s *SyntheticSource) ReadFrame(corner thermal.Corner) (*thermal.ThermalFrame, bool) {
	s.frameCount[corner]++
	n := s.frameCount[corner]

	f := thermal.NewThermalFrame(s.params.TreadRows, s.params.SensorWidth)
	left := (s.params.SensorWidth - s.TireWidth) / 2
	right := left + s.TireWidth

	for row := 0; row < f.Rows; row++ {
		for col := 0; col < f.Width; col++ {
			base := s.AmbientC
			if col >= left && col < right {
				base = s.TireTempC
			}
			f.Set(row, col, base+(s.rng.Float64()-0.5)*s.NoiseC)
		}
	}

	if s.RotorEvery > 0 && n%s.RotorEvery == 0 {
		f.Set(s.rng.Intn(f.Rows), s.rng.Intn(f.Width), s.RotorSpikeC)
	}
	return f, true
}
