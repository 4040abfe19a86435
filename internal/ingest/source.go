// Package ingest drives the sensor-side of the telemetry core: it polls a
// frame source on a fixed cadence, runs the detection pipeline per corner
// and feeds the history tracker consumed by the render path.
package ingest

import (
	"time"

	"github.com/SamSkjord/open-TPT-sub002/internal/thermal"
)

// FrameSource supplies one tread-band frame per corner per poll cycle.
// Sources wrap the actual sensor driver (serial MCU, replay log,
// synthetic generator); retry and backoff on read failure belong to the
// driver, not here.
type FrameSource interface {
	// ReadFrame returns the next frame for the corner. ok=false means no
	// frame is available this cycle; the ingestion loop skips the corner
	// without treating it as an error.
	ReadFrame(corner thermal.Corner) (frame *thermal.ThermalFrame, ok bool)
}

// FrameSink receives raw frames as they are ingested, before any
// filtering. Used by the session recorder.
type FrameSink interface {
	Record(corner thermal.Corner, frame *thermal.ThermalFrame, ts time.Time) error
}
