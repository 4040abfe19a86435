package thermal

// Corner identifies one of the four fixed tyre positions.
type Corner string

// The four tyre corners. Per-corner state is keyed on these for the
// process lifetime.
const (
	FrontLeft  Corner = "front_left"
	FrontRight Corner = "front_right"
	RearLeft   Corner = "rear_left"
	RearRight  Corner = "rear_right"
)

// Corners returns all four corners in a stable order.
func Corners() []Corner {
	return []Corner{FrontLeft, FrontRight, RearLeft, RearRight}
}

// Short returns the conventional two-letter corner abbreviation.
func (c Corner) Short() string {
	switch c {
	case FrontLeft:
		return "FL"
	case FrontRight:
		return "FR"
	case RearLeft:
		return "RL"
	case RearRight:
		return "RR"
	}
	return "??"
}

// Valid reports whether c is one of the four corners.
func (c Corner) Valid() bool {
	switch c {
	case FrontLeft, FrontRight, RearLeft, RearRight:
		return true
	}
	return false
}

// CornerPipeline owns the per-corner detection state (the temporal
// smoother) and runs one full pipeline pass per frame. Constructing
// pipelines explicitly and passing them through the ingestion loop keeps
// all mutable state out of package scope.
type CornerPipeline struct {
	corner   Corner
	params   DetectionParams
	detector *Detector
	smoother *BoundarySmoother
}

// NewCornerPipeline creates the pipeline for one corner.
func NewCornerPipeline(corner Corner, params DetectionParams) *CornerPipeline {
	return &CornerPipeline{
		corner:   corner,
		params:   params,
		detector: NewDetector(params),
		smoother: NewBoundarySmoother(params.SmoothingDepth),
	}
}

// Corner returns the corner this pipeline serves.
func (p *CornerPipeline) Corner() Corner { return p.corner }

// Process runs filter, detect, smooth and zonal analysis over one
// tread-band frame and returns the resulting report. It never fails: a
// frame with no detectable tyre degrades to the centred fallback region.
func (p *CornerPipeline) Process(frame *ThermalFrame) ZoneReport {
	filtered, rotor := FilterHotPixels(frame, p.params.HotPixelCeiling)
	det := p.detector.Detect(filtered)
	smoothed := p.smoother.Smooth(det.Boundary)
	return AnalyzeZones(filtered, smoothed, det, rotor)
}
