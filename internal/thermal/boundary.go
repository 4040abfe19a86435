package thermal

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Detection method tags.
const (
	MethodThreshold = "threshold"
	MethodGradient  = "gradient"
	MethodFallback  = "fallback"

	// RefinedSuffix is appended to the method tag when edge refinement
	// changed the winning candidate.
	RefinedSuffix = "+refined"
)

// BoundaryEstimate is the detected lateral extent of the tyre within the
// tread band. Left is inclusive, Right exclusive; both lie within
// [0, SensorWidth]. Success is false when the detector fell back to a
// centred fixed-width region.
type BoundaryEstimate struct {
	Left    int
	Right   int
	Method  string
	Success bool
}

// Width returns the boundary width in columns.
func (b BoundaryEstimate) Width() int { return b.Right - b.Left }

// Detection bundles a boundary estimate with the grid statistics that
// produced it, needed downstream for DetectionInfo.
type Detection struct {
	Boundary      BoundaryEstimate
	GridMean      float64
	ThresholdTemp float64
}

// Detector estimates tyre boundaries from filtered tread-band frames.
type Detector struct {
	params DetectionParams
}

// NewDetector creates a detector with the given tuning.
func NewDetector(params DetectionParams) *Detector {
	return &Detector{params: params}
}

// Detect returns a boundary estimate for the frame. It never fails: when
// neither detection method produces a candidate of plausible width, a
// centred fallback region is returned with Success=false so zonal analysis
// always has something to operate on.
func (d *Detector) Detect(f *ThermalFrame) Detection {
	mean := stat.Mean(f.Temps, nil)
	threshold := mean + d.params.ThresholdOffset

	var candidates []BoundaryEstimate
	if c, ok := d.thresholdCandidate(f, threshold); ok {
		candidates = append(candidates, c)
	}
	if c, ok := d.gradientCandidate(f); ok {
		candidates = append(candidates, c)
	}

	best, ok := d.selectCandidate(candidates)
	if !ok {
		left := (f.Width - d.params.FallbackWidth) / 2
		return Detection{
			Boundary: BoundaryEstimate{
				Left:    left,
				Right:   left + d.params.FallbackWidth,
				Method:  MethodFallback,
				Success: false,
			},
			GridMean:      mean,
			ThresholdTemp: threshold,
		}
	}

	refined := d.refineEdges(f, best, threshold)
	if refined.Left != best.Left || refined.Right != best.Right {
		refined.Method += RefinedSuffix
	}
	return Detection{Boundary: refined, GridMean: mean, ThresholdTemp: threshold}
}

// thresholdCandidate marks columns with any pixel above the threshold as
// hot and spans from the first to the last hot column. No hot column means
// no candidate.
func (d *Detector) thresholdCandidate(f *ThermalFrame, threshold float64) (BoundaryEstimate, bool) {
	first, last := -1, -1
	for col := 0; col < f.Width; col++ {
		if d.hotRowCount(f, col, threshold) == 0 {
			continue
		}
		if first < 0 {
			first = col
		}
		last = col
	}
	if first < 0 {
		return BoundaryEstimate{}, false
	}
	return BoundaryEstimate{Left: first, Right: last + 1, Method: MethodThreshold, Success: true}, true
}

// gradientCandidate finds, per row, the largest rising edge and the
// largest falling edge after it, both exceeding the gradient threshold,
// then averages entry/exit indices over the rows that produced a valid
// pair. Gradient edges are sharp at the rubber/background transition and
// are less prone to being fooled by ambient heat plumes.
func (d *Detector) gradientCandidate(f *ThermalFrame) (BoundaryEstimate, bool) {
	var entrySum, exitSum float64
	validRows := 0

	for row := 0; row < f.Rows; row++ {
		entryIdx, entryMag := -1, d.params.GradientThreshold
		for col := 0; col < f.Width-1; col++ {
			diff := f.At(row, col+1) - f.At(row, col)
			if diff > entryMag {
				entryMag = diff
				entryIdx = col + 1
			}
		}
		if entryIdx < 0 {
			continue
		}

		exitIdx, exitMag := -1, d.params.GradientThreshold
		for col := entryIdx; col < f.Width-1; col++ {
			diff := f.At(row, col) - f.At(row, col+1)
			if diff > exitMag {
				exitMag = diff
				exitIdx = col + 1
			}
		}
		if exitIdx < 0 {
			continue
		}

		entrySum += float64(entryIdx)
		exitSum += float64(exitIdx)
		validRows++
	}

	if validRows == 0 {
		return BoundaryEstimate{}, false
	}
	left := int(math.Round(entrySum / float64(validRows)))
	right := int(math.Round(exitSum / float64(validRows)))
	if left >= right {
		return BoundaryEstimate{}, false
	}
	return BoundaryEstimate{Left: left, Right: right, Method: MethodGradient, Success: true}, true
}

// selectCandidate gates candidates on plausible width and scores the
// survivors. Gradient candidates carry a 1.2x multiplier; every candidate
// is penalised in proportion to how far its width sits from the midpoint
// of the allowed range. Ties favour the first evaluated candidate.
func (d *Detector) selectCandidate(candidates []BoundaryEstimate) (BoundaryEstimate, bool) {
	mid := float64(d.params.MinTireWidth+d.params.MaxTireWidth) / 2.0

	var best BoundaryEstimate
	bestScore := math.Inf(-1)
	found := false
	for _, c := range candidates {
		w := c.Width()
		if w < d.params.MinTireWidth || w > d.params.MaxTireWidth {
			continue
		}

		score := 1.0
		if c.Method == MethodGradient {
			score = 1.2
		}
		score *= 1.0 - math.Abs(float64(w)-mid)/mid

		if score > bestScore {
			bestScore = score
			best = c
			found = true
		}
	}
	return best, found
}

// refineEdges trims candidate columns whose hot-row count is below half
// the tread-band height, so a single stray hot pixel at the edge cannot
// drag the boundary outward. If trimming collapses the region below the
// minimum width it is re-expanded around its centre to exactly
// MinTireWidth, clamped to sensor bounds. The width is deliberately not
// re-clamped to MaxTireWidth here: refinement only ever shrinks or
// restores to the minimum.
func (d *Detector) refineEdges(f *ThermalFrame, b BoundaryEstimate, threshold float64) BoundaryEstimate {
	need := f.Rows / 2
	left, right := b.Left, b.Right

	for left < right && d.hotRowCount(f, left, threshold) < need {
		left++
	}
	for right > left && d.hotRowCount(f, right-1, threshold) < need {
		right--
	}

	if right-left < d.params.MinTireWidth {
		centre := (left + right) / 2
		left = centre - d.params.MinTireWidth/2
		right = left + d.params.MinTireWidth
		if left < 0 {
			left = 0
			right = d.params.MinTireWidth
		}
		if right > f.Width {
			right = f.Width
			left = right - d.params.MinTireWidth
		}
	}

	b.Left = left
	b.Right = right
	return b
}

// hotRowCount counts rows whose pixel in the given column exceeds the
// threshold.
func (d *Detector) hotRowCount(f *ThermalFrame, col int, threshold float64) int {
	n := 0
	for row := 0; row < f.Rows; row++ {
		if f.At(row, col) > threshold {
			n++
		}
	}
	return n
}
