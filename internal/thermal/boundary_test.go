package thermal

import (
	"strings"
	"testing"
)

// helper to build a frame filled with a uniform temperature
func uniformFrame(rows, width int, temp float64) *ThermalFrame {
	f := NewThermalFrame(rows, width)
	for i := range f.Temps {
		f.Temps[i] = temp
	}
	return f
}

// helper to set a column range to a temperature across all rows
func setColumns(f *ThermalFrame, from, to int, temp float64) {
	for row := 0; row < f.Rows; row++ {
		for col := from; col < to; col++ {
			f.Set(row, col, temp)
		}
	}
}

// A uniform frame has no column above mean+offset and no gradient edge,
// so the detector must fall back to the centred fixed-width region.
func TestDetectFallbackOnUniformFrame(t *testing.T) {
	d := NewDetector(DefaultDetectionParams())
	f := uniformFrame(4, 32, 25.0)

	det := d.Detect(f)
	b := det.Boundary
	if b.Left != 8 || b.Right != 24 {
		t.Fatalf("expected fallback (8, 24), got (%d, %d)", b.Left, b.Right)
	}
	if b.Success {
		t.Fatal("fallback must report success=false")
	}
	if b.Method != MethodFallback {
		t.Fatalf("expected method %q, got %q", MethodFallback, b.Method)
	}
}

// 4x32 grid at 20C with columns 10-19 at 50C: mean=29.375, threshold=31.375,
// hot columns 10..19 give the raw boundary (10, 20), width 10 within gates.
func TestDetectHotBand(t *testing.T) {
	d := NewDetector(DefaultDetectionParams())
	f := uniformFrame(4, 32, 20.0)
	setColumns(f, 10, 20, 50.0)

	det := d.Detect(f)

	if got := det.GridMean; got != 29.375 {
		t.Fatalf("expected grid mean 29.375, got %v", got)
	}
	if got := det.ThresholdTemp; got != 31.375 {
		t.Fatalf("expected threshold 31.375, got %v", got)
	}

	b := det.Boundary
	if b.Left != 10 || b.Right != 20 {
		t.Fatalf("expected boundary (10, 20), got (%d, %d)", b.Left, b.Right)
	}
	if !b.Success {
		t.Fatal("expected success=true for an accepted detection")
	}
}

// With a sharp-edged band both methods produce the same span; the
// gradient candidate's 1.2x multiplier must win the tie on width.
func TestDetectPrefersGradientOnEqualWidth(t *testing.T) {
	d := NewDetector(DefaultDetectionParams())
	f := uniformFrame(4, 32, 20.0)
	setColumns(f, 10, 20, 50.0)

	det := d.Detect(f)
	if !strings.HasPrefix(det.Boundary.Method, MethodGradient) {
		t.Fatalf("expected gradient method to win, got %q", det.Boundary.Method)
	}
}

func TestThresholdCandidate(t *testing.T) {
	d := NewDetector(DefaultDetectionParams())
	f := uniformFrame(4, 32, 20.0)
	setColumns(f, 6, 27, 40.0)

	c, ok := d.thresholdCandidate(f, 30.0)
	if !ok {
		t.Fatal("expected a threshold candidate")
	}
	if c.Left != 6 || c.Right != 27 {
		t.Fatalf("expected (6, 27), got (%d, %d)", c.Left, c.Right)
	}
}

func TestThresholdCandidateNoneWhenCold(t *testing.T) {
	d := NewDetector(DefaultDetectionParams())
	f := uniformFrame(4, 32, 20.0)

	if _, ok := d.thresholdCandidate(f, 30.0); ok {
		t.Fatal("expected no candidate for a cold frame")
	}
}

func TestGradientCandidate(t *testing.T) {
	d := NewDetector(DefaultDetectionParams())
	f := uniformFrame(4, 32, 20.0)
	setColumns(f, 12, 22, 45.0)

	c, ok := d.gradientCandidate(f)
	if !ok {
		t.Fatal("expected a gradient candidate")
	}
	if c.Left != 12 || c.Right != 22 {
		t.Fatalf("expected (12, 22), got (%d, %d)", c.Left, c.Right)
	}
}

// Edges shallower than the gradient threshold produce no candidate even
// when a plateau exists.
func TestGradientCandidateNoneForShallowRamp(t *testing.T) {
	d := NewDetector(DefaultDetectionParams())
	f := NewThermalFrame(4, 32)
	for row := 0; row < 4; row++ {
		for col := 0; col < 32; col++ {
			f.Set(row, col, 20.0+float64(col)) // 1.0 C/column everywhere
		}
	}

	if _, ok := d.gradientCandidate(f); ok {
		t.Fatal("expected no gradient candidate for a 1.0 C/column ramp")
	}
}

// A band narrower than MIN_TIRE_WIDTH fails width gating in both methods
// and must degrade to the fallback region.
func TestDetectNarrowBandFallsBack(t *testing.T) {
	d := NewDetector(DefaultDetectionParams())
	f := uniformFrame(4, 32, 20.0)
	setColumns(f, 14, 17, 50.0) // width 3 < 6

	det := d.Detect(f)
	if det.Boundary.Success {
		t.Fatal("expected fallback for a too-narrow band")
	}
	if det.Boundary.Left != 8 || det.Boundary.Right != 24 {
		t.Fatalf("expected (8, 24), got (%d, %d)", det.Boundary.Left, det.Boundary.Right)
	}
}

// Stray single-row hot pixels at the edges are trimmed by refinement; the
// surviving region keeps the minimum width by re-expanding around its centre.
func TestRefinementTrimsAndReExpands(t *testing.T) {
	d := NewDetector(DefaultDetectionParams())
	f := uniformFrame(4, 32, 20.0)
	// Columns 10-19 hot in one row only, except 14-15 hot in all rows.
	for col := 10; col < 20; col++ {
		f.Set(0, col, 50.0)
	}
	for row := 0; row < 4; row++ {
		f.Set(row, 14, 50.0)
		f.Set(row, 15, 50.0)
	}

	det := d.Detect(f)
	b := det.Boundary
	if !b.Success {
		t.Fatalf("expected an accepted detection, got fallback")
	}
	// Trimming collapses to (14, 16); re-expansion around centre 15
	// restores exactly the minimum width.
	if b.Left != 12 || b.Right != 18 {
		t.Fatalf("expected re-expanded boundary (12, 18), got (%d, %d)", b.Left, b.Right)
	}
	if !strings.HasSuffix(b.Method, RefinedSuffix) {
		t.Fatalf("expected refined suffix on method, got %q", b.Method)
	}
}

// Accepted detections never come out of refinement narrower than the
// minimum tyre width.
func TestRefinementWidthInvariant(t *testing.T) {
	params := DefaultDetectionParams()
	d := NewDetector(params)

	shapes := []struct{ from, to int }{
		{2, 12}, {10, 20}, {20, 30}, {0, 28}, {13, 20},
	}
	for _, s := range shapes {
		f := uniformFrame(4, 32, 20.0)
		setColumns(f, s.from, s.to, 50.0)
		// one stray hot pixel beyond each edge
		if s.from > 0 {
			f.Set(0, s.from-1, 50.0)
		}
		if s.to < 32 {
			f.Set(3, s.to, 50.0)
		}

		det := d.Detect(f)
		b := det.Boundary
		if !b.Success {
			continue
		}
		if b.Width() < params.MinTireWidth {
			t.Errorf("band [%d,%d): refined width %d below minimum %d",
				s.from, s.to, b.Width(), params.MinTireWidth)
		}
		if b.Left < 0 || b.Right > 32 {
			t.Errorf("band [%d,%d): boundary (%d,%d) outside sensor", s.from, s.to, b.Left, b.Right)
		}
	}
}

// Refinement deliberately performs no upper clamp: re-expansion targets
// exactly MinTireWidth and trimming only shrinks, so an accepted boundary
// can keep any width up to its gated candidate width. This documents the
// behaviour rather than guessing a fix.
func TestRefinementHasNoUpperClamp(t *testing.T) {
	params := DefaultDetectionParams()
	d := NewDetector(params)
	f := uniformFrame(4, 32, 20.0)
	setColumns(f, 2, 30, 50.0) // width 28 == MaxTireWidth, all rows hot

	det := d.Detect(f)
	b := det.Boundary
	if !b.Success {
		t.Fatal("expected an accepted detection")
	}
	if b.Width() != 28 {
		t.Fatalf("expected untouched width 28 through refinement, got %d", b.Width())
	}
}

func TestDetectOutputBounds(t *testing.T) {
	d := NewDetector(DefaultDetectionParams())
	frames := []*ThermalFrame{
		uniformFrame(4, 32, 25.0),
		uniformFrame(4, 32, -10.0),
	}
	hot := uniformFrame(4, 32, 20.0)
	setColumns(hot, 0, 32, 90.0)
	frames = append(frames, hot)

	for i, f := range frames {
		det := d.Detect(f)
		b := det.Boundary
		if b.Left < 0 || b.Left >= b.Right || b.Right > 32 {
			t.Errorf("frame %d: boundary (%d, %d) violates 0 <= left < right <= width", i, b.Left, b.Right)
		}
	}
}
