package thermal

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func smoothed(left, right int) SmoothedBoundary {
	return SmoothedBoundary{Left: left, Right: right, Method: MethodThreshold, Success: true}
}

// Width 12 splits into three equal four-column zones.
func TestAnalyzeZonesEqualSplit(t *testing.T) {
	f := uniformFrame(4, 32, 20.0)
	setColumns(f, 10, 14, 60.0) // inner
	setColumns(f, 14, 18, 70.0) // centre
	setColumns(f, 18, 22, 80.0) // outer

	report := AnalyzeZones(f, smoothed(10, 22), Detection{GridMean: 30.0, ThresholdTemp: 32.0}, false)

	want := ZoneReport{
		Inner:  ZoneStats{Avg: 60.0, Min: 60.0, Max: 60.0, Std: 0, Count: 16},
		Centre: ZoneStats{Avg: 70.0, Min: 70.0, Max: 70.0, Std: 0, Count: 16},
		Outer:  ZoneStats{Avg: 80.0, Min: 80.0, Max: 80.0, Std: 0, Count: 16},
		Detection: DetectionInfo{
			TireStart:     10,
			TireEnd:       22,
			TireWidth:     12,
			Method:        MethodThreshold,
			AvgTemp:       30.0,
			ThresholdTemp: 32.0,
		},
	}
	if diff := cmp.Diff(want, report, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
}

// One remainder pixel goes to the centre zone, two go to centre then
// outer; the inner zone never gains remainder pixels.
func TestAnalyzeZonesRemainderAssignment(t *testing.T) {
	f := uniformFrame(4, 32, 20.0)

	// width 13 = 4+5+4
	r := AnalyzeZones(f, smoothed(10, 23), Detection{}, false)
	if r.Inner.Count != 16 || r.Centre.Count != 20 || r.Outer.Count != 16 {
		t.Fatalf("width 13: got counts (%d, %d, %d), want (16, 20, 16)",
			r.Inner.Count, r.Centre.Count, r.Outer.Count)
	}

	// width 14 = 4+5+5
	r = AnalyzeZones(f, smoothed(10, 24), Detection{}, false)
	if r.Inner.Count != 16 || r.Centre.Count != 20 || r.Outer.Count != 20 {
		t.Fatalf("width 14: got counts (%d, %d, %d), want (16, 20, 20)",
			r.Inner.Count, r.Centre.Count, r.Outer.Count)
	}
}

func TestAnalyzeZonesPopulationStd(t *testing.T) {
	// Two rows, one zone-wide column pair: values 10, 10, 20, 20 have
	// population std 5.
	f := NewThermalFrame(2, 4)
	f.Set(0, 0, 10.0)
	f.Set(0, 1, 10.0)
	f.Set(1, 0, 20.0)
	f.Set(1, 1, 20.0)

	r := AnalyzeZones(f, SmoothedBoundary{Left: 0, Right: 2}, Detection{}, false)
	// width 2: inner empty, centre 1 col, outer 1 col
	if math.Abs(r.Centre.Std-5.0) > 1e-9 {
		t.Fatalf("expected population std 5.0, got %v", r.Centre.Std)
	}
	if math.Abs(r.Centre.Avg-15.0) > 1e-9 {
		t.Fatalf("expected avg 15.0, got %v", r.Centre.Avg)
	}
}

// Degenerate widths produce zero stats, not errors.
func TestAnalyzeZonesDegenerateWidth(t *testing.T) {
	f := uniformFrame(4, 32, 33.0)

	for _, width := range []int{0, 1, 2} {
		r := AnalyzeZones(f, SmoothedBoundary{Left: 16, Right: 16 + width}, Detection{}, false)
		if width < 3 && r.Inner != (ZoneStats{}) {
			t.Fatalf("width %d: expected zero inner stats, got %+v", width, r.Inner)
		}
	}
}

func TestAnalyzeZonesCarriesDetectionInfo(t *testing.T) {
	f := uniformFrame(4, 32, 25.0)
	sb := SmoothedBoundary{Left: 8, Right: 24, Method: MethodFallback, Success: false}

	r := AnalyzeZones(f, sb, Detection{GridMean: 25.0, ThresholdTemp: 27.0}, true)
	d := r.Detection
	if d.TireStart != 8 || d.TireEnd != 24 || d.TireWidth != 16 {
		t.Fatalf("unexpected detection geometry: %+v", d)
	}
	if !d.RotorDetected {
		t.Fatal("expected rotorDetected carried through")
	}
	if d.Method != MethodFallback {
		t.Fatalf("expected method %q, got %q", MethodFallback, d.Method)
	}
	if d.AvgTemp != 25.0 || d.ThresholdTemp != 27.0 {
		t.Fatalf("expected grid stats carried through, got %+v", d)
	}
}
