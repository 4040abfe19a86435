package thermal

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ZoneStats holds aggregate temperature statistics for one lateral zone
// of the contact patch. Std is the population standard deviation. An
// empty zone reports all-zero stats rather than an error.
type ZoneStats struct {
	Avg   float64 `json:"avg"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Std   float64 `json:"std"`
	Count int     `json:"count"`
}

// DetectionInfo describes how the boundary behind a zone report was
// obtained.
type DetectionInfo struct {
	TireStart     int     `json:"tire_start"`
	TireEnd       int     `json:"tire_end"`
	TireWidth     int     `json:"tire_width"`
	Method        string  `json:"method"`
	RotorDetected bool    `json:"rotor_detected"`
	AvgTemp       float64 `json:"avg_temp"`
	ThresholdTemp float64 `json:"threshold_temp"`
}

// ZoneReport bundles per-zone statistics with detection diagnostics for
// one corner and one frame. It is rebuilt fresh every frame.
type ZoneReport struct {
	Inner     ZoneStats     `json:"inner"`
	Centre    ZoneStats     `json:"centre"`
	Outer     ZoneStats     `json:"outer"`
	Detection DetectionInfo `json:"detection"`
}

// AnalyzeZones splits the smoothed boundary into three lateral zones and
// aggregates every tread-band pixel in each zone's column range. The
// width is divided equally; a single remainder pixel goes to the centre
// zone, two remainder pixels go to centre then outer, so the leftmost
// zone never gains remainder pixels and the split is deterministic.
func AnalyzeZones(f *ThermalFrame, sb SmoothedBoundary, det Detection, rotorDetected bool) ZoneReport {
	width := sb.Right - sb.Left
	base := 0
	rem := 0
	if width > 0 {
		base = width / 3
		rem = width % 3
	}

	innerWidth := base
	centreWidth := base
	outerWidth := base
	if rem >= 1 {
		centreWidth++
	}
	if rem == 2 {
		outerWidth++
	}

	innerEnd := sb.Left + innerWidth
	centreEnd := innerEnd + centreWidth

	return ZoneReport{
		Inner:  zoneStats(f, sb.Left, innerEnd),
		Centre: zoneStats(f, innerEnd, centreEnd),
		Outer:  zoneStats(f, centreEnd, centreEnd+outerWidth),
		Detection: DetectionInfo{
			TireStart:     sb.Left,
			TireEnd:       sb.Right,
			TireWidth:     width,
			Method:        sb.Method,
			RotorDetected: rotorDetected,
			AvgTemp:       det.GridMean,
			ThresholdTemp: det.ThresholdTemp,
		},
	}
}

// zoneStats aggregates pixels across all tread-band rows in [start, end).
func zoneStats(f *ThermalFrame, start, end int) ZoneStats {
	if start < 0 {
		start = 0
	}
	if end > f.Width {
		end = f.Width
	}
	if start >= end || f.Rows == 0 {
		return ZoneStats{}
	}

	vals := make([]float64, 0, (end-start)*f.Rows)
	for row := 0; row < f.Rows; row++ {
		for col := start; col < end; col++ {
			vals = append(vals, f.At(row, col))
		}
	}

	return ZoneStats{
		Avg:   stat.Mean(vals, nil),
		Min:   floats.Min(vals),
		Max:   floats.Max(vals),
		Std:   stat.PopStdDev(vals, nil),
		Count: len(vals),
	}
}
