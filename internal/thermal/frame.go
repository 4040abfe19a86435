// Package thermal implements the tyre contact-patch detection pipeline:
// hot-pixel filtering, boundary detection, temporal smoothing and zonal
// temperature analysis over low-resolution infrared sensor frames.
package thermal

// ThermalFrame is a fixed-size grid of temperature readings in Celsius,
// row-major. It is produced once per sensor poll and owned by the caller
// for the duration of one pipeline pass.
type ThermalFrame struct {
	Rows  int
	Width int
	Temps []float64 // len == Rows*Width
}

// NewThermalFrame allocates a zeroed frame of the given dimensions.
func NewThermalFrame(rows, width int) *ThermalFrame {
	return &ThermalFrame{
		Rows:  rows,
		Width: width,
		Temps: make([]float64, rows*width),
	}
}

// At returns the temperature at (row, col).
func (f *ThermalFrame) At(row, col int) float64 {
	return f.Temps[row*f.Width+col]
}

// Set writes the temperature at (row, col).
func (f *ThermalFrame) Set(row, col int, v float64) {
	f.Temps[row*f.Width+col] = v
}

// Clone returns a deep copy of the frame.
func (f *ThermalFrame) Clone() *ThermalFrame {
	temps := make([]float64, len(f.Temps))
	copy(temps, f.Temps)
	return &ThermalFrame{Rows: f.Rows, Width: f.Width, Temps: temps}
}

// ExtractTreadBand slices the tread-band rows out of a full sensor frame.
// bandStart is the first row of the band; rows is the band height. The
// returned frame shares no storage with the input. Out-of-range requests
// are clamped to the available rows.
func ExtractTreadBand(full *ThermalFrame, bandStart, rows int) *ThermalFrame {
	if bandStart < 0 {
		bandStart = 0
	}
	if bandStart+rows > full.Rows {
		rows = full.Rows - bandStart
	}
	if rows < 0 {
		rows = 0
	}

	band := NewThermalFrame(rows, full.Width)
	copy(band.Temps, full.Temps[bandStart*full.Width:(bandStart+rows)*full.Width])
	return band
}
