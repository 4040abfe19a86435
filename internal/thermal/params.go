package thermal

// DetectionParams configures the contact-patch detection pipeline for one
// tyre corner. Values are established at startup; the pipeline never
// mutates them.
type DetectionParams struct {
	// TreadRows is the height of the tread band in sensor rows.
	TreadRows int

	// SensorWidth is the number of columns in the sensor grid.
	SensorWidth int

	// HotPixelCeiling is the implausibly-high temperature (Celsius) above
	// which a pixel is treated as rotor bleed-through rather than rubber.
	HotPixelCeiling float64

	// ThresholdOffset is added to the grid mean to form the hot-column
	// threshold for the threshold detection method.
	ThresholdOffset float64

	// GradientThreshold is the minimum edge magnitude (Celsius per column)
	// for the gradient detection method.
	GradientThreshold float64

	// MinTireWidth and MaxTireWidth gate candidate boundary widths, in
	// columns.
	MinTireWidth int
	MaxTireWidth int

	// FallbackWidth is the width of the centred region returned when no
	// detection candidate survives width gating.
	FallbackWidth int

	// SmoothingDepth is the number of recent boundary estimates kept for
	// temporal smoothing.
	SmoothingDepth int
}

// DefaultDetectionParams returns the tuning used on the reference MLX90640
// install (32x24 grid, middle four rows as tread band).
func DefaultDetectionParams() DetectionParams {
	return DetectionParams{
		TreadRows:         4,
		SensorWidth:       32,
		HotPixelCeiling:   150.0,
		ThresholdOffset:   2.0,
		GradientThreshold: 1.5,
		MinTireWidth:      6,
		MaxTireWidth:      28,
		FallbackWidth:     16,
		SmoothingDepth:    3,
	}
}
