package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/SamSkjord/open-TPT-sub002/internal/thermal"
)

// TuningConfig holds the startup tuning for the detection pipeline.
// Fields are pointers so a partial JSON file only overrides what it
// names; the Get* accessors supply defaults for everything else. The EMA
// alpha table and plausibility bounds are pre-computed compile-time
// constants in internal/history and are deliberately not tunable here.
type TuningConfig struct {
	// Frame extraction
	TreadRows   *int `json:"tread_rows,omitempty"`
	BandStart   *int `json:"band_start,omitempty"`
	SensorWidth *int `json:"sensor_width,omitempty"`

	// Detection params
	HotPixelCeiling   *float64 `json:"hot_pixel_ceiling,omitempty"`
	ThresholdOffset   *float64 `json:"threshold_offset,omitempty"`
	GradientThreshold *float64 `json:"gradient_threshold,omitempty"`
	MinTireWidth      *int     `json:"min_tire_width,omitempty"`
	MaxTireWidth      *int     `json:"max_tire_width,omitempty"`
	FallbackWidth     *int     `json:"fallback_width,omitempty"`
	SmoothingDepth    *int     `json:"smoothing_depth,omitempty"`

	// Ingestion params
	PollInterval *string `json:"poll_interval,omitempty"` // duration string like "100ms"
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil so
// every accessor falls back to its default.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The file must
// have a .json extension and be under the max file size. Fields omitted
// from the JSON retain their defaults, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *TuningConfig) Validate() error {
	if c.TreadRows != nil && *c.TreadRows < 1 {
		return fmt.Errorf("tread_rows must be positive, got %d", *c.TreadRows)
	}
	if c.SensorWidth != nil && *c.SensorWidth < 1 {
		return fmt.Errorf("sensor_width must be positive, got %d", *c.SensorWidth)
	}
	if c.MinTireWidth != nil && *c.MinTireWidth < 1 {
		return fmt.Errorf("min_tire_width must be positive, got %d", *c.MinTireWidth)
	}
	if c.MinTireWidth != nil && c.MaxTireWidth != nil && *c.MaxTireWidth < *c.MinTireWidth {
		return fmt.Errorf("max_tire_width %d below min_tire_width %d", *c.MaxTireWidth, *c.MinTireWidth)
	}
	if c.SmoothingDepth != nil && *c.SmoothingDepth < 1 {
		return fmt.Errorf("smoothing_depth must be positive, got %d", *c.SmoothingDepth)
	}
	if c.PollInterval != nil && *c.PollInterval != "" {
		if _, err := time.ParseDuration(*c.PollInterval); err != nil {
			return fmt.Errorf("invalid poll_interval '%s': %w", *c.PollInterval, err)
		}
	}
	return nil
}

// GetTreadRows returns the tread_rows value or the default.
func (c *TuningConfig) GetTreadRows() int {
	if c.TreadRows == nil {
		return 4
	}
	return *c.TreadRows
}

// GetBandStart returns the band_start value or the default. The default
// centres a four-row band on the 24-row source sensor.
func (c *TuningConfig) GetBandStart() int {
	if c.BandStart == nil {
		return 10
	}
	return *c.BandStart
}

// GetSensorWidth returns the sensor_width value or the default.
func (c *TuningConfig) GetSensorWidth() int {
	if c.SensorWidth == nil {
		return 32
	}
	return *c.SensorWidth
}

// GetHotPixelCeiling returns the hot_pixel_ceiling value or the default.
func (c *TuningConfig) GetHotPixelCeiling() float64 {
	if c.HotPixelCeiling == nil {
		return 150.0
	}
	return *c.HotPixelCeiling
}

// GetThresholdOffset returns the threshold_offset value or the default.
func (c *TuningConfig) GetThresholdOffset() float64 {
	if c.ThresholdOffset == nil {
		return 2.0
	}
	return *c.ThresholdOffset
}

// GetGradientThreshold returns the gradient_threshold value or the default.
func (c *TuningConfig) GetGradientThreshold() float64 {
	if c.GradientThreshold == nil {
		return 1.5
	}
	return *c.GradientThreshold
}

// GetMinTireWidth returns the min_tire_width value or the default.
func (c *TuningConfig) GetMinTireWidth() int {
	if c.MinTireWidth == nil {
		return 6
	}
	return *c.MinTireWidth
}

// GetMaxTireWidth returns the max_tire_width value or the default.
func (c *TuningConfig) GetMaxTireWidth() int {
	if c.MaxTireWidth == nil {
		return 28
	}
	return *c.MaxTireWidth
}

// GetFallbackWidth returns the fallback_width value or the default.
func (c *TuningConfig) GetFallbackWidth() int {
	if c.FallbackWidth == nil {
		return 16
	}
	return *c.FallbackWidth
}

// GetSmoothingDepth returns the smoothing_depth value or the default.
func (c *TuningConfig) GetSmoothingDepth() int {
	if c.SmoothingDepth == nil {
		return 3
	}
	return *c.SmoothingDepth
}

// GetPollInterval parses and returns the PollInterval as a time.Duration.
func (c *TuningConfig) GetPollInterval() time.Duration {
	if c.PollInterval == nil || *c.PollInterval == "" {
		return 100 * time.Millisecond // 10 Hz default
	}
	d, err := time.ParseDuration(*c.PollInterval)
	if err != nil {
		return 100 * time.Millisecond
	}
	return d
}

// DetectionParams assembles the thermal pipeline tuning from this config.
func (c *TuningConfig) DetectionParams() thermal.DetectionParams {
	return thermal.DetectionParams{
		TreadRows:         c.GetTreadRows(),
		SensorWidth:       c.GetSensorWidth(),
		HotPixelCeiling:   c.GetHotPixelCeiling(),
		ThresholdOffset:   c.GetThresholdOffset(),
		GradientThreshold: c.GetGradientThreshold(),
		MinTireWidth:      c.GetMinTireWidth(),
		MaxTireWidth:      c.GetMaxTireWidth(),
		FallbackWidth:     c.GetFallbackWidth(),
		SmoothingDepth:    c.GetSmoothingDepth(),
	}
}
