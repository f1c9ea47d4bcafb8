// Package config loads tool configuration for the trajectory utilities.
//
// The schema uses pointer fields so partial config files are safe: fields
// omitted from the JSON keep their defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ToolConfig is the root configuration for the trajectory command-line
// tools.
type ToolConfig struct {
	// URI resolution
	SearchDirs    []string `json:"search_dirs,omitempty"`
	SchemeAliases []string `json:"scheme_aliases,omitempty"`

	// Sampling params for tools that resample trajectories
	SampleDeltaTime *float64 `json:"sample_delta_time,omitempty"`
	EnsureLastPoint *bool    `json:"ensure_last_point,omitempty"`

	// Plot params
	PlotTitle   *string `json:"plot_title,omitempty"`
	PlotMaxRows *int    `json:"plot_max_rows,omitempty"`
}

// Empty returns a ToolConfig with all fields unset.
func Empty() *ToolConfig {
	return &ToolConfig{}
}

// Load reads a ToolConfig from a JSON file. The file must have a .json
// extension and stay under the max file size. Fields omitted from the JSON
// keep their defaults, so partial configs are safe.
func Load(path string) (*ToolConfig, error) {
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

	cfg := Empty()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *ToolConfig) Validate() error {
	if c.SampleDeltaTime != nil && *c.SampleDeltaTime <= 0 {
		return fmt.Errorf("sample_delta_time must be positive, got %g", *c.SampleDeltaTime)
	}
	if c.PlotMaxRows != nil && *c.PlotMaxRows < 1 {
		return fmt.Errorf("plot_max_rows must be at least 1, got %d", *c.PlotMaxRows)
	}
	for _, dir := range c.SearchDirs {
		if dir == "" {
			return fmt.Errorf("search_dirs must not contain empty entries")
		}
	}
	return nil
}

// GetSampleDeltaTime returns the sampling step, defaulting to 0.01s.
func (c *ToolConfig) GetSampleDeltaTime() float64 {
	if c.SampleDeltaTime != nil {
		return *c.SampleDeltaTime
	}
	return 0.01
}

// GetEnsureLastPoint returns whether resampling keeps the terminal waypoint,
// defaulting to true.
func (c *ToolConfig) GetEnsureLastPoint() bool {
	if c.EnsureLastPoint != nil {
		return *c.EnsureLastPoint
	}
	return true
}

// GetPlotTitle returns the plot title, defaulting to "trajectory".
func (c *ToolConfig) GetPlotTitle() string {
	if c.PlotTitle != nil {
		return *c.PlotTitle
	}
	return "trajectory"
}

// GetPlotMaxRows returns the row cap for plots, defaulting to 10000.
func (c *ToolConfig) GetPlotMaxRows() int {
	if c.PlotMaxRows != nil {
		return *c.PlotMaxRows
	}
	return 10000
}
