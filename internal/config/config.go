// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the optional tatstat configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pmuanalyzer/tatstat/tatchart"
	"github.com/pmuanalyzer/tatstat/turnaround"
	"github.com/pmuanalyzer/tatstat/varcorr"
)

// Config is the tatstat configuration. Fields map 1:1 to the YAML
// keys.
type Config struct {
	// TargetBoundary is the boundary variables are correlated
	// against.
	TargetBoundary int `yaml:"target_boundary"`

	// Percentiles are reported for every boundary, each in (0, 1].
	Percentiles []float64 `yaml:"percentiles"`

	Output Output `yaml:"output"`

	// MetricsFile, if set, receives the boundary summaries in
	// Prometheus text exposition format.
	MetricsFile string `yaml:"metrics_file"`
}

// Output configures rendered images.
type Output struct {
	Dir             string `yaml:"dir"`
	VariableDir     string `yaml:"variable_dir"`
	HistogramFormat string `yaml:"histogram_format"`
	ScatterFormat   string `yaml:"scatter_format"`
	Bins            int    `yaml:"bins"`

	// Plots turns image rendering on or off.
	Plots bool `yaml:"plots"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	o := tatchart.DefaultOptions()
	return &Config{
		TargetBoundary: varcorr.DefaultTarget,
		Percentiles:    append([]float64(nil), turnaround.DefaultPercentiles...),
		Output: Output{
			Dir:             o.Dir,
			VariableDir:     o.VarDir,
			HistogramFormat: o.HistFormat,
			ScatterFormat:   o.ScatterFormat,
			Bins:            o.Bins,
			Plots:           true,
		},
	}
}

// Load reads the configuration file at path. Keys absent from the
// file keep their default values. An empty path returns Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every field has a usable value.
func (c *Config) Validate() error {
	if c.TargetBoundary < 0 {
		return fmt.Errorf("target_boundary %d is negative", c.TargetBoundary)
	}
	if len(c.Percentiles) == 0 {
		return fmt.Errorf("percentiles is empty")
	}
	for _, p := range c.Percentiles {
		if !(p > 0 && p <= 1) {
			return fmt.Errorf("percentile %v out of range (0, 1]", p)
		}
	}
	if c.Output.Bins < 1 {
		return fmt.Errorf("output.bins %d must be at least 1", c.Output.Bins)
	}
	if !tatchart.ValidFormat(c.Output.HistogramFormat) {
		return fmt.Errorf("output.histogram_format %q not one of %v", c.Output.HistogramFormat, tatchart.Formats)
	}
	if !tatchart.ValidFormat(c.Output.ScatterFormat) {
		return fmt.Errorf("output.scatter_format %q not one of %v", c.Output.ScatterFormat, tatchart.Formats)
	}
	return nil
}

// ChartOptions returns the rendering options described by c.
func (c *Config) ChartOptions() tatchart.Options {
	return tatchart.Options{
		Dir:           c.Output.Dir,
		VarDir:        c.Output.VariableDir,
		HistFormat:    c.Output.HistogramFormat,
		ScatterFormat: c.Output.ScatterFormat,
		Bins:          c.Output.Bins,
	}
}
