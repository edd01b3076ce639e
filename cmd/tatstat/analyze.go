// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/pmuanalyzer/tatstat/elapsedfmt"
	"github.com/pmuanalyzer/tatstat/internal/config"
	"github.com/pmuanalyzer/tatstat/turnaround"
	"github.com/pmuanalyzer/tatstat/varcorr"
)

// An analysis is everything derived from one elapsed-time log and
// one variables log.
type analysis struct {
	stages *turnaround.StageLog
	series turnaround.Series
	sums   []turnaround.Summary
	corr   *varcorr.Result

	// noData is the number of variables log lines without
	// components.
	noData int
}

// analyze reads the elapsed-time log and derives and summarizes its
// turnaround times. The file is closed before analyze returns.
func analyze(cfg *config.Config, elapsedPath string) (*analysis, error) {
	recs, err := elapsedfmt.ReadElapsed(elapsedPath)
	if err != nil {
		return nil, err
	}
	stages, err := turnaround.Aggregate(recs)
	if err != nil {
		return nil, err
	}
	series, err := turnaround.Derive(stages)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", elapsedPath, err)
	}
	sums, err := turnaround.Summarize(series, cfg.Percentiles)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", elapsedPath, err)
	}
	return &analysis{stages: stages, series: series, sums: sums}, nil
}

// correlate reads the variables log and correlates it with the
// target boundary of a.series.
func (a *analysis) correlate(cfg *config.Config, varsPath string) error {
	samples, noData, err := elapsedfmt.ReadVars(varsPath)
	if err != nil {
		return err
	}
	corr, err := varcorr.Correlate(samples, a.series, cfg.TargetBoundary)
	if err != nil {
		return fmt.Errorf("%s: %w", varsPath, err)
	}
	a.corr, a.noData = corr, noData
	return nil
}
