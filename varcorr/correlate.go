// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package varcorr correlates auxiliary variables recorded in a
// variables log with the turnaround time of the loop iteration they
// were recorded in.
//
// Each sample is reduced to its magnitude, the Euclidean norm of its
// components, and paired with the turnaround time of one target
// boundary at the sample's loop index. Variables are then ranked by
// the Pearson correlation of their magnitudes with those turnaround
// times.
package varcorr

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pmuanalyzer/tatstat/elapsedfmt"
	"github.com/pmuanalyzer/tatstat/turnaround"
)

// DefaultTarget is the boundary variables are correlated against
// when the caller has no preference.
const DefaultTarget = 1

// A Variable is the paired series of one variable.
type Variable struct {
	Name string

	// Single reports whether the variable is a scalar, judged by
	// the first sample of it: its magnitude is then its absolute
	// value rather than a vector norm.
	Single bool

	// Magnitudes and Turnarounds are the paired values in log
	// order. Turnarounds[k] is the turnaround time, in µs, of the
	// loop iteration Magnitudes[k] was recorded in.
	Magnitudes  []float64
	Turnarounds []float64
}

// Label returns a description of what the magnitude of v measures.
func (v *Variable) Label() string {
	if v.Single {
		return v.Name
	}
	return v.Name + " L2 norm"
}

// Correlation returns the Pearson correlation coefficient of v's
// magnitudes and turnaround times, and whether it is defined. It is
// undefined if there are fewer than two pairs or either sequence is
// constant.
func (v *Variable) Correlation() (float64, bool) {
	return Pearson(v.Magnitudes, v.Turnarounds)
}

// A Rank is one entry of a correlation ranking.
type Rank struct {
	Corr float64
	Var  *Variable
}

// A Result is the outcome of correlating a variables log.
type Result struct {
	// Target is the boundary the variables were paired with.
	Target int

	// Variables lists every variable seen, in first-seen order,
	// including those with undefined correlation.
	Variables []*Variable

	// Ranking lists the variables with defined correlation, in
	// ascending order of correlation.
	Ranking []Rank

	// Skipped is the number of samples dropped because the target
	// boundary has no turnaround time for their loop index.
	Skipped int
}

// Correlate pairs samples with the turnaround times of boundary
// target of s and ranks the variables by correlation.
//
// Samples whose loop index is outside the target boundary are
// skipped and counted in Result.Skipped. A target that is not a
// boundary of s is an *turnaround.IndexAlignmentError.
func Correlate(samples []elapsedfmt.Sample, s turnaround.Series, target int) (*Result, error) {
	if target < 0 || target >= s.Boundaries() {
		return nil, &turnaround.IndexAlignmentError{
			Stage: target,
			Msg:   fmt.Sprintf("correlation target is not a boundary (have %d)", s.Boundaries()),
		}
	}
	deltas := s[target]

	res := &Result{Target: target}
	byName := make(map[string]*Variable)
	for i := range samples {
		smp := &samples[i]
		v := byName[smp.Name]
		if v == nil {
			v = &Variable{Name: smp.Name, Single: len(smp.Components) == 1}
			byName[smp.Name] = v
			res.Variables = append(res.Variables, v)
		}
		if smp.Loop < 0 || smp.Loop >= len(deltas) {
			res.Skipped++
			continue
		}
		v.Magnitudes = append(v.Magnitudes, Magnitude(smp.Components))
		v.Turnarounds = append(v.Turnarounds, float64(deltas[smp.Loop]))
	}

	for _, v := range res.Variables {
		if c, ok := v.Correlation(); ok {
			res.Ranking = append(res.Ranking, Rank{c, v})
		}
	}
	sort.SliceStable(res.Ranking, func(i, j int) bool {
		return res.Ranking[i].Corr < res.Ranking[j].Corr
	})
	return res, nil
}

// Magnitude returns the Euclidean norm of xs.
func Magnitude(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return floats.Norm(xs, 2)
}

// Pearson returns the Pearson correlation coefficient of xs and ys,
// and whether it is defined.
func Pearson(xs, ys []float64) (float64, bool) {
	if len(xs) != len(ys) {
		panic("varcorr: slice length mismatch")
	}
	if len(xs) < 2 || constant(xs) || constant(ys) {
		return math.NaN(), false
	}
	c := stat.Correlation(xs, ys, nil)
	if math.IsNaN(c) {
		return c, false
	}
	return math.Max(-1, math.Min(1, c)), true
}

func constant(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}
