// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package turnaround

import (
	"fmt"
	"sort"

	"github.com/aclements/go-moremath/stats"
	"gonum.org/v1/gonum/stat"
)

// DefaultPercentiles are the tail percentiles reported for every
// boundary unless the caller asks for others.
var DefaultPercentiles = []float64{0.50, 0.90, 0.99}

// An EmptySeriesError reports a statistic requested over a series
// with no values.
type EmptySeriesError struct {
	Op string // statistic being computed
}

func (e *EmptySeriesError) Error() string {
	return e.Op + " of empty series"
}

// A Sample is the turnaround times of one boundary, in ascending
// order.
type Sample struct {
	Values []float64
}

// NewSample constructs a Sample from xs. xs is not modified.
func NewSample(xs []int64) *Sample {
	vals := make([]float64, len(xs))
	for i, x := range xs {
		vals[i] = float64(x)
	}
	sort.Float64s(vals)
	return &Sample{vals}
}

// Percentile returns the p-percentile of s by the nearest-rank
// method: the value at index ceil(n*p)-1 of the sorted sample.
// p must be in (0, 1].
func (s *Sample) Percentile(p float64) (int64, error) {
	if len(s.Values) == 0 {
		return 0, &EmptySeriesError{"percentile"}
	}
	if !(p > 0 && p <= 1) {
		return 0, fmt.Errorf("percentile %v out of range (0, 1]", p)
	}
	// stat.Empirical returns the first element whose rank reaches n*p.
	return int64(stat.Quantile(p, stat.Empirical, s.Values, nil)), nil
}

// Percentile returns the p-percentile of xs. See Sample.Percentile.
func Percentile(xs []int64, p float64) (int64, error) {
	return NewSample(xs).Percentile(p)
}

// A Quantile is one percentile of a boundary.
type Quantile struct {
	P     float64 // in (0, 1]
	Value int64   // µs
}

// A Summary describes the turnaround distribution of one boundary.
type Summary struct {
	// Boundary is the index of the boundary, so the summary covers
	// stage Boundary to stage Boundary+1.
	Boundary int

	Count    int
	Min, Max int64
	Mean     float64

	// Quantiles lists the requested percentiles in request order.
	Quantiles []Quantile
}

// Summarize computes the percentiles ps of every boundary of s. If ps
// is nil, it uses DefaultPercentiles.
func Summarize(s Series, ps []float64) ([]Summary, error) {
	if ps == nil {
		ps = DefaultPercentiles
	}
	sums := make([]Summary, 0, len(s))
	for i, deltas := range s {
		if len(deltas) == 0 {
			return nil, fmt.Errorf("boundary %d: %w", i, &EmptySeriesError{"percentile"})
		}
		sample := NewSample(deltas)
		sum := Summary{Boundary: i, Count: len(deltas)}
		for _, p := range ps {
			v, err := sample.Percentile(p)
			if err != nil {
				return nil, fmt.Errorf("boundary %d: %w", i, err)
			}
			sum.Quantiles = append(sum.Quantiles, Quantile{p, v})
		}
		ms := stats.Sample{Xs: sample.Values, Sorted: true}
		lo, hi := ms.Bounds()
		sum.Min, sum.Max = int64(lo), int64(hi)
		sum.Mean = ms.Mean()
		sums = append(sums, sum)
	}
	return sums, nil
}
