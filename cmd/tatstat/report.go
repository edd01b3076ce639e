// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/aclements/go-gg/table"

	"github.com/pmuanalyzer/tatstat/turnaround"
	"github.com/pmuanalyzer/tatstat/varcorr"
)

// writeSummaries prints the percentiles of every boundary. Boundaries
// are numbered from 1 in the report, matching the stage they end at.
func writeSummaries(w io.Writer, session string, sums []turnaround.Summary) error {
	bw := bufio.NewWriter(w)
	for _, s := range sums {
		fmt.Fprintf(bw, "%s: part index = %d\n", session, s.Boundary+1)
		for _, q := range s.Quantiles {
			fmt.Fprintf(bw, "%s%%tile %dus\n", strconv.FormatFloat(q.P*100, 'g', 4, 64), q.Value)
		}
		fmt.Fprintf(bw, "n=%d min %dus max %dus mean %.1fus\n", s.Count, s.Min, s.Max, s.Mean)
		fmt.Fprintf(bw, "------------------------\n")
	}
	return bw.Flush()
}

// writeSeries prints the turnaround time of every loop iteration,
// one column per boundary.
func writeSeries(w io.Writer, s turnaround.Series) error {
	loops := make([]int, s.Loops())
	for i := range loops {
		loops[i] = i
	}
	b := table.NewBuilder(nil).Add("loop", loops)
	for i, deltas := range s {
		b.Add("part"+strconv.Itoa(i), deltas)
	}
	return table.Fprint(w, b.Done())
}

// writeCorrelations prints the correlation ranking in ascending order.
func writeCorrelations(w io.Writer, res *varcorr.Result) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d variables, %d samples skipped\n", len(res.Variables), res.Skipped)
	for _, r := range res.Ranking {
		fmt.Fprintf(bw, "%s corr = %v\n", r.Var.Name, r.Corr)
	}
	return bw.Flush()
}

// warnCorrelations reports samples and variables that did not make it
// into the ranking.
func warnCorrelations(w io.Writer, res *varcorr.Result, noData int) {
	if noData > 0 {
		fmt.Fprintf(w, "tatstat: %d variable lines have no values\n", noData)
	}
	if res.Skipped > 0 {
		fmt.Fprintf(w, "tatstat: %d samples have no turnaround time in part %d\n", res.Skipped, res.Target)
	}
	for _, v := range res.Variables {
		if _, ok := v.Correlation(); !ok {
			fmt.Fprintf(w, "tatstat: %s: correlation undefined over %d samples\n", v.Name, len(v.Magnitudes))
		}
	}
}
