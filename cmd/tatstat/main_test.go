// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pmuanalyzer/tatstat/elapsedfmt"
	"github.com/pmuanalyzer/tatstat/turnaround"
	"github.com/pmuanalyzer/tatstat/varcorr"
)

const elapsedLog = `s 0 1 100 0
s 1 1 150 0
s 2 1 180 0
s 0 2 200 0
s 1 2 260 0
s 2 2 300 0
`

const varsLog = `s 0 a 1
s 0 b 5 0
s 0 marker
s 1 a 2
s 1 b 3 4
s 2 a 9
`

// logs writes the elapsed-time and variables logs to a temporary
// directory and returns their paths.
func logs(t *testing.T, elapsed, vars string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	ep, vp := filepath.Join(dir, "elapsed"), filepath.Join(dir, "vars")
	if err := os.WriteFile(ep, []byte(elapsed), 0666); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(vp, []byte(vars), 0666); err != nil {
		t.Fatal(err)
	}
	return ep, vp
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var w, wErr bytes.Buffer
	t.Logf("tatstat %s", strings.Join(args, " "))
	err = tatstat(&w, &wErr, args)
	return w.String(), wErr.String(), err
}

func TestReport(t *testing.T) {
	ep, vp := logs(t, elapsedLog, varsLog)
	stdout, stderr, err := run(t, "-noplot", ep, vp)
	if err != nil {
		t.Fatal(err)
	}

	want := `s: part index = 1
50%tile 50us
90%tile 60us
99%tile 60us
n=2 min 50us max 60us mean 55.0us
------------------------
s: part index = 2
50%tile 30us
90%tile 40us
99%tile 40us
n=2 min 30us max 40us mean 35.0us
------------------------
2 variables, 1 samples skipped
a corr = 1
`
	if diff := cmp.Diff(want, stdout); diff != "" {
		t.Errorf("stdout mismatch (-want +got):\n%s", diff)
	}

	wantErr := `tatstat: 1 variable lines have no values
tatstat: 1 samples have no turnaround time in part 1
tatstat: b: correlation undefined over 2 samples
`
	if diff := cmp.Diff(wantErr, stderr); diff != "" {
		t.Errorf("stderr mismatch (-want +got):\n%s", diff)
	}
}

func TestSeries(t *testing.T) {
	ep, vp := logs(t, elapsedLog, varsLog)
	stdout, _, err := run(t, "-noplot", "-series", ep, vp)
	if err != nil {
		t.Fatal(err)
	}
	var rows [][]string
	for _, line := range strings.Split(stdout, "\n") {
		if f := strings.Fields(line); len(f) == 3 && (f[0] == "loop" || f[0] == "0" || f[0] == "1") {
			rows = append(rows, f)
		}
	}
	want := [][]string{
		{"loop", "part0", "part1"},
		{"0", "50", "30"},
		{"1", "60", "40"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("series table mismatch (-want +got):\n%s", diff)
	}
}

func TestTarget(t *testing.T) {
	// Against boundary 0, b is still constant and a pairs with
	// [50, 60].
	ep, vp := logs(t, elapsedLog, varsLog)
	stdout, _, err := run(t, "-noplot", "-target", "0", ep, vp)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "a corr = 1\n") {
		t.Errorf("stdout missing a's correlation:\n%s", stdout)
	}

	_, _, err = run(t, "-noplot", "-target", "2", ep, vp)
	var ae *turnaround.IndexAlignmentError
	if !errors.As(err, &ae) {
		t.Errorf("-target 2: error %v, want *IndexAlignmentError", err)
	}
}

func TestPlots(t *testing.T) {
	ep, vp := logs(t, elapsedLog, varsLog)
	out := t.TempDir()
	varDir := filepath.Join(out, "vars")
	metrics := filepath.Join(out, "tat.prom")
	if _, _, err := run(t, "-o", out, "-vardir", varDir, "-bins", "5", "-metrics", metrics, ep, vp); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{
		filepath.Join(out, "s.part0_histogram.pdf"),
		filepath.Join(out, "s.part1_histogram.pdf"),
		filepath.Join(varDir, "a.png"),
	} {
		if _, err := os.Stat(name); err != nil {
			t.Error(err)
		}
	}
	if _, err := os.Stat(filepath.Join(varDir, "b.png")); err == nil {
		t.Errorf("plotted variable b with undefined correlation")
	}

	data, err := os.ReadFile(metrics)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`tatstat_turnaround_microseconds{session="s",boundary="0",quantile="0.5"} 50`,
		`tatstat_turnaround_microseconds{session="s",boundary="1",quantile="0.99"} 40`,
		`tatstat_variable_correlation{session="s",boundary="1",variable="a"} 1`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("metrics missing %q:\n%s", want, data)
		}
	}
}

func TestConfig(t *testing.T) {
	ep, vp := logs(t, elapsedLog, varsLog)
	cfg := filepath.Join(t.TempDir(), "tatstat.yaml")
	body := "percentiles: [0.5, 0.999]\noutput:\n  plots: false\n"
	if err := os.WriteFile(cfg, []byte(body), 0666); err != nil {
		t.Fatal(err)
	}
	stdout, _, err := run(t, "-config", cfg, ep, vp)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "99.9%tile 60us\n") || strings.Contains(stdout, "90%tile") {
		t.Errorf("configured percentiles not reported:\n%s", stdout)
	}

	if _, _, err := run(t, "-config", cfg, "-bins", "0", ep, vp); err == nil {
		t.Errorf("-bins 0 accepted")
	}
}

func TestErrors(t *testing.T) {
	check := func(elapsed, vars string, want string, target interface{}) {
		t.Helper()
		ep, vp := logs(t, elapsed, vars)
		_, _, err := run(t, "-noplot", ep, vp)
		if err == nil {
			t.Errorf("no error, want %q", want)
			return
		}
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q, want containing %q", err, want)
		}
		if target != nil && !errors.As(err, target) {
			t.Errorf("error %v is not a %T", err, target)
		}
	}
	check("s 0 0 10\n", varsLog, "elapsed:1: expected 5 fields, got 4", new(*elapsedfmt.MalformedRecordError))
	check(elapsedLog, "s 0 a x\n", "vars:1: component 0", new(*elapsedfmt.MalformedRecordError))
	check("s 0 0 10 0\ns 0 1 20 0\ns 1 0 15 0\n", varsLog, "stage 1: 1 timestamps, stage 0 has 2", new(*turnaround.IndexAlignmentError))
	check("s 1 0 10 0\n", varsLog, "no timestamps for stage 0", new(*turnaround.IndexAlignmentError))
	check("s 0 0 10 0\nt 1 0 15 0\n", varsLog, `session "t"`, new(*turnaround.SessionMismatchError))
	check("s 0 0 10 0\ns 1 0 15 0\n", varsLog, "correlation target is not a boundary", new(*turnaround.IndexAlignmentError))
	check("", varsLog, "no timestamps for stage 0", nil)
}

func TestReportBeforeCorrelationError(t *testing.T) {
	// One boundary, so the default target of boundary 1 is invalid,
	// but the percentiles of boundary 0 are still reported.
	ep, vp := logs(t, "s 0 0 10 0\ns 1 0 15 0\n", "")
	stdout, _, err := run(t, "-noplot", ep, vp)
	var ae *turnaround.IndexAlignmentError
	if !errors.As(err, &ae) {
		t.Fatalf("error %v, want *IndexAlignmentError", err)
	}
	want := "s: part index = 1\n50%tile 5us\n"
	if !strings.HasPrefix(stdout, want) {
		t.Errorf("stdout = %q, want prefix %q", stdout, want)
	}
	if strings.Contains(stdout, "variables") {
		t.Errorf("correlations written despite error:\n%s", stdout)
	}
}

// A failWriter fails every write after the first n bytes.
type failWriter struct {
	n int
}

var errWrite = errors.New("write failed")

func (w *failWriter) Write(p []byte) (int, error) {
	if len(p) > w.n {
		k := w.n
		w.n = 0
		return k, errWrite
	}
	w.n -= len(p)
	return len(p), nil
}

func TestWriteErrors(t *testing.T) {
	sums, err := turnaround.Summarize(turnaround.Series{{50, 60}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	// Fail partway through the quantile lines, before the separator.
	if err := writeSummaries(&failWriter{n: 30}, "s", sums); err != errWrite {
		t.Errorf("writeSummaries error = %v, want %v", err, errWrite)
	}

	res := &varcorr.Result{Variables: []*varcorr.Variable{{Name: "a"}}}
	res.Ranking = []varcorr.Rank{{Corr: 0.5, Var: res.Variables[0]}}
	if err := writeCorrelations(&failWriter{n: 10}, res); err != errWrite {
		t.Errorf("writeCorrelations error = %v, want %v", err, errWrite)
	}
}

func TestUsage(t *testing.T) {
	for _, args := range [][]string{
		nil,
		{"only-one"},
		{"a", "b", "c"},
		{"-bogus", "a", "b"},
	} {
		_, stderr, err := run(t, args...)
		if err != errUsage {
			t.Errorf("%v: error %v, want usage", args, err)
		}
		if !strings.Contains(stderr, "usage: tatstat") {
			t.Errorf("%v: usage not printed:\n%s", args, stderr)
		}
	}
}
