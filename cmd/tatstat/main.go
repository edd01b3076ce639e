// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Tatstat computes turnaround-time statistics from the logs written by
// an instrumented pipeline.
//
// Usage:
//
//	tatstat [flags] elapsed_time_log variables_log
//
// The elapsed-time log records a timestamp each time a loop iteration
// of a session reaches a stage of the pipeline. Tatstat derives the
// turnaround time of every loop iteration across every stage boundary
// and prints the 50th, 90th and 99th percentile of each boundary:
//
//	detector: part index = 1
//	50%tile 50us
//	90%tile 60us
//	99%tile 60us
//	n=2 min 50us max 60us mean 55.0us
//	------------------------
//
// The variables log records auxiliary measurements taken during each
// loop iteration. Tatstat pairs the magnitude (Euclidean norm) of
// every measurement with the turnaround time of the same iteration at
// the target boundary (boundary 1 by default) and prints the Pearson
// correlation of each variable, in ascending order:
//
//	2 variables, 0 samples skipped
//	queue_depth corr = -0.2
//	points corr = 0.93
//
// Variables whose correlation is undefined, because they or the
// turnaround times they were paired with are constant, are left out.
//
// Unless -noplot is given, tatstat also writes one image per boundary
// with the turnaround time series above its histogram, named
// SESSION.partN_histogram.pdf, and one scatter plot per ranked
// variable under var_fig/.
//
// The -config flag names a YAML file with the same settings as the
// flags; flags given on the command line take precedence:
//
//	target_boundary: 1
//	percentiles: [0.5, 0.9, 0.99]
//	output:
//	  dir: "."
//	  variable_dir: "var_fig"
//	  histogram_format: "pdf"   # png, pdf or svg
//	  scatter_format: "png"
//	  bins: 50
//	  plots: true
//	metrics_file: ""
//
// The -metrics flag writes the boundary summaries and correlations in
// the Prometheus text exposition format.
//
// Any malformed line in the elapsed-time log, any malformed sample
// in the variables log, and any stage whose timestamps cannot be
// lined up with stage 0 is fatal.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pmuanalyzer/tatstat/internal/config"
	"github.com/pmuanalyzer/tatstat/internal/promtext"
	"github.com/pmuanalyzer/tatstat/tatchart"
)

var exit = os.Exit // replaced during testing

// errUsage reports bad command-line arguments. The usage message has
// already been printed.
var errUsage = errors.New("usage")

func main() {
	log.SetPrefix("tatstat: ")
	log.SetFlags(0)

	if err := tatstat(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if err == errUsage {
			exit(2)
			return
		}
		log.Fatal(err)
	}
}

func tatstat(w, wErr io.Writer, args []string) error {
	flags := flag.NewFlagSet("tatstat", flag.ContinueOnError)
	flags.SetOutput(wErr)
	flags.Usage = func() {
		fmt.Fprintf(wErr, "usage: tatstat [flags] elapsed_time_log variables_log\n")
		flags.PrintDefaults()
	}
	flagConfig := flags.String("config", "", "read settings from YAML `file`")
	flagTarget := flags.Int("target", 1, "correlate variables against `boundary`")
	flagBins := flags.Int("bins", 50, "number of histogram `bins`")
	flagOut := flags.String("o", ".", "write boundary images to `dir`")
	flagVarDir := flags.String("vardir", "var_fig", "write variable scatter plots to `dir`")
	flagNoPlot := flags.Bool("noplot", false, "do not render images")
	flagSeries := flags.Bool("series", false, "print the turnaround time of every loop iteration")
	flagMetrics := flags.String("metrics", "", "write Prometheus text exposition to `file`")
	if err := flags.Parse(args); err != nil {
		return errUsage
	}
	if flags.NArg() != 2 {
		flags.Usage()
		return errUsage
	}

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		return err
	}
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "target":
			cfg.TargetBoundary = *flagTarget
		case "bins":
			cfg.Output.Bins = *flagBins
		case "o":
			cfg.Output.Dir = *flagOut
		case "vardir":
			cfg.Output.VariableDir = *flagVarDir
		case "noplot":
			cfg.Output.Plots = !*flagNoPlot
		case "metrics":
			cfg.MetricsFile = *flagMetrics
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	a, err := analyze(cfg, flags.Arg(0))
	if err != nil {
		return err
	}

	// The percentile report does not depend on the variables log, so
	// it is written even if correlation fails.
	if err := writeSummaries(w, a.stages.Session, a.sums); err != nil {
		return err
	}
	if *flagSeries {
		if err := writeSeries(w, a.series); err != nil {
			return err
		}
	}
	if err := a.correlate(cfg, flags.Arg(1)); err != nil {
		return err
	}
	if err := writeCorrelations(w, a.corr); err != nil {
		return err
	}
	warnCorrelations(wErr, a.corr, a.noData)

	if cfg.Output.Plots {
		o := cfg.ChartOptions()
		if _, err := tatchart.Boundaries(a.stages.Session, a.series, o); err != nil {
			return fmt.Errorf("rendering boundaries: %w", err)
		}
		if _, err := tatchart.Scatters(a.corr, o); err != nil {
			return fmt.Errorf("rendering variables: %w", err)
		}
	}

	if cfg.MetricsFile != "" {
		f, err := os.Create(cfg.MetricsFile)
		if err != nil {
			return err
		}
		err = promtext.Write(f, promtext.Families(a.stages.Session, a.sums, a.corr))
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	return nil
}
