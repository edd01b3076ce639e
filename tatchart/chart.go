// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tatchart renders turnaround-time series and variable
// correlations as images.
package tatchart

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	// Register the png, pdf and svg canvases with draw.NewFormattedCanvas.
	_ "gonum.org/v1/plot/vg/vgimg"
	_ "gonum.org/v1/plot/vg/vgpdf"
	_ "gonum.org/v1/plot/vg/vgsvg"

	"github.com/pmuanalyzer/tatstat/turnaround"
	"github.com/pmuanalyzer/tatstat/varcorr"
)

// Formats lists the image formats Options accepts.
var Formats = []string{"png", "pdf", "svg"}

// ValidFormat reports whether format is one of Formats.
func ValidFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Options controls how charts are rendered.
type Options struct {
	// Dir receives one image per boundary.
	Dir string
	// VarDir receives one scatter plot per ranked variable.
	VarDir string

	// HistFormat and ScatterFormat are image formats from Formats.
	HistFormat    string
	ScatterFormat string

	// Bins is the number of histogram bins.
	Bins int
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		Dir:           ".",
		VarDir:        "var_fig",
		HistFormat:    "pdf",
		ScatterFormat: "png",
		Bins:          50,
	}
}

var lineColor = color.NRGBA{0x1f, 0x77, 0xb4, 0xff}

// Boundaries writes one image per boundary of s, showing the
// turnaround time of every loop iteration above a histogram of the
// same values. It returns the paths written.
func Boundaries(session string, s turnaround.Series, o Options) ([]string, error) {
	if err := os.MkdirAll(o.Dir, 0777); err != nil {
		return nil, err
	}
	var paths []string
	for i, deltas := range s {
		if len(deltas) == 0 {
			continue
		}
		vals := make(plotter.Values, len(deltas))
		var max float64
		for j, d := range deltas {
			vals[j] = float64(d)
			if j == 0 || vals[j] > max {
				max = vals[j]
			}
		}

		ts := plot.New()
		ts.Title.Text = fmt.Sprintf("%s: part %d - elapsed time time-series", session, i)
		ts.X.Label.Text = "sample index"
		ts.Y.Label.Text = "turn-around time (us)"
		xys := make(plotter.XYs, len(vals))
		for j, v := range vals {
			xys[j].X = float64(j)
			xys[j].Y = v
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return paths, err
		}
		line.Color = lineColor
		ts.Add(line)

		hist := plot.New()
		hist.Title.Text = fmt.Sprintf("%s: part %d - elapsed time histogram", session, i)
		hist.X.Label.Text = "turn-around time (us)"
		hist.Y.Label.Text = "the number of samples"
		h, err := plotter.NewHist(vals, o.Bins)
		if err != nil {
			return paths, err
		}
		h.FillColor = lineColor
		hist.Add(h)

		if max > 0 {
			ts.Y.Min, ts.Y.Max = 0, max
			hist.X.Min, hist.X.Max = 0, max
		}

		name := fmt.Sprintf("%s.part%d_histogram.%s", fileName(session), i, o.HistFormat)
		path := filepath.Join(o.Dir, name)
		if err := writeStacked(path, o.HistFormat, ts, hist); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// writeStacked draws plots one above the other on a single page.
func writeStacked(path, format string, plots ...*plot.Plot) error {
	const w, h = 16 * vg.Inch, 16 * vg.Inch
	c, err := draw.NewFormattedCanvas(w, h, format)
	if err != nil {
		return err
	}
	grid := make([][]*plot.Plot, len(plots))
	for i, p := range plots {
		grid[i] = []*plot.Plot{p}
	}
	tiles := draw.Tiles{
		Rows: len(plots),
		Cols: 1,
		PadX: vg.Inch / 4,
		PadY: vg.Inch / 4,

		PadTop:    vg.Inch / 4,
		PadBottom: vg.Inch / 4,
		PadLeft:   vg.Inch / 4,
		PadRight:  vg.Inch / 4,
	}
	canvases := plot.Align(grid, tiles, draw.New(c))
	for i, p := range plots {
		p.Draw(canvases[i][0])
	}
	return writeCanvas(path, c)
}

func writeCanvas(path string, c vg.CanvasWriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := c.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Scatters writes one scatter plot of magnitude against turnaround
// time for every ranked variable of res. It returns the paths
// written.
func Scatters(res *varcorr.Result, o Options) ([]string, error) {
	if len(res.Ranking) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(o.VarDir, 0777); err != nil {
		return nil, err
	}
	var paths []string
	for _, r := range res.Ranking {
		v := r.Var
		p := plot.New()
		p.Title.Text = fmt.Sprintf("%s corr=%v", v.Name, r.Corr)
		p.X.Label.Text = v.Label()
		p.Y.Label.Text = fmt.Sprintf("turn-around time (us) in part %d", res.Target)

		xys := make(plotter.XYs, len(v.Magnitudes))
		for i := range xys {
			xys[i].X = v.Magnitudes[i]
			xys[i].Y = v.Turnarounds[i]
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return paths, err
		}
		sc.GlyphStyle.Color = lineColor
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)

		c, err := draw.NewFormattedCanvas(8*vg.Inch, 8*vg.Inch, o.ScatterFormat)
		if err != nil {
			return paths, err
		}
		p.Draw(draw.New(c))
		path := filepath.Join(o.VarDir, fileName(v.Name)+"."+o.ScatterFormat)
		if err := writeCanvas(path, c); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// fileName makes s safe to use as a file name.
func fileName(s string) string {
	return strings.NewReplacer("/", "-", "\\", "-").Replace(s)
}
