// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package promtext writes analysis results in the Prometheus text
// exposition format, suitable for a node_exporter textfile collector.
package promtext

import (
	"io"
	"strconv"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/pmuanalyzer/tatstat/turnaround"
	"github.com/pmuanalyzer/tatstat/varcorr"
)

// Metric names.
const (
	TurnaroundName  = "tatstat_turnaround_microseconds"
	MaxName         = "tatstat_turnaround_max_microseconds"
	CorrelationName = "tatstat_variable_correlation"
)

func label(name, value string) *dto.LabelPair {
	return &dto.LabelPair{Name: proto.String(name), Value: proto.String(value)}
}

// Families converts the boundary summaries of session, and the
// ranking in res if it is non-nil, into metric families.
func Families(session string, sums []turnaround.Summary, res *varcorr.Result) []*dto.MetricFamily {
	tat := &dto.MetricFamily{
		Name: proto.String(TurnaroundName),
		Help: proto.String("Turnaround time between consecutive pipeline stages."),
		Type: dto.MetricType_SUMMARY.Enum(),
	}
	max := &dto.MetricFamily{
		Name: proto.String(MaxName),
		Help: proto.String("Largest turnaround time between consecutive pipeline stages."),
		Type: dto.MetricType_GAUGE.Enum(),
	}
	for _, s := range sums {
		labels := []*dto.LabelPair{
			label("session", session),
			label("boundary", strconv.Itoa(s.Boundary)),
		}
		summary := &dto.Summary{
			SampleCount: proto.Uint64(uint64(s.Count)),
			SampleSum:   proto.Float64(s.Mean * float64(s.Count)),
		}
		for _, q := range s.Quantiles {
			summary.Quantile = append(summary.Quantile, &dto.Quantile{
				Quantile: proto.Float64(q.P),
				Value:    proto.Float64(float64(q.Value)),
			})
		}
		tat.Metric = append(tat.Metric, &dto.Metric{Label: labels, Summary: summary})
		max.Metric = append(max.Metric, &dto.Metric{
			Label: labels,
			Gauge: &dto.Gauge{Value: proto.Float64(float64(s.Max))},
		})
	}
	mfs := []*dto.MetricFamily{tat, max}

	if res != nil && len(res.Ranking) > 0 {
		corr := &dto.MetricFamily{
			Name: proto.String(CorrelationName),
			Help: proto.String("Pearson correlation of a variable's magnitude with the turnaround time of the target boundary."),
			Type: dto.MetricType_GAUGE.Enum(),
		}
		for _, r := range res.Ranking {
			corr.Metric = append(corr.Metric, &dto.Metric{
				Label: []*dto.LabelPair{
					label("session", session),
					label("boundary", strconv.Itoa(res.Target)),
					label("variable", r.Var.Name),
				},
				Gauge: &dto.Gauge{Value: proto.Float64(r.Corr)},
			})
		}
		mfs = append(mfs, corr)
	}
	return mfs
}

// Write writes mfs to w in text exposition format. Families without
// metrics are omitted.
func Write(w io.Writer, mfs []*dto.MetricFamily) error {
	for _, mf := range mfs {
		if len(mf.Metric) == 0 {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
