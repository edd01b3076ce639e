// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package turnaround derives per-stage turnaround times from an
// elapsed-time log and summarizes their distributions.
//
// Analysis proceeds in three steps, each of which returns its result
// rather than retaining it:
//
//  1. An Aggregator groups the timestamps of an elapsed-time log by
//     stage, producing a StageLog.
//  2. Derive subtracts the timestamps of consecutive stages at the
//     same loop iteration, producing a Series with one sequence of
//     deltas per stage boundary.
//  3. Summarize computes nearest-rank percentiles of each boundary.
package turnaround

import (
	"fmt"

	"github.com/pmuanalyzer/tatstat/elapsedfmt"
)

// A StageLog holds the timestamps of a session grouped by stage.
type StageLog struct {
	// Session is the name of the session all records belong to.
	Session string

	// Stages maps a stage index to its timestamps in the order
	// they appeared in the log. For a well-formed log, entry j of
	// every stage belongs to the same loop iteration.
	Stages map[int][]int64

	// MaxStage is the largest stage index observed.
	MaxStage int
}

// A SessionMismatchError reports an elapsed-time log that mixes
// records from more than one session.
type SessionMismatchError struct {
	FileName string
	Line     int
	Want     string // session of the first record
	Got      string
}

func (e *SessionMismatchError) Error() string {
	return fmt.Sprintf("%s:%d: session %q does not match session %q of the first record", e.FileName, e.Line, e.Got, e.Want)
}

// An Aggregator accumulates elapsed-time records into a StageLog.
//
// The zero value is ready to use.
type Aggregator struct {
	session  string
	stages   map[int][]int64
	maxStage int
	n        int
}

// Add adds rec to the aggregation. All records must name the same
// session as the first one added.
func (a *Aggregator) Add(rec *elapsedfmt.Record) error {
	if a.n == 0 {
		a.session = rec.Session
		a.stages = make(map[int][]int64)
	} else if rec.Session != a.session {
		file, line := rec.Pos()
		return &SessionMismatchError{file, line, a.session, rec.Session}
	}
	a.n++
	a.stages[rec.Stage] = append(a.stages[rec.Stage], rec.Timestamp)
	if rec.Stage > a.maxStage {
		a.maxStage = rec.Stage
	}
	return nil
}

// Len returns the number of records added.
func (a *Aggregator) Len() int {
	return a.n
}

// StageLog returns the aggregated timestamps. The Aggregator must
// not be used after calling StageLog.
func (a *Aggregator) StageLog() *StageLog {
	stages := a.stages
	if stages == nil {
		stages = make(map[int][]int64)
	}
	return &StageLog{Session: a.session, Stages: stages, MaxStage: a.maxStage}
}

// Aggregate is a convenience wrapper that adds every record in recs
// to a new Aggregator.
func Aggregate(recs []elapsedfmt.Record) (*StageLog, error) {
	var a Aggregator
	for i := range recs {
		if err := a.Add(&recs[i]); err != nil {
			return nil, err
		}
	}
	return a.StageLog(), nil
}
