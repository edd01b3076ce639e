// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package turnaround

import (
	"fmt"
)

// A Series holds the turnaround times of a session. Series[i][j] is
// the time in microseconds loop iteration j took to get from stage i
// to stage i+1. Every boundary has the same length.
type Series [][]int64

// Boundaries returns the number of stage boundaries in s.
func (s Series) Boundaries() int {
	return len(s)
}

// Loops returns the number of loop iterations in s.
func (s Series) Loops() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// An IndexAlignmentError reports stages or loop iterations that
// cannot be lined up with each other.
type IndexAlignmentError struct {
	Stage int // offending stage or boundary
	Msg   string
}

func (e *IndexAlignmentError) Error() string {
	return fmt.Sprintf("stage %d: %s", e.Stage, e.Msg)
}

// Derive computes the turnaround times between every pair of
// consecutive stages in l.
//
// Every stage from 0 through l.MaxStage must be present and have as
// many timestamps as stage 0, otherwise Derive returns an
// *IndexAlignmentError.
func Derive(l *StageLog) (Series, error) {
	base, ok := l.Stages[0]
	if !ok {
		return nil, &IndexAlignmentError{0, "no timestamps for stage 0"}
	}
	loops := len(base)
	for i := 1; i <= l.MaxStage; i++ {
		ts, ok := l.Stages[i]
		if !ok {
			return nil, &IndexAlignmentError{i, fmt.Sprintf("no timestamps (stages run 0 through %d)", l.MaxStage)}
		}
		if len(ts) != loops {
			return nil, &IndexAlignmentError{i, fmt.Sprintf("%d timestamps, stage 0 has %d", len(ts), loops)}
		}
	}

	s := make(Series, l.MaxStage)
	for i := range s {
		from, to := l.Stages[i], l.Stages[i+1]
		deltas := make([]int64, loops)
		for j := range deltas {
			deltas[j] = to[j] - from[j]
		}
		s[i] = deltas
	}
	return s, nil
}
