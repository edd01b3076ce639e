// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package elapsedfmt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// A Sample is one line of a variables log.
type Sample struct {
	Session string
	Loop    int
	Name    string

	// Components are the numeric values of the measurement. A
	// scalar variable has exactly one component.
	Components []float64

	fileName string
	line     int
}

// Pos returns the file name and line number of s.
func (s *Sample) Pos() (fileName string, line int) {
	return s.fileName, s.line
}

// A VarReader reads a variables log.
//
// Lines naming a variable but carrying no components have nothing to
// correlate. VarReader skips them and counts them in NoData.
type VarReader struct {
	s        *bufio.Scanner
	fileName string
	line     int
	err      error
	noData   int

	sample Sample
}

// NewVarReader constructs a reader to parse a variables log from r.
// fileName is used in error messages.
func NewVarReader(r io.Reader, fileName string) *VarReader {
	if fileName == "" {
		fileName = "<unknown>"
	}
	return &VarReader{s: newScanner(r), fileName: fileName}
}

func (r *VarReader) newError(field, msg string) *MalformedRecordError {
	return &MalformedRecordError{r.fileName, r.line, field, msg}
}

// Scan advances the reader to the next sample that has at least one
// component. It has the same error behavior as Reader.Scan.
func (r *VarReader) Scan() bool {
	if r.err != nil {
		return false
	}
	for r.s.Scan() {
		r.line++
		fields := strings.Fields(r.s.Text())
		if len(fields) == 0 {
			continue
		}
		ok, err := r.parseLine(fields)
		if err != nil {
			r.err = err
			return false
		}
		if !ok {
			r.noData++
			continue
		}
		return true
	}
	if err := r.s.Err(); err != nil {
		r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.line+1, err)
	}
	return false
}

func (r *VarReader) parseLine(fields []string) (bool, error) {
	if len(fields) < 3 {
		return false, r.newError("", fmt.Sprintf("expected at least 3 fields, got %d", len(fields)))
	}
	loop, err := strconv.Atoi(fields[1])
	if err != nil {
		return false, r.newError("loop index", numError(err))
	}
	if len(fields) == 3 {
		return false, nil
	}
	comps := make([]float64, 0, len(fields)-3)
	for i, f := range fields[3:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return false, r.newError(fmt.Sprintf("component %d", i), numError(err))
		}
		comps = append(comps, v)
	}
	r.sample = Sample{
		Session:    fields[0],
		Loop:       loop,
		Name:       fields[2],
		Components: comps,
		fileName:   r.fileName,
		line:       r.line,
	}
	return true, nil
}

// Sample returns the sample read by the most recent call to Scan.
// Its Components slice is not reused by later calls.
func (r *VarReader) Sample() *Sample {
	return &r.sample
}

// NoData returns the number of lines skipped so far because they had
// no components.
func (r *VarReader) NoData() int {
	return r.noData
}

// Err returns the first error encountered by the VarReader, if any.
func (r *VarReader) Err() error {
	return r.err
}
