// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package elapsedfmt reads the log formats written by pipeline
// instrumentation: the elapsed-time log, which records a timestamp
// each time a loop iteration passes a stage of the pipeline, and the
// variables log, which records auxiliary measurements taken during a
// loop iteration.
//
// An elapsed-time log line has exactly five whitespace-separated
// fields:
//
//	<session> <stage index> <loop index> <timestamp µs> <data>
//
// A variables log line has at least three:
//
//	<session> <loop index> <variable> [<component> ...]
package elapsedfmt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// maxLineSize is the longest line either reader accepts. A variables
// line holds one field per vector component, so lines can be far
// longer than bufio.Scanner's default token limit.
var maxLineSize = 256 << 20 // var for testing

func newScanner(r io.Reader) *bufio.Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, min(64<<10, maxLineSize)), maxLineSize)
	return s
}

// A Record is one line of an elapsed-time log.
type Record struct {
	// Session is the name of the instrumented session.
	Session string

	// Stage is the index of the pipeline stage this timestamp
	// was taken at. Stages are numbered from 0.
	Stage int

	// Loop is the loop iteration recorded by the instrumentation.
	Loop int

	// Timestamp is the wall-clock time in microseconds.
	Timestamp int64

	// Data is the opaque user data field.
	Data string

	fileName string
	line     int
}

// Pos returns the file name and line number of r.
func (r *Record) Pos() (fileName string, line int) {
	return r.fileName, r.line
}

// A MalformedRecordError reports a log line that does not have the
// expected fields.
type MalformedRecordError struct {
	FileName string
	Line     int
	Field    string // name of the offending field, or "" for the whole line
	Msg      string
}

func (e *MalformedRecordError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

func (e *MalformedRecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s:%d: %s: %s", e.FileName, e.Line, e.Field, e.Msg)
}

// A Reader reads an elapsed-time log.
//
// Its API is modeled on bufio.Scanner. The Record returned by Record
// is owned by the Reader and is overwritten by the next call to
// Scan; a caller should copy anything it needs to retain.
type Reader struct {
	s        *bufio.Scanner
	fileName string
	line     int
	err      error

	rec Record
}

// NewReader constructs a reader to parse an elapsed-time log from r.
// fileName is used in error messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string) *Reader {
	if fileName == "" {
		fileName = "<unknown>"
	}
	return &Reader{s: newScanner(r), fileName: fileName}
}

func (r *Reader) newError(field, msg string) *MalformedRecordError {
	return &MalformedRecordError{r.fileName, r.line, field, msg}
}

// Scan advances the reader to the next record and reports whether a
// record was read. Blank lines are skipped. If Scan reaches EOF, an
// I/O error occurs, or a line is malformed, it returns false, in
// which case the caller should use the Err method to check for
// errors. A malformed line stops the reader.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	for r.s.Scan() {
		r.line++
		fields := strings.Fields(r.s.Text())
		if len(fields) == 0 {
			continue
		}
		if err := r.parseLine(fields); err != nil {
			r.err = err
			return false
		}
		return true
	}
	if err := r.s.Err(); err != nil {
		// The failing line was never counted.
		r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.line+1, err)
	}
	return false
}

func (r *Reader) parseLine(fields []string) error {
	if len(fields) != 5 {
		return r.newError("", fmt.Sprintf("expected 5 fields, got %d", len(fields)))
	}
	stage, err := strconv.Atoi(fields[1])
	if err != nil {
		return r.newError("stage index", numError(err))
	}
	if stage < 0 {
		return r.newError("stage index", fmt.Sprintf("negative stage %d", stage))
	}
	loop, err := strconv.Atoi(fields[2])
	if err != nil {
		return r.newError("loop index", numError(err))
	}
	ts, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return r.newError("timestamp", numError(err))
	}
	r.rec = Record{
		Session:   fields[0],
		Stage:     stage,
		Loop:      loop,
		Timestamp: ts,
		Data:      fields[4],
		fileName:  r.fileName,
		line:      r.line,
	}
	return nil
}

// Record returns the record read by the most recent call to Scan.
func (r *Reader) Record() *Record {
	return &r.rec
}

// Err returns the first error encountered by the Reader, if any.
func (r *Reader) Err() error {
	return r.err
}

// numError strips the function name and input from a strconv error,
// since the caller already reports the field and position.
func numError(err error) string {
	if ne, ok := err.(*strconv.NumError); ok {
		return fmt.Sprintf("parsing %q: %s", ne.Num, ne.Err)
	}
	return err.Error()
}
