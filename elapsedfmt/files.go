// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package elapsedfmt

import (
	"os"
)

// ReadElapsed reads every record of the elapsed-time log at path. The
// file is closed before ReadElapsed returns.
func ReadElapsed(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var recs []Record
	r := NewReader(f, path)
	for r.Scan() {
		recs = append(recs, *r.Record())
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

// ReadVars reads every sample of the variables log at path that has
// at least one component. noData is the number of lines skipped for
// having none. The file is closed before ReadVars returns.
func ReadVars(path string) (samples []Sample, noData int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	r := NewVarReader(f, path)
	for r.Scan() {
		samples = append(samples, *r.Sample())
	}
	if err := r.Err(); err != nil {
		return nil, 0, err
	}
	return samples, r.NoData(), nil
}
