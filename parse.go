// Copyright 2026 The grplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package grplot reads two-column numeric data files with free-form text
// headers and plots them.
package grplot

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Default axis labels, used when no usable label line precedes the data.
const (
	DefaultXLabel = "X"
	DefaultYLabel = "Y"
)

// ErrNoData is returned when no line of the input holds two numeric columns.
var ErrNoData = errors.New("grplot: no numeric data found")

// Labels holds the names of the two plotted axes.
type Labels struct {
	X string
	Y string
}

// File is the parsed content of a two-column data file.
// X and Y always have the same length.
type File struct {
	Labels Labels
	X      []float64
	Y      []float64

	// Skipped counts non-blank rows after the start of the data
	// that did not parse as two numbers.
	Skipped int
}

// Parse reads a stream of the form:
//
//	zero or more header lines
//	one or more data lines (two whitespace-separated numeric columns)
//
// The last header line before the data provides the axis labels when it
// splits into at least two tokens; otherwise the defaults apply. Once the
// first data line is seen, every following line is treated as a data row:
// rows that do not parse are skipped, blank lines silently so.
//
// Parse returns ErrNoData when no line classifies as data.
func Parse(r io.Reader) (File, error) {
	var (
		f      File
		header string // last header line seen before the data
		indata bool
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		x, y, ok := dataRow(line)
		switch {
		case ok:
			indata = true
			f.X = append(f.X, x)
			f.Y = append(f.Y, y)
		case indata:
			if strings.TrimSpace(line) != "" {
				f.Skipped++
			}
		default:
			header = line
		}
	}
	if err := sc.Err(); err != nil {
		return File{}, errors.Wrap(err, "grplot: could not scan input")
	}

	if !indata {
		return File{}, ErrNoData
	}

	f.Labels = labelsFrom(header)
	return f, nil
}

// Load reads and parses the named file.
func Load(path string) (File, error) {
	r, err := os.Open(path)
	if err != nil {
		return File{}, errors.Wrapf(err, "grplot: could not open %q", path)
	}
	defer r.Close()

	f, err := Parse(r)
	if err != nil {
		return File{}, errors.Wrapf(err, "grplot: could not parse %q", path)
	}
	return f, nil
}

// dataRow reports whether line is a data row, i.e. whether its first two
// whitespace-separated tokens both parse as numbers, and returns them.
func dataRow(line string) (x, y float64, ok bool) {
	toks := strings.Fields(line)
	if len(toks) < 2 {
		return 0, 0, false
	}
	x, err := strconv.ParseFloat(toks[0], 64)
	if err != nil {
		return 0, 0, false
	}
	y, err = strconv.ParseFloat(toks[1], 64)
	if err != nil {
		return 0, 0, false
	}
	return x, y, true
}

// labelsFrom extracts axis labels from the last header line.
// A comment marker is not a label, so lines starting with '#' and lines
// with fewer than two tokens fall back to the defaults.
func labelsFrom(line string) Labels {
	toks := strings.Fields(line)
	if len(toks) < 2 || strings.HasPrefix(toks[0], "#") {
		return Labels{X: DefaultXLabel, Y: DefaultYLabel}
	}
	return Labels{X: toks[0], Y: toks[1]}
}
