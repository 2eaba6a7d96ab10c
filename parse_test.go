// Copyright 2026 The grplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grplot

import (
	"reflect"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestParse(t *testing.T) {
	for _, tc := range []struct {
		name string
		raw  string
		want File
	}{
		{
			name: "labels-from-header",
			raw: "Angle Intensity\n" +
				"10 123\n" +
				"20 150\n",
			want: File{
				Labels: Labels{X: "Angle", Y: "Intensity"},
				X:      []float64{10, 20},
				Y:      []float64{123, 150},
			},
		},
		{
			name: "comment-header-falls-back-to-defaults",
			raw: "# Some meta data\n" +
				"10  123\n" +
				"20  150\n" +
				"30  180\n" +
				"40  140\n",
			want: File{
				Labels: Labels{X: "X", Y: "Y"},
				X:      []float64{10, 20, 30, 40},
				Y:      []float64{123, 150, 180, 140},
			},
		},
		{
			name: "no-header",
			raw: "1 2\n" +
				"3 4\n",
			want: File{
				Labels: Labels{X: "X", Y: "Y"},
				X:      []float64{1, 3},
				Y:      []float64{2, 4},
			},
		},
		{
			name: "only-last-header-matters",
			raw: "generated by beamline 11-ID\n" +
				"sample: Ni powder\n" +
				"r G\n" +
				"0.01 -0.2\n" +
				"0.02 0.15\n",
			want: File{
				Labels: Labels{X: "r", Y: "G"},
				X:      []float64{0.01, 0.02},
				Y:      []float64{-0.2, 0.15},
			},
		},
		{
			name: "single-token-header-falls-back-to-defaults",
			raw: "metadata\n" +
				"1 2\n",
			want: File{
				Labels: Labels{X: "X", Y: "Y"},
				X:      []float64{1},
				Y:      []float64{2},
			},
		},
		{
			name: "trailing-blank-lines-skipped",
			raw: "t v\n" +
				"1 2\n" +
				"3 4\n" +
				"\n" +
				"   \n",
			want: File{
				Labels: Labels{X: "t", Y: "v"},
				X:      []float64{1, 3},
				Y:      []float64{2, 4},
			},
		},
		{
			name: "footer-comment-skipped-not-reclassified",
			raw: "t v\n" +
				"1 2\n" +
				"end of run\n" +
				"3 4\n",
			want: File{
				Labels:  Labels{X: "t", Y: "v"},
				X:       []float64{1, 3},
				Y:       []float64{2, 4},
				Skipped: 1,
			},
		},
		{
			name: "extra-columns-use-first-two",
			raw: "q S sigma\n" +
				"1 2 0.1\n" +
				"3 4 0.2\n",
			want: File{
				Labels: Labels{X: "q", Y: "S"},
				X:      []float64{1, 3},
				Y:      []float64{2, 4},
			},
		},
		{
			name: "tabs-and-spaces",
			raw: "r\tG\n" +
				"1\t 2\n" +
				"3  \t4\n",
			want: File{
				Labels: Labels{X: "r", Y: "G"},
				X:      []float64{1, 3},
				Y:      []float64{2, 4},
			},
		},
		{
			name: "scientific-notation",
			raw: "E counts\n" +
				"1e-3 2.5e2\n" +
				"+2E-3 -1.5E2\n",
			want: File{
				Labels: Labels{X: "E", Y: "counts"},
				X:      []float64{0.001, 0.002},
				Y:      []float64{250, -150},
			},
		},
		{
			name: "header-with-one-numeric-token-is-not-data",
			raw: "run 42\n" +
				"time signal\n" +
				"1 2\n",
			want: File{
				Labels: Labels{X: "time", Y: "signal"},
				X:      []float64{1},
				Y:      []float64{2},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f, err := Parse(strings.NewReader(tc.raw))
			if err != nil {
				t.Fatalf("could not parse input: %+v", err)
			}
			if !reflect.DeepEqual(f, tc.want) {
				t.Fatalf("invalid parse:\ngot = %#v\nwant= %#v", f, tc.want)
			}
		})
	}
}

func TestParseNoData(t *testing.T) {
	for _, tc := range []struct {
		name string
		raw  string
	}{
		{name: "empty-file", raw: ""},
		{name: "only-blank-lines", raw: "\n\n\n"},
		{
			name: "only-headers",
			raw: "# Some meta data\n" +
				"Angle Intensity\n",
		},
		{
			name: "single-column",
			raw: "v\n" +
				"1\n" +
				"2\n",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.raw))
			if errors.Cause(err) != ErrNoData {
				t.Fatalf("invalid error: got=%v, want=%v", err, ErrNoData)
			}
		})
	}
}

func TestParseIdempotent(t *testing.T) {
	const raw = "Angle Intensity\n" +
		"10 123\n" +
		"20 150\n" +
		"oops\n" +
		"30 180\n"

	f1, err := Parse(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("could not parse input: %+v", err)
	}
	f2, err := Parse(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("could not parse input: %+v", err)
	}
	if !reflect.DeepEqual(f1, f2) {
		t.Fatalf("parse is not idempotent:\nfirst = %#v\nsecond= %#v", f1, f2)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/does-not-exist.dat")
	if err == nil {
		t.Fatalf("expected an error for a missing file")
	}
	if !strings.Contains(err.Error(), "does-not-exist.dat") {
		t.Fatalf("error does not name the path: %v", err)
	}
}
