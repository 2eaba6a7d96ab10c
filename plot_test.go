// Copyright 2026 The grplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grplot

import (
	"bytes"
	"strings"
	"testing"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

func TestPlot(t *testing.T) {
	const raw = "Angle Intensity\n" +
		"10 123\n" +
		"20 150\n" +
		"30 180\n" +
		"40 140\n"

	f, err := Parse(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("could not parse input: %+v", err)
	}

	c := vgimg.PngCanvas{Canvas: vgimg.New(6*vg.Inch, 4*vg.Inch)}
	err = Plot(draw.New(c), f, "Ni.gr")
	if err != nil {
		t.Fatalf("could not plot data: %+v", err)
	}

	out := new(bytes.Buffer)
	_, err = c.WriteTo(out)
	if err != nil {
		t.Fatalf("could not write plot: %+v", err)
	}
	if out.Len() == 0 {
		t.Fatalf("empty plot image")
	}
}
