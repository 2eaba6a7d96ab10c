// Copyright 2026 The grplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grplot

import (
	"image/color"

	"github.com/pkg/errors"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/vg/draw"
)

// Plot draws the parsed data on the provided canvas as a line plot with a
// grid. The title is rendered verbatim, extension included.
func Plot(dc draw.Canvas, f File, title string) error {
	p := hplot.New()
	p.Title.Text = title
	p.X.Label.Text = f.Labels.X
	p.Y.Label.Text = f.Labels.Y

	line, err := hplot.NewLine(hplot.ZipXY(f.X, f.Y))
	if err != nil {
		return errors.Wrap(err, "grplot: could not create line plot")
	}
	line.LineStyle.Color = color.RGBA{B: 255, A: 255}

	p.Add(line, hplot.NewGrid())
	p.Draw(dc)

	return nil
}
