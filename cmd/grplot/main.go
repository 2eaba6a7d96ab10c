// Copyright 2026 The grplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command grplot plots a two-column numeric data file, taking the axis
// labels from the last header line before the data and the title from the
// file name.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/lsst-lpc/grplot"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

func main() {
	log.SetPrefix("grplot: ")
	log.SetFlags(0)

	oname := flag.String("o", "", "path to the output plot file (default: input file with a .png extension)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: grplot [options] file.dat [file.dat ...]

ex:

 $> grplot Ni.gr
 grplot: file: Ni.gr
 grplot: data: 1500 points, x=[0 30]
 grplot: plot: Ni.png

options:
`,
		)
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	if *oname != "" && flag.NArg() > 1 {
		log.Fatalf("-o is only valid with a single input file")
	}

	var grp errgroup.Group
	for _, fname := range flag.Args() {
		fname := fname
		grp.Go(func() error {
			return process(fname, *oname)
		})
	}
	if err := grp.Wait(); err != nil {
		log.Fatal(err)
	}
}

func process(fname, oname string) error {
	log.Printf("file: %v", fname)

	f, err := grplot.Load(fname)
	if err != nil {
		return err
	}

	log.Printf("data: %d points, x=[%v %v]", len(f.X), floats.Min(f.X), floats.Max(f.X))
	if f.Skipped > 0 {
		log.Printf("warning: skipped %d malformed data row(s) in %q", f.Skipped, fname)
	}

	const (
		width  = 6 * vg.Inch
		height = 4 * vg.Inch
	)

	c := vgimg.PngCanvas{Canvas: vgimg.New(width, height)}
	err = grplot.Plot(draw.New(c), f, filepath.Base(fname))
	if err != nil {
		return errors.Wrapf(err, "could not plot %q", fname)
	}

	if oname == "" {
		base := filepath.Base(fname)
		oname = base[:len(base)-len(filepath.Ext(base))] + ".png"
	}

	o, err := os.Create(oname)
	if err != nil {
		return errors.Wrapf(err, "could not create output file %q", oname)
	}
	defer o.Close()
	_, err = c.WriteTo(o)
	if err != nil {
		return errors.Wrapf(err, "could not write output plot %q", oname)
	}
	err = o.Close()
	if err != nil {
		return errors.Wrapf(err, "could not close output file %q", oname)
	}

	log.Printf("plot: %v", oname)
	return nil
}
