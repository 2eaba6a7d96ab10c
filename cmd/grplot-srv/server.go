// Copyright 2026 The grplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"crypto/md5"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	uuid "github.com/hashicorp/go-uuid"
	"github.com/lsst-lpc/grplot"
	"github.com/pkg/errors"
	"go-hep.org/x/hep/csvutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const cookieName = "GRPLOT_SRV"

type server struct {
	dir  string
	quit chan int

	mu      sync.RWMutex
	cookies map[string]*http.Cookie
	ids     map[string]map[string]struct{}
}

func newServer(addr, dir string, mux *http.ServeMux) *server {
	app := &server{
		dir:     dir,
		quit:    make(chan int),
		cookies: make(map[string]*http.Cookie),
		ids:     make(map[string]map[string]struct{}),
	}
	go app.run()

	mux.Handle("/", app.wrap(app.rootHandle))
	mux.Handle("/plot", app.wrap(app.plotHandle))
	mux.Handle("/dl", app.wrap(app.dlHandle))
	mux.Handle("/rm", app.wrap(app.rmHandle))
	return app
}

func (srv *server) run() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	srv.gc()
	for {
		select {
		case <-ticker.C:
			srv.gc()
		case <-srv.quit:
			return
		}
	}
}

func (srv *server) Shutdown() {
	close(srv.quit)
}

// gc drops expired sessions and the result directories they own.
func (srv *server) gc() {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	now := time.Now()
	for name, cookie := range srv.cookies {
		if !now.After(cookie.Expires) {
			continue
		}
		delete(srv.cookies, name)
		cookie.MaxAge = -1
		for id := range srv.ids[cookie.Value] {
			os.RemoveAll(filepath.Join(srv.dir, "id", id))
		}
		delete(srv.ids, cookie.Value)
	}
}

func (srv *server) setCookie(w http.ResponseWriter, r *http.Request) error {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	cookie, err := r.Cookie(cookieName)
	if err != nil && err != http.ErrNoCookie {
		return err
	}
	if cookie != nil {
		if stored, ok := srv.cookies[cookie.Value]; ok && !time.Now().After(stored.Expires) {
			return nil
		}
	}
	v, err := uuid.GenerateUUID()
	if err != nil {
		return errors.Wrap(err, "could not generate session ID")
	}
	cookie = &http.Cookie{
		Name:    cookieName,
		Value:   v,
		Expires: time.Now().Add(24 * time.Hour),
	}
	srv.cookies[cookie.Value] = cookie
	srv.ids[cookie.Value] = make(map[string]struct{})
	http.SetCookie(w, cookie)
	return nil
}

func (srv *server) wrap(fn func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := srv.setCookie(w, r)
		if err != nil {
			log.Printf("error retrieving cookie: %v\n", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		if err := fn(w, r); err != nil {
			log.Printf("error %q: %v\n", r.URL.Path, err.Error())
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func (srv *server) rootHandle(w http.ResponseWriter, r *http.Request) error {
	if r.Method != http.MethodGet {
		return errors.Errorf("invalid request %q for /", r.Method)
	}

	crutime := time.Now().Unix()
	h := md5.New()
	io.WriteString(h, strconv.FormatInt(crutime, 10))
	token := fmt.Sprintf("%x", h.Sum(nil))

	t, err := template.New("upload").Parse(page)
	if err != nil {
		return err
	}

	return t.Execute(w, struct {
		Token string
	}{token})
}

func (srv *server) plotHandle(w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return errors.Wrap(err, "could not retrieve cookie")
	}

	err = r.ParseMultipartForm(500 << 20)
	if err != nil {
		return errors.Wrap(err, "could not parse multipart form")
	}

	f, handler, err := r.FormFile("input-file")
	if err != nil {
		return errors.Wrap(err, "could not access input file")
	}
	defer f.Close()
	fname := handler.Filename
	if strings.HasPrefix(fname, `C:\fakepath\`) {
		fname = fname[len(`C:\fakepath\`):]
	}
	log.Printf("fname: %v", fname)

	data, err := grplot.Parse(f)
	if err != nil {
		return errors.Wrapf(err, "could not parse input file %q", fname)
	}
	log.Printf("data: %d points (%d row(s) skipped)", len(data.X), data.Skipped)

	const (
		width  = 6 * vg.Inch
		height = 4 * vg.Inch
	)

	c := vgimg.PngCanvas{Canvas: vgimg.New(width, height)}
	err = grplot.Plot(draw.New(c), data, fname)
	if err != nil {
		return errors.Wrap(err, "could not create in-memory plot")
	}

	img := new(bytes.Buffer)
	_, err = c.WriteTo(img)
	if err != nil {
		return errors.Wrap(err, "could not create image plot")
	}

	id := r.PostFormValue("id")
	if id == "" {
		return errors.New("invalid form ID")
	}

	srv.mu.Lock()
	if srv.ids[cookie.Value] == nil {
		srv.ids[cookie.Value] = make(map[string]struct{})
	}
	srv.ids[cookie.Value][id] = struct{}{}
	srv.mu.Unlock()

	dir := filepath.Join(srv.dir, "id", id)
	err = srv.save(dir, fname, img.Bytes(), data)
	if err != nil {
		return errors.Wrapf(err, "could not save results for %q", fname)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	err = json.NewEncoder(w).Encode(struct {
		Image string `json:"data"`
	}{
		Image: base64.StdEncoding.EncodeToString(img.Bytes()),
	})
	if err != nil {
		return errors.Wrap(err, "could not encode to json")
	}

	return nil
}

func (srv *server) dlHandle(w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return errors.Wrap(err, "could not retrieve cookie")
	}

	err = r.ParseForm()
	if err != nil {
		return errors.Wrap(err, "could not parse form")
	}

	id := r.Form.Get("id")
	if id == "" {
		return errors.New("invalid ID")
	}

	srv.mu.RLock()
	defer srv.mu.RUnlock()
	if _, ok := srv.ids[cookie.Value][id]; !ok {
		return errors.Errorf("unknown ID %q", id)
	}

	dir := filepath.Join(srv.dir, "id", id)
	matches, err := filepath.Glob(filepath.Join(dir, "*.parsed.txt"))
	if err != nil {
		return errors.Wrapf(err, "could not find parsed data file for id %q", id)
	}
	if len(matches) != 1 {
		return errors.Errorf("invalid number of parsed data file(s) for id %q: got=%d, want=1", id, len(matches))
	}

	fname := matches[0]
	f, err := os.Open(fname)
	if err != nil {
		return errors.Wrapf(err, "could not open parsed data file for id %q", id)
	}
	defer f.Close()

	w.Header().Set("Content-Description", "File Transfer")
	w.Header().Set("Content-Transfer-Encoding", "binary")
	w.Header().Set("Content-Disposition", "attachment; filename="+filepath.Base(fname))
	w.Header().Set("Content-Type", "application/force-download")

	_, err = io.Copy(w, f)
	if err != nil {
		return errors.Wrapf(err, "could not copy parsed data file for id %q", id)
	}

	return nil
}

func (srv *server) rmHandle(w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return errors.Wrap(err, "could not retrieve cookie")
	}

	err = r.ParseMultipartForm(500 << 20)
	if err != nil {
		return errors.Wrap(err, "could not parse multipart form")
	}

	id := r.PostFormValue("id")
	if id == "" {
		return errors.New("invalid ID")
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	if _, ok := srv.ids[cookie.Value][id]; !ok {
		return errors.Errorf("unknown ID %q", id)
	}
	delete(srv.ids[cookie.Value], id)

	dir := filepath.Join(srv.dir, "id", id)
	err = os.RemoveAll(dir)
	if err != nil {
		return errors.Wrapf(err, "could not remove output results directory %q", id)
	}

	return nil
}

// save stores the rendered plot and the normalized two-column data under the
// result directory for a given upload.
func (srv *server) save(dir, fname string, img []byte, data grplot.File) error {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return errors.Wrapf(err, "could not create output directory %q", dir)
	}

	bname := fname[:len(fname)-len(filepath.Ext(fname))]
	err = ioutil.WriteFile(filepath.Join(dir, bname+".png"), img, 0644)
	if err != nil {
		return errors.Wrapf(err, "could not save plot %q", bname+".png")
	}

	oname := filepath.Join(dir, bname+".parsed.txt")
	tbl, err := csvutil.Create(oname)
	if err != nil {
		return errors.Wrapf(err, "could not create output data file %q", oname)
	}
	defer tbl.Close()

	tbl.Writer.Comma = '\t'

	for i := range data.X {
		err = tbl.WriteRow(data.X[i], data.Y[i])
		if err != nil {
			return errors.Wrapf(err, "could not write row %d of output data file %q", i, oname)
		}
	}

	err = tbl.Close()
	if err != nil {
		return errors.Wrapf(err, "could not close output data file %q", oname)
	}

	return nil
}

const page = `<html>
<head>
	<title>grplot</title>
	<meta name="viewport" content="width=device-width, initial-scale=1">
	<script src="https://ajax.googleapis.com/ajax/libs/jquery/3.1.1/jquery.min.js"></script>
	<style>
	body {
		font-family: sans-serif;
		margin: 2em;
	}
	input[type=submit] {
		background-color: #0091EA;
		color: white;
		padding: 5px 15px;
		border: 0 none;
		cursor: pointer;
		border-radius: 5px;
	}
	.plot {
		margin-top: 1em;
	}
	</style>

<script type="text/javascript">
	"use strict"

	function uuidv4() {
		return 'xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx'.replace(/[xy]/g, function(c) {
			var r = Math.random() * 16 | 0, v = c == 'x' ? r : (r & 0x3 | 0x8);
			return v.toString(16);
		});
	}

	function run() {
		var id = uuidv4();
		var file = $("#app-form input")[0].files[0];
		var uri = $("#input-file").val();

		var data = new FormData();
		data.append("input-file", file, uri);
		data.append("id", id);

		$.ajax({
			url: "/plot",
			method: "POST",
			data: data,
			processData: false,
			contentType: false,
			success: function(reply, status) {
				var div = $("<div class='plot' id='" + id + "'></div>");
				div.append("<img src='data:image/png;base64," + JSON.parse(reply).data + "'/>");
				div.append("<br><a href='/dl?id=" + id + "'>download parsed data</a>");
				$("#plots").prepend(div);
			},
			error: function(e) {
				alert("plotting failed: " + e.responseText);
			}
		});
	};
</script>
</head>

<body>
	<h2>grplot</h2>
	<p>Upload a two-column data file. The last header line before the
	numeric data provides the axis labels.</p>
	<form id="app-form" enctype="multipart/form-data" action="/plot" method="post" onsubmit="run(); return false;">
		<input type="file" name="input-file" id="input-file">
		<input type="hidden" name="token" value="{{.Token}}"/>
		<input type="submit" value="Plot">
	</form>
	<div id="plots"></div>
</body>
</html>
`
