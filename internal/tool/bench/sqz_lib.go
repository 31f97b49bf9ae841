// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bench

import (
	"bytes"
	"io"
	"io/ioutil"

	"github.com/mseriukov/sqz"
)

func init() {
	RegisterEncoder(FormatGeneral, "sqz",
		func(w io.Writer, lvl int) io.WriteCloser {
			return &sqzWriter{w: w, p: levelToParams(lvl)}
		})
	RegisterDecoder(FormatGeneral, "sqz",
		func(r io.Reader) io.ReadCloser {
			return &sqzReader{r: r}
		})
}

// levelToParams maps a 1..9 benchmark level onto a Params triple, scaling
// the window size: higher levels search a larger window at the cost of
// encode time, the same trade-off a "level" knob expresses for flate or xz.
func levelToParams(lvl int) sqz.Params {
	if lvl < 1 {
		lvl = 1
	}
	if lvl > 9 {
		lvl = 9
	}
	span := sqz.MaxWinBits - sqz.MinWinBits
	winBits := sqz.MinWinBits + (lvl-1)*span/8
	return sqz.Params{WinBits: uint8(winBits), MapBits: 12, LenBits: 8}
}

// sqzWriter buffers the whole input, since sqz.Compress operates on whole
// buffers rather than a streaming io.Writer, and emits the compressed
// session on Close.
type sqzWriter struct {
	w   io.Writer
	p   sqz.Params
	buf bytes.Buffer
}

func (e *sqzWriter) Write(p []byte) (int, error) { return e.buf.Write(p) }

func (e *sqzWriter) Close() error {
	src := e.buf.Bytes()
	dst := make([]byte, len(src)+1<<20)
	n, err := sqz.Compress(dst, src, e.p)
	if err != nil {
		return err
	}
	_, err = e.w.Write(dst[:n])
	return err
}

// sqzReader reads the whole compressed session on the first Read call and
// serves the decompressed bytes out of an in-memory buffer thereafter.
type sqzReader struct {
	r    io.Reader
	buf  *bytes.Reader
	init bool
}

func (d *sqzReader) Read(p []byte) (int, error) {
	if !d.init {
		raw, err := ioutil.ReadAll(d.r)
		if err != nil {
			return 0, err
		}
		out, err := sqz.Decompress(raw)
		if err != nil {
			return 0, err
		}
		d.buf = bytes.NewReader(out)
		d.init = true
	}
	return d.buf.Read(p)
}

func (d *sqzReader) Close() error { return nil }
