// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bench

import (
	"io"
	"io/ioutil"

	"github.com/klauspost/compress/flate"
	"github.com/ulikunitz/xz"
)

func init() {
	RegisterEncoder(FormatGeneral, "flate",
		func(w io.Writer, lvl int) io.WriteCloser {
			if lvl < flate.BestSpeed {
				lvl = flate.BestSpeed
			}
			if lvl > flate.BestCompression {
				lvl = flate.BestCompression
			}
			zw, err := flate.NewWriter(w, lvl)
			if err != nil {
				panic(err)
			}
			return zw
		})
	RegisterDecoder(FormatGeneral, "flate",
		func(r io.Reader) io.ReadCloser {
			return flate.NewReader(r)
		})

	// xz has no notion of a numeric compression level; the level argument is
	// ignored and every run uses the package default.
	RegisterEncoder(FormatGeneral, "xz",
		func(w io.Writer, lvl int) io.WriteCloser {
			zw, err := xz.NewWriter(w)
			if err != nil {
				panic(err)
			}
			return zw
		})
	RegisterDecoder(FormatGeneral, "xz",
		func(r io.Reader) io.ReadCloser {
			zr, err := xz.NewReader(r)
			if err != nil {
				panic(err)
			}
			return ioutil.NopCloser(zr)
		})
}
