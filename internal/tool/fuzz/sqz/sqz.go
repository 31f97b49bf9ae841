// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// +build gofuzz

package sqz

import (
	"bytes"

	"github.com/mseriukov/sqz"
)

// Fuzz treats data as a candidate sqz session: if it decodes, the decoded
// bytes are re-encoded and re-decoded to check that the round trip is
// lossless; if it doesn't, data itself is driven through an encode/decode
// round trip instead, so malformed input still exercises the encoder.
func Fuzz(data []byte) int {
	if got, ok := tryDecode(data); ok {
		testRoundTrip(got)
		return 1
	}
	testRoundTrip(data)
	return 0
}

func tryDecode(data []byte) ([]byte, bool) {
	b, err := sqz.Decompress(data)
	if err != nil {
		return nil, false
	}
	return b, true
}

func testRoundTrip(want []byte) {
	p := sqz.DefaultParams()
	dst := make([]byte, len(want)+1<<20)
	n, err := sqz.Compress(dst, want, p)
	if err != nil {
		panic(err)
	}
	got, err := sqz.Decompress(dst[:n])
	if err != nil {
		panic(err)
	}
	if !bytes.Equal(got, want) {
		panic("mismatching bytes")
	}
}
