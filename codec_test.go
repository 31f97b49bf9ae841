// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package sqz

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mseriukov/sqz/internal/bitio"
	"github.com/mseriukov/sqz/internal/testutil"
)

func paramSet() []Params {
	return []Params{
		DefaultParams(),
		{WinBits: MinWinBits, MapBits: MinMapBits, LenBits: MinLenBits},
		{WinBits: MaxWinBits, MapBits: MaxMapBits, LenBits: MaxLenBits},
		{WinBits: 12, MapBits: 10, LenBits: 6},
	}
}

func roundTrip(t *testing.T, p Params, src []byte) []byte {
	t.Helper()
	dst := make([]byte, len(src)+1<<20) // generous upper bound; never contractually bounded
	n, err := Compress(dst, src, p)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	got, err := Decompress(dst[:n])
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(got, src) {
		t.Fatalf("round-trip mismatch: got %d bytes, want %d bytes", len(got), len(src))
	}
	return dst[:n]
}

func TestRoundTripAllZero(t *testing.T) {
	src := make([]byte, 4<<10)
	for _, p := range paramSet() {
		roundTrip(t, p, src)
	}
}

func TestRoundTripRepeatingPattern(t *testing.T) {
	pattern := []byte{0x01, 0x02, 0x03, 0x04}
	src := bytes.Repeat(pattern, 4<<10/len(pattern))
	for _, p := range paramSet() {
		roundTrip(t, p, src)
	}
}

func TestRoundTripHelloWorld(t *testing.T) {
	src := []byte("Hello World, this is a test of the sqz codec!!")
	for _, p := range paramSet() {
		roundTrip(t, p, src)
	}
}

func TestRoundTripHighBitBinary(t *testing.T) {
	rnd := testutil.NewRand(7)
	src := rnd.Bytes(8 << 10)
	for i := range src {
		src[i] |= 0x80
	}
	for _, p := range paramSet() {
		roundTrip(t, p, src)
	}
}

func TestRoundTripEmpty(t *testing.T) {
	for _, p := range paramSet() {
		roundTrip(t, p, nil)
	}
}

func TestRoundTripRandom(t *testing.T) {
	rnd := testutil.NewRand(99)
	for _, p := range paramSet() {
		for _, n := range []int{1, 17, 512, 1 << 16} {
			roundTrip(t, p, rnd.Bytes(n))
		}
	}
}

func TestHeaderEchoesParams(t *testing.T) {
	p := Params{WinBits: 14, MapBits: 11, LenBits: 7}
	src := []byte("parameters must round-trip through the header")
	out := roundTrip(t, p, src)

	br := bitio.NewMemReader(out)
	byteCount, got, err := readHeader(br)
	if err != nil {
		t.Fatalf("readHeader: %v", err)
	}
	if diff := cmp.Diff(p, got); diff != "" {
		t.Fatalf("header params mismatch (-want +got):\n%s", diff)
	}
	if int(byteCount) != len(src) {
		t.Fatalf("header byte count = %d, want %d", byteCount, len(src))
	}
}

func TestDecompressTruncatedBody(t *testing.T) {
	p := DefaultParams()
	src := bytes.Repeat([]byte("truncate me please"), 64)
	dst := make([]byte, len(src)+1<<20)
	n, err := Compress(dst, src, p)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	// Chop off everything past the header plus a few body bytes.
	cut := int(headerBits/8) + 2
	if cut >= n {
		t.Fatalf("test fixture too small to truncate meaningfully")
	}
	if _, err := Decompress(dst[:cut]); err == nil {
		t.Fatalf("Decompress on truncated body: got nil error, want one")
	}
}

func TestDecompressBadHeader(t *testing.T) {
	// win_bits of 255 is outside [MinWinBits, MaxWinBits].
	raw := make([]byte, headerBits/8)
	raw[8] = 255
	if _, err := Decompress(raw); err == nil {
		t.Fatalf("Decompress with bad win_bits: got nil error, want one")
	}
}

func TestCompressRejectsInvalidParams(t *testing.T) {
	bad := Params{WinBits: MaxWinBits + 1, MapBits: MinMapBits, LenBits: MinLenBits}
	dst := make([]byte, 1<<10)
	if _, err := Compress(dst, []byte("x"), bad); err == nil {
		t.Fatalf("Compress with invalid params: got nil error, want one")
	}
}

func TestCompressCapacityExceeded(t *testing.T) {
	p := DefaultParams()
	src := bytes.Repeat([]byte("incompressible-ish filler data "), 256)
	dst := make([]byte, 4) // far too small to hold even the header
	if _, err := Compress(dst, src, p); err == nil {
		t.Fatalf("Compress into undersized buffer: got nil error, want one")
	}
}

func TestDecodeBackrefRejectsOutOfRangeOffset(t *testing.T) {
	// A corrupted stream that claims a back-reference with offset >= window
	// or offset >= produced must surface ErrCorruptStream rather than
	// panicking or silently reading garbage; exercised indirectly by
	// flipping a bit in the position field of a real encoded stream is
	// brittle, so this test drives the decoder through the package-private
	// API directly.
	p := Params{WinBits: MinWinBits, MapBits: MinMapBits, LenBits: MinLenBits}
	s := newSession(p)
	dst := make([]byte, 4)
	buf := make([]byte, 8)
	bw := bitio.NewMemWriter(buf)
	s.pos.Encode(bw, p.Window()-1) // largest possible offset symbol
	if err := bw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	br := bitio.NewMemReader(bw.Bytes())
	if err := s.decodeBackref(br, dst, 1, 1, p.Window()); err != ErrCorruptStream {
		t.Fatalf("decodeBackref with oversized offset = %v, want ErrCorruptStream", err)
	}
}
