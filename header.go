// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package sqz

import "github.com/mseriukov/sqz/internal/bitio"

// headerBits is the fixed-width prefix of every session: a 64-bit decoded
// length followed by the three 8-bit parameter fields.
const headerBits = 64 + 8 + 8 + 8

// writeHeader packs byteCount and the parameter triple, big-endian bit
// packing, per the wire format.
func writeHeader(bw *bitio.Writer, byteCount uint64, p Params) {
	bw.WriteBits(byteCount, 64)
	bw.WriteBits(uint64(p.WinBits), 8)
	bw.WriteBits(uint64(p.MapBits), 8)
	bw.WriteBits(uint64(p.LenBits), 8)
	bw.AssertByteAligned()
}

// readHeader unpacks the header and validates the parameter triple,
// reporting an *Error of Kind InvalidParameter for an out-of-range field.
func readHeader(br *bitio.Reader) (byteCount uint64, p Params, err error) {
	byteCount, err = br.ReadBits(64)
	if err != nil {
		return 0, Params{}, translateBitioErr(err)
	}
	winBits, err := br.ReadBits(8)
	if err != nil {
		return 0, Params{}, translateBitioErr(err)
	}
	mapBits, err := br.ReadBits(8)
	if err != nil {
		return 0, Params{}, translateBitioErr(err)
	}
	lenBits, err := br.ReadBits(8)
	if err != nil {
		return 0, Params{}, translateBitioErr(err)
	}
	br.AssertByteAligned()
	p = Params{WinBits: uint8(winBits), MapBits: uint8(mapBits), LenBits: uint8(lenBits)}
	if err := p.Validate(); err != nil {
		return 0, Params{}, err
	}
	return byteCount, p, nil
}

// translateBitioErr maps the low-level bitio sentinel errors onto this
// package's Kind taxonomy.
func translateBitioErr(err error) error {
	switch err {
	case bitio.ErrCapacity:
		return wrapErr(CapacityExceeded, err)
	case bitio.ErrEndOfStream:
		return wrapErr(EndOfStream, err)
	case bitio.ErrIO:
		return wrapErr(IOFailure, err)
	default:
		return wrapErr(IOFailure, err)
	}
}
