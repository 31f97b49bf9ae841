// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package sqz

import (
	"hash/crc32"

	"github.com/dsnet/golib/hashutil"
	"github.com/mseriukov/sqz/internal/bitio"
)

// BlockWriter and BlockReader are the streamed sink/source interface from
// §6: the caller supplies a pair of functions that read or write one
// 64-bit big-endian block at a time, rather than a capacity-bounded byte
// buffer.
type BlockWriter = bitio.BlockWriter
type BlockReader = bitio.BlockReader

// Encoder drives one streamed-mode encode session. Unlike Compress, which
// is bounded by a caller-provided buffer's capacity, a streamed Encoder
// writes through an arbitrary BlockWriter and appends a trailing integrity
// word so a streamed Decoder can detect a corrupted transport without
// re-deriving it from the body alone.
type Encoder struct {
	params Params
}

// NewEncoder returns an Encoder for the given parameters.
func NewEncoder(p Params) *Encoder { return &Encoder{params: p} }

// Encode writes a complete session (header, body, integrity trailer) for
// src to blk.
func (e *Encoder) Encode(blk BlockWriter, src []byte) error {
	if err := e.params.Validate(); err != nil {
		return err
	}
	s := newSession(e.params)
	bw := bitio.NewBlockWriter(blk)
	writeHeader(bw, uint64(len(src)), e.params)
	s.encodeBody(bw, src)
	if err := bw.Err(); err != nil {
		return translateBitioErr(err)
	}
	bw.WriteBits(uint64(combinedCRC(src)), 32)
	bw.WriteBits(0, 32) // reserved
	if err := bw.Flush(); err != nil {
		return translateBitioErr(err)
	}
	return nil
}

// Decoder drives one streamed-mode decode session.
type Decoder struct{}

// NewDecoder returns a Decoder.
func NewDecoder() *Decoder { return &Decoder{} }

// Decode reads a complete session from blk and returns the decoded bytes.
func (d *Decoder) Decode(blk BlockReader) ([]byte, error) {
	br := bitio.NewBlockReader(blk)
	byteCount, p, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	dst := make([]byte, byteCount)
	s := newSession(p)
	if err := s.decodeBody(br, dst); err != nil {
		return nil, err
	}
	wantCRC, err := br.ReadBits(32)
	if err != nil {
		return nil, translateBitioErr(err)
	}
	if _, err := br.ReadBits(32); err != nil { // reserved
		return nil, translateBitioErr(err)
	}
	if uint32(wantCRC) != combinedCRC(dst) {
		return nil, ErrCorruptStream
	}
	return dst, nil
}

// combinedCRC computes the payload's CRC-32 as two half-buffer checksums
// combined with github.com/dsnet/golib/hashutil, mirroring how
// bzip2/common.go combines per-block CRCs without needing to re-scan the
// whole buffer from byte zero.
func combinedCRC(data []byte) uint32 {
	mid := len(data) / 2
	crc1 := crc32.ChecksumIEEE(data[:mid])
	crc2 := crc32.ChecksumIEEE(data[mid:])
	return hashutil.CombineCRC32(crc32.IEEE, crc1, crc2, int64(len(data)-mid))
}
