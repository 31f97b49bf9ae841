// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package sqz

import (
	"github.com/mseriukov/sqz/internal/bitio"
	"github.com/mseriukov/sqz/internal/huff"
	"github.com/mseriukov/sqz/internal/lzwin"
	"github.com/mseriukov/sqz/internal/phrase"
)

// dictMinMatch is the minimum dictionary-key length worth emitting as a
// dictionary-hit token instead of literals.
const dictMinMatch = 3

// session holds one codec instance's mutable state: the four adaptive
// Huffman trees (sym, pos, len, dic), the phrase dictionary, and the
// negotiated parameters. A session is used for exactly one encode or one
// decode pass and is not safe for concurrent use.
type session struct {
	params Params
	sym    *huff.Tree // 256 leaves: literal byte values
	pos    *huff.Tree // Window() leaves: back-reference offsets, minus 1
	ln     *huff.Tree // LenSlots() leaves: match lengths (0=escape, 1=dict hit)
	dic    *huff.Tree // MapSlots() leaves: dictionary slot indices
	dict   phrase.Dict
}

// newSession allocates one arena's worth of trees and dictionary for p.
// Callers must validate p first; newSession panics via the huff/phrase
// packages' assertions if p is malformed, which should never happen once
// Params.Validate has run.
func newSession(p Params) *session {
	s := &session{params: p}
	s.sym = new(huff.Tree)
	s.sym.Init(numSymLeafs)
	s.pos = new(huff.Tree)
	s.pos.Init(p.Window())
	s.ln = new(huff.Tree)
	s.ln.Init(p.LenSlots())
	s.dic = new(huff.Tree)
	s.dic.Init(p.MapSlots())
	s.dict.Init(p.MapSlots())
	return s
}

// Compress encodes src into dst (whose capacity bounds the memory-backed
// sink) using the given parameters, returning the number of bytes written.
func Compress(dst, src []byte, p Params) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	s := newSession(p)
	bw := bitio.NewMemWriter(dst)
	writeHeader(bw, uint64(len(src)), p)
	s.encodeBody(bw, src)
	if err := bw.Err(); err != nil {
		return 0, translateBitioErr(err)
	}
	if err := bw.Flush(); err != nil {
		return 0, translateBitioErr(err)
	}
	return len(bw.Bytes()), nil
}

// Decompress reads a session written by Compress and returns the original
// bytes, preallocating the output at the exact length recorded in the
// header.
func Decompress(src []byte) ([]byte, error) {
	br := bitio.NewMemReader(src)
	byteCount, p, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	dst := make([]byte, byteCount)
	s := newSession(p)
	if err := s.decodeBody(br, dst); err != nil {
		return nil, err
	}
	return dst, nil
}

// encodeBody runs the encode loop: at each position, prefer the longest
// LZ77 match if it is at least 3 bytes long, else the longest
// dictionary prefix if it is at least dictMinMatch bytes, else a literal
// byte.
func (s *session) encodeBody(bw *bitio.Writer, src []byte) {
	window := s.params.Window()
	maxShortLen := s.ln.NumLeafs() - 1
	i := 0
	for i < len(src) {
		if bw.Err() != nil {
			return
		}
		m := lzwin.Find(src, i, window)
		if m.Length > lzwin.MinUsefulLength {
			bw.WriteBits(0x3, 2)
			if m.Length <= maxShortLen {
				s.ln.Encode(bw, m.Length)
			} else {
				s.ln.Encode(bw, 0)
				writeNumber(bw, uint64(m.Length), s.params.NumberBase())
			}
			s.pos.Encode(bw, m.Offset-1)
			s.insertDict(src[i : i+capAt(m.Length, phrase.MaxKeyLen)])
			i += m.Length
			continue
		}

		if slot, key := s.bestDictMatch(src[i:]); slot != phrase.None && len(key) >= dictMinMatch {
			bw.WriteBits(0x3, 2)
			s.ln.Encode(bw, 1)
			s.dic.Encode(bw, slot)
			i += len(key)
			continue
		}

		b := src[i]
		if b < 128 {
			bw.WriteBit(false)
		} else {
			bw.WriteBits(0x2, 2)
		}
		s.sym.Encode(bw, int(b))
		i++
	}
}

// bestDictMatch looks up the longest dictionary prefix of data.
func (s *session) bestDictMatch(data []byte) (slot int, key []byte) {
	maxLen := capAt(len(data), phrase.MaxKeyLen)
	slot = s.dict.BestPrefix(data, maxLen)
	if slot == phrase.None {
		return phrase.None, nil
	}
	return slot, s.dict.KeyOf(slot)
}

// insertDict inserts span into the phrase dictionary if it is long enough
// to form a key; spans shorter than phrase.MinKeyLen are silently ignored.
func (s *session) insertDict(span []byte) {
	if len(span) < phrase.MinKeyLen {
		return
	}
	s.dict.Put(span, len(span))
}

func capAt(n, max int) int {
	if n > max {
		return max
	}
	return n
}

// decodeBody runs the decode loop, dispatching on the 1- or 2-bit token
// prefix and mirroring every dictionary update the encoder performed.
func (s *session) decodeBody(br *bitio.Reader, dst []byte) error {
	window := s.params.Window()
	produced := 0
	for produced < len(dst) {
		high, err := br.ReadBit()
		if err != nil {
			return translateBitioErr(err)
		}
		if !high {
			sym, err := s.sym.Decode(br)
			if err != nil {
				return translateHuffErr(err)
			}
			dst[produced] = byte(sym)
			produced++
			continue
		}

		isRef, err := br.ReadBit()
		if err != nil {
			return translateBitioErr(err)
		}
		if !isRef {
			sym, err := s.sym.Decode(br)
			if err != nil {
				return translateHuffErr(err)
			}
			dst[produced] = byte(sym)
			produced++
			continue
		}

		lenSym, err := s.ln.Decode(br)
		if err != nil {
			return translateHuffErr(err)
		}

		switch {
		case lenSym == 1:
			slotSym, err := s.dic.Decode(br)
			if err != nil {
				return translateHuffErr(err)
			}
			if !s.dict.Occupied(slotSym) {
				return ErrCorruptStream
			}
			key := s.dict.KeyOf(slotSym)
			if produced+len(key) > len(dst) {
				return ErrCorruptStream
			}
			copy(dst[produced:produced+len(key)], key)
			produced += len(key)

		case lenSym == 0:
			length64, err := readNumber(br, s.params.NumberBase())
			if err != nil {
				return err
			}
			if length64 == 0 || length64 > uint64(len(dst)-produced) {
				return ErrCorruptStream
			}
			if err := s.decodeBackref(br, dst, produced, int(length64), window); err != nil {
				return err
			}
			produced += int(length64)

		default:
			length := lenSym
			if produced+length > len(dst) {
				return ErrCorruptStream
			}
			if err := s.decodeBackref(br, dst, produced, length, window); err != nil {
				return err
			}
			produced += length
		}
	}
	return nil
}

// decodeBackref reads the position for a back-reference of the given
// length and performs the byte-by-byte copy (legal even when the source
// and destination ranges overlap, which is how run-length expansion
// happens), then inserts the bytes actually present in dst after the copy
// completes into the dictionary.
func (s *session) decodeBackref(br *bitio.Reader, dst []byte, produced, length, window int) error {
	offsetSym, err := s.pos.Decode(br)
	if err != nil {
		return translateHuffErr(err)
	}
	offset := offsetSym + 1
	if offset >= produced || offset >= window {
		return ErrCorruptStream
	}
	for k := 0; k < length; k++ {
		dst[produced+k] = dst[produced-offset+k]
	}
	s.insertDict(dst[produced : produced+capAt(length, phrase.MaxKeyLen)])
	return nil
}

// translateHuffErr maps huff.ErrCorrupt onto the stream-corruption
// category; any other error from a huff.Tree Decode call comes from the
// underlying bitio.Reader and is mapped by translateBitioErr.
func translateHuffErr(err error) error {
	if err == huff.ErrCorrupt {
		return ErrCorruptStream
	}
	return translateBitioErr(err)
}
