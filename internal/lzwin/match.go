// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package lzwin finds the longest prior occurrence of the current input
// suffix within a sliding window, the LZ77 matcher described in the design
// document. No separate window buffer is kept: both the encoder and the
// decoder index directly into their own contiguous byte buffer.
package lzwin

// MinUsefulLength is the longest match length that does not beat literal
// coding after overhead; only matches longer than this are used as
// back-references.
const MinUsefulLength = 2

// Match is a candidate back-reference.
type Match struct {
	Offset int // 0 < Offset < min(pos, window)
	Length int
}

// Find returns the longest match for the suffix of buf starting at pos,
// searching offsets 1..min(pos, window)-1, i.e. strictly less than both pos
// and window (an offset of exactly pos or exactly window is not a valid
// back-reference: the decoder only ever has produced < i bytes available
// and only ever admits offsets strictly inside the window). Ties are broken
// toward the smallest (nearest) offset. It returns the zero Match if pos is
// out of range or no offset yields any overlap.
//
// buf is the caller's full contiguous buffer (the source buffer while
// encoding, the output buffer while decoding); only buf[:pos] is ever
// examined as candidate window content, and buf[pos:] as the text to match
// against.
func Find(buf []byte, pos, window int) Match {
	if pos <= 0 || pos >= len(buf) {
		return Match{}
	}
	maxOffset := pos
	if maxOffset > window {
		maxOffset = window
	}
	maxOffset--
	maxLen := len(buf) - pos

	var best Match
	for offset := 1; offset <= maxOffset; offset++ {
		length := matchLen(buf, pos-offset, pos, maxLen)
		if length > best.Length {
			best = Match{Offset: offset, Length: length}
			if length == maxLen {
				break // cannot do better than matching the entire remaining suffix
			}
		}
	}
	return best
}

// matchLen returns how many bytes starting at src equal the bytes starting
// at dst, up to max, where src < dst (so overlapping, self-referential runs
// are handled correctly: buf[src+i] may itself have been a byte that a
// previous iteration of this same loop wrote conceptually, as happens when
// the decoder later replays this match).
func matchLen(buf []byte, src, dst, max int) int {
	n := 0
	for n < max && buf[src+n] == buf[dst+n] {
		n++
	}
	return n
}
