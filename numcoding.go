// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package sqz

import "github.com/mseriukov/sqz/internal/bitio"

// writeNumber emits value using the variable-width "number coding" scheme:
// write the low base bits, then a continuation bit (1 if more bits remain,
// 0 otherwise), repeating until a 0 continuation bit is written. It is
// used for the escape-length payload of a long back-reference, in the
// style of xflate/meta/huffman.go's encodeSym: a small, self-contained
// emitter over the bitio.Writer primitive.
func writeNumber(bw *bitio.Writer, value uint64, base uint) {
	for {
		digit := value & (uint64(1)<<base - 1)
		bw.WriteBits(digit, base)
		value >>= base
		if value != 0 {
			bw.WriteBits(1, 1)
		} else {
			bw.WriteBits(0, 1)
			return
		}
	}
}

// readNumber mirrors writeNumber, reading base-bit digits until a 0
// continuation bit ends the sequence.
func readNumber(br *bitio.Reader, base uint) (uint64, error) {
	var value uint64
	var shift uint
	for {
		digit, err := br.ReadBits(base)
		if err != nil {
			return 0, translateBitioErr(err)
		}
		value |= digit << shift
		shift += base
		more, err := br.ReadBit()
		if err != nil {
			return 0, translateBitioErr(err)
		}
		if !more {
			return value, nil
		}
	}
}
