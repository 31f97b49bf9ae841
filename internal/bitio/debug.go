// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build debug
// +build debug

package bitio

import "fmt"

func (bw *Writer) String() string {
	return fmt.Sprintf("Writer{bytesWritten: %d, pendingBits: %d, reg: %064b}",
		bw.n, bw.nb, bw.reg)
}

func (br *Reader) String() string {
	return fmt.Sprintf("Reader{pos: %d, pendingBits: %d, reg: %064b}",
		br.pos, br.nb, br.reg)
}
