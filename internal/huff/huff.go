// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package huff maintains an adaptive (dynamically rebalanced) binary
// prefix-code tree over a fixed alphabet, in the style of
// compress/internal/prefix's canonical Huffman decoder but updated online as
// symbol frequencies accrue, rather than built once from a fixed code-length
// table.
package huff

import (
	"math/bits"

	"github.com/dsnet/golib/errs"
	"github.com/mseriukov/sqz/internal/bitio"
)

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "huff: " + string(e) }

// ErrCorrupt reports that a decode walked off a leaf with invalid children,
// the hallmark of a corrupted bitstream.
var ErrCorrupt error = Error("decode reached an invalid tree state")

// maxFreq is the latch threshold; once a leaf's frequency has reached this
// value, its next increment freezes the tree instead, so that all code
// lengths stay representable in a 64-bit path.
const maxFreq = ^uint64(0) - 1

const maxDepth = 63

type node struct {
	freq   uint64
	path   uint64
	depth  uint8
	parent int32
	left   int32
	right  int32
}

const noChild = -1

// Tree is a fixed array of 2N-1 nodes implementing an adaptive Huffman code
// over N leaves, N a power of two >= 8. Leaves occupy indices 0..N-1; the
// root is index 2N-2. The zero value is not usable; call Init first.
type Tree struct {
	nodes    []node
	numLeafs int
	root     int32
	complete bool
}

// Init builds a balanced initial tree over n leaves, each starting at
// frequency 1. n must be a power of two, >= 8.
func (t *Tree) Init(n int) {
	errs.Assert(n >= 8 && n&(n-1) == 0, Error("alphabet size must be a power of two >= 8"))

	t.numLeafs = n
	t.nodes = make([]node, 2*n-1)
	t.complete = false

	depth := uint8(bits.TrailingZeros(uint(n)))
	for i := 0; i < n; i++ {
		t.nodes[i] = node{freq: 1, depth: depth, left: noChild, right: noChild, parent: noChild}
	}

	level := make([]int32, n)
	for i := range level {
		level[i] = int32(i)
	}
	next := int32(n)
	for len(level) > 1 {
		newLevel := make([]int32, len(level)/2)
		for i := range newLevel {
			l, r := level[2*i], level[2*i+1]
			idx := next
			next++
			t.nodes[idx] = node{
				freq:   t.nodes[l].freq + t.nodes[r].freq,
				left:   l,
				right:  r,
				parent: noChild,
			}
			t.nodes[l].parent = idx
			t.nodes[r].parent = idx
			newLevel[i] = idx
		}
		level = newLevel
	}
	t.root = level[0]
	t.recomputePaths(t.root)
}

// NumLeafs reports the alphabet size.
func (t *Tree) NumLeafs() int { return t.numLeafs }

// Complete reports whether the tree has latched and stopped accepting
// further frequency increments.
func (t *Tree) Complete() bool { return t.complete }

// Encode writes the path to leaf sym and then adjusts the tree.
func (t *Tree) Encode(bw *bitio.Writer, sym int) {
	errs.Assert(sym >= 0 && sym < t.numLeafs, Error("symbol out of range"))
	n := &t.nodes[sym]
	bw.WriteBits(n.path, uint(n.depth))
	t.increment(int32(sym))
}

// Decode reads bits root-to-leaf, then adjusts the tree, returning the
// decoded leaf symbol.
func (t *Tree) Decode(br *bitio.Reader) (int, error) {
	cur := t.root
	for {
		n := &t.nodes[cur]
		if n.left == noChild && n.right == noChild {
			break
		}
		if n.left == noChild || n.right == noChild {
			return 0, ErrCorrupt
		}
		bit, err := br.ReadBit()
		if err != nil {
			return 0, err
		}
		if bit {
			cur = n.right
		} else {
			cur = n.left
		}
	}
	sym := int(cur)
	if sym < 0 || sym >= t.numLeafs {
		return 0, ErrCorrupt
	}
	t.increment(cur)
	return sym, nil
}

// increment applies the post-emission/post-consumption frequency update
// protocol described for the adaptive tree: bump the leaf's frequency, then
// restore the sibling-order invariant and perform move-up rebalancing while
// walking from the leaf to the root.
func (t *Tree) increment(i int32) {
	if t.complete {
		return
	}
	leaf := &t.nodes[i]
	if leaf.depth >= maxDepth || leaf.freq >= maxFreq {
		t.complete = true
		return
	}
	leaf.freq++

	cur := i
	for cur != t.root {
		parent := t.nodes[cur].parent
		t.updateFreq(parent)
		if t.swapPointers(parent) {
			t.recomputePaths(parent)
		}

		gp := t.nodes[parent].parent
		if gp == noChild {
			cur = parent
			continue
		}

		aunt := t.sibling(gp, parent)
		heavy := t.nodes[parent].right
		if t.nodes[heavy].freq > t.nodes[aunt].freq {
			t.moveUp(heavy, aunt, parent, gp)
			cur = gp
			continue
		}
		cur = parent
	}
}

// updateFreq recomputes an internal node's frequency from its children.
func (t *Tree) updateFreq(idx int32) {
	n := &t.nodes[idx]
	n.freq = t.nodes[n.left].freq + t.nodes[n.right].freq
}

// swapPointers enforces freq(left) <= freq(right) at idx, swapping the
// child pointers (not recomputing paths) if the invariant was violated. It
// reports whether a swap occurred.
func (t *Tree) swapPointers(idx int32) bool {
	n := &t.nodes[idx]
	if t.nodes[n.left].freq > t.nodes[n.right].freq {
		n.left, n.right = n.right, n.left
		return true
	}
	return false
}

// sibling returns the child of gp that is not node.
func (t *Tree) sibling(gp, node int32) int32 {
	g := &t.nodes[gp]
	if g.left == node {
		return g.right
	}
	return g.left
}

// moveUp detaches heavy from parent and re-attaches it as a child of gp in
// place of aunt; aunt becomes a child of the former parent. It then
// refreshes the affected frequencies and recomputes every path under gp.
func (t *Tree) moveUp(heavy, aunt, parent, gp int32) {
	g := &t.nodes[gp]
	if g.left == aunt {
		g.left = heavy
	} else {
		g.right = heavy
	}
	p := &t.nodes[parent]
	if p.left == heavy {
		p.left = aunt
	} else {
		p.right = aunt
	}
	t.nodes[heavy].parent = gp
	t.nodes[aunt].parent = parent

	t.updateFreq(parent)
	t.swapPointers(parent)
	t.updateFreq(gp)
	t.swapPointers(gp)
	t.recomputePaths(gp)
}

// recomputePaths walks the subtree rooted at idx, re-deriving path and
// depth for every descendant from idx's own (already valid) path and depth.
func (t *Tree) recomputePaths(idx int32) {
	n := &t.nodes[idx]
	if n.left == noChild && n.right == noChild {
		return
	}
	l, r := &t.nodes[n.left], &t.nodes[n.right]
	l.depth, r.depth = n.depth+1, n.depth+1
	l.path, r.path = n.path<<1, n.path<<1|1
	t.recomputePaths(n.left)
	t.recomputePaths(n.right)
}
