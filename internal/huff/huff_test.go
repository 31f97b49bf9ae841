// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package huff

import (
	"testing"

	"github.com/mseriukov/sqz/internal/bitio"
	"github.com/mseriukov/sqz/internal/testutil"
)

// checkInvariants verifies the sibling-order and prefix-free invariants
// a well-formed adaptive tree must maintain after every update.
func checkInvariants(t *testing.T, tr *Tree) {
	t.Helper()
	type key struct {
		path  uint64
		depth uint8
	}
	seen := make(map[key]bool)
	for i := 0; i < tr.numLeafs; i++ {
		n := tr.nodes[i]
		k := key{n.path, n.depth}
		if seen[k] {
			t.Fatalf("duplicate path at leaf %d", i)
		}
		seen[k] = true
	}
	for i := tr.numLeafs; i < len(tr.nodes); i++ {
		n := tr.nodes[i]
		if n.left == noChild || n.right == noChild {
			t.Fatalf("internal node %d missing a child", i)
		}
		if tr.nodes[n.left].freq > tr.nodes[n.right].freq {
			t.Fatalf("node %d violates sibling order: left=%d right=%d",
				i, tr.nodes[n.left].freq, tr.nodes[n.right].freq)
		}
		if n.freq != tr.nodes[n.left].freq+tr.nodes[n.right].freq {
			t.Fatalf("node %d has stale frequency", i)
		}
		if tr.nodes[n.left].parent != int32(i) || tr.nodes[n.right].parent != int32(i) {
			t.Fatalf("node %d's children have a stale parent pointer", i)
		}
	}
}

func TestInitBalanced(t *testing.T) {
	var tr Tree
	tr.Init(8)
	checkInvariants(t, &tr)
	for i := 0; i < 8; i++ {
		if tr.nodes[i].depth != 3 {
			t.Errorf("leaf %d: depth = %d, want 3", i, tr.nodes[i].depth)
		}
	}
}

func TestInitRejectsBadSizes(t *testing.T) {
	for _, n := range []int{0, 1, 7, 9, 15} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Init(%d) did not panic", n)
				}
			}()
			var tr Tree
			tr.Init(n)
		}()
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	const n = 32
	var enc, dec Tree
	enc.Init(n)
	dec.Init(n)

	rnd := testutil.NewRand(42)
	syms := make([]int, 2000)
	for i := range syms {
		syms[i] = rnd.Intn(n)
	}

	buf := make([]byte, 1<<16)
	bw := bitio.NewMemWriter(buf)
	for _, s := range syms {
		enc.Encode(bw, s)
	}
	if err := bw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	checkInvariants(t, &enc)

	br := bitio.NewMemReader(bw.Bytes())
	for i, want := range syms {
		got, err := dec.Decode(br)
		if err != nil {
			t.Fatalf("symbol %d: Decode: %v", i, err)
		}
		if got != want {
			t.Fatalf("symbol %d: got %d, want %d", i, got, want)
		}
	}
	checkInvariants(t, &dec)
}

func TestEncoderDecoderStayInLockstep(t *testing.T) {
	const n = 16
	var enc, dec Tree
	enc.Init(n)
	dec.Init(n)

	// Skew frequencies heavily toward symbol 0 to force sibling swaps and
	// move-ups, then verify the two trees always agree on every path.
	for round := 0; round < 500; round++ {
		sym := 0
		if round%7 == 0 {
			sym = round % n
		}
		buf := make([]byte, 16)
		bw := bitio.NewMemWriter(buf)
		enc.Encode(bw, sym)
		bw.Flush()

		br := bitio.NewMemReader(bw.Bytes())
		got, err := dec.Decode(br)
		if err != nil {
			t.Fatalf("round %d: Decode: %v", round, err)
		}
		if got != sym {
			t.Fatalf("round %d: got %d, want %d", round, got, sym)
		}
		checkInvariants(t, &enc)
		checkInvariants(t, &dec)
	}
}

func TestLatchFreezesTree(t *testing.T) {
	var tr Tree
	tr.Init(8)
	tr.nodes[0].freq = maxFreq
	tr.nodes[0].depth = maxDepth - 1

	buf := make([]byte, 1024)
	bw := bitio.NewMemWriter(buf)
	tr.Encode(bw, 0)
	if !tr.Complete() {
		t.Fatalf("tree did not latch after crossing the frequency ceiling")
	}

	snapshot := make([]node, len(tr.nodes))
	copy(snapshot, tr.nodes)
	for i := 0; i < 10; i++ {
		tr.Encode(bw, i%8)
	}
	for i := range snapshot {
		if tr.nodes[i] != snapshot[i] {
			t.Fatalf("node %d mutated after latch: %+v != %+v", i, tr.nodes[i], snapshot[i])
		}
	}
}

func TestDecodeCorruptTree(t *testing.T) {
	var tr Tree
	tr.Init(8)
	// Break an internal node so it has only one child.
	tr.nodes[tr.root].right = noChild

	buf := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	br := bitio.NewMemReader(buf)
	if _, err := tr.Decode(br); err != ErrCorrupt {
		t.Fatalf("Decode = %v, want ErrCorrupt", err)
	}
}
