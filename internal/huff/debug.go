// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build debug
// +build debug

package huff

import (
	"fmt"
	"strings"
)

// String dumps every node, one per line, sorted by index. It is intended
// for manual inspection while debugging a rebalancing sequence, not for
// machine parsing.
func (t *Tree) String() string {
	var ss []string
	ss = append(ss, fmt.Sprintf("Tree{leafs: %d, root: %d, complete: %v}", t.numLeafs, t.root, t.complete))
	for i, n := range t.nodes {
		kind := "leaf"
		if n.left != noChild {
			kind = "internal"
		}
		ss = append(ss, fmt.Sprintf("\t%d: %s freq=%d depth=%d path=%0*b parent=%d left=%d right=%d",
			i, kind, n.freq, n.depth, n.depth, n.path, n.parent, n.left, n.right))
	}
	return strings.Join(ss, "\n")
}
