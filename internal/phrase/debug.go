// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build debug
// +build debug

package phrase

import (
	"fmt"
	"strings"
)

// String dumps every occupied slot, one per line, sorted by index. It is
// intended for manual inspection of a probe sequence while debugging, not
// for machine parsing.
func (d *Dict) String() string {
	var ss []string
	ss = append(ss, fmt.Sprintf("Dict{cap: %d, entries: %d}", len(d.slots), d.entries))
	for i, s := range d.slots {
		if s.length == 0 {
			continue
		}
		ss = append(ss, fmt.Sprintf("\t%d: len=%d key=%q", i, s.length, s.key[:s.length]))
	}
	return strings.Join(ss, "\n")
}
