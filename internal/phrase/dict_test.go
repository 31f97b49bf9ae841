// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package phrase

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/mseriukov/sqz/internal/testutil"
)

func TestPutGetStability(t *testing.T) {
	var d Dict
	d.Init(32)

	keys := [][]byte{
		[]byte("ab"), []byte("abc"), []byte("hello"), []byte("world!"),
	}
	var slots []int
	for _, k := range keys {
		s := d.Put(k, len(k))
		if s == None {
			t.Fatalf("Put(%q) = None", k)
		}
		slots = append(slots, s)
	}
	for i, k := range keys {
		if got := d.Get(k, len(k)); got != slots[i] {
			t.Errorf("Get(%q) = %d, want %d", k, got, slots[i])
		}
		// Re-inserting an existing key returns the same slot and does not
		// grow the table.
		before := d.Len()
		if got := d.Put(k, len(k)); got != slots[i] {
			t.Errorf("re-Put(%q) = %d, want %d", k, got, slots[i])
		}
		if d.Len() != before {
			t.Errorf("re-Put(%q) changed Len() from %d to %d", k, before, d.Len())
		}
	}
}

func TestKeyOfRoundTrip(t *testing.T) {
	var d Dict
	d.Init(16 + 16)
	s := d.Put([]byte("repeated"), len("repeated"))
	if !bytes.Equal(d.KeyOf(s), []byte("repeated")) {
		t.Errorf("KeyOf(%d) = %q, want %q", s, d.KeyOf(s), "repeated")
	}
}

func TestLoadFactorCap(t *testing.T) {
	const m = 32 // cap at 3/4 * 32 = 24 entries
	var d Dict
	d.Init(m)

	inserted := 0
	for i := 0; i < m; i++ {
		key := []byte(fmt.Sprintf("key%03d", i))
		s := d.Put(key, len(key))
		if s == None {
			break
		}
		inserted++
	}
	if inserted > (m*loadFactorNum)/loadFactorDen {
		t.Fatalf("inserted %d entries, exceeding the 3/4 cap of %d", inserted, (m*loadFactorNum)/loadFactorDen)
	}
	if d.Len() != inserted {
		t.Fatalf("Len() = %d, want %d", d.Len(), inserted)
	}

	// One more insertion past the cap must be refused and must not mutate
	// the table.
	before := d.Len()
	key := []byte("overflow")
	if s := d.Put(key, len(key)); s != None {
		t.Fatalf("Put past cap = %d, want None", s)
	}
	if d.Len() != before {
		t.Fatalf("Len() changed from %d to %d after a refused Put", before, d.Len())
	}
}

func TestBestPrefixLongestMatch(t *testing.T) {
	var d Dict
	d.Init(64)
	d.Put([]byte("he"), 2)
	d.Put([]byte("hel"), 3)
	d.Put([]byte("hell"), 4)
	// Deliberately skip "hello" (length 5) to exercise the monotonicity
	// heuristic: BestPrefix must stop at length 4 even though a
	// length-10 key exists, because length 5 is absent.
	d.Put([]byte("helloworld"), 10)

	got := d.BestPrefix([]byte("helloworld"), 10)
	want := d.Get([]byte("hell"), 4)
	if got != want {
		t.Fatalf("BestPrefix = %d, want %d (slot for %q)", got, want, "hell")
	}
}

func TestBestPrefixNoMatch(t *testing.T) {
	var d Dict
	d.Init(64)
	d.Put([]byte("xy"), 2)
	if got := d.BestPrefix([]byte("ab"), 2); got != None {
		t.Fatalf("BestPrefix = %d, want None", got)
	}
}

func TestGetOnEmptyTableTerminates(t *testing.T) {
	var d Dict
	d.Init(16 + 16)
	if got := d.Get([]byte("anything"), 8); got != None {
		t.Fatalf("Get on empty table = %d, want None", got)
	}
}

func TestRandomKeysRoundTrip(t *testing.T) {
	var d Dict
	d.Init(1 << 10)
	rnd := testutil.NewRand(7)

	type entry struct {
		key  []byte
		slot int
	}
	var entries []entry
	for i := 0; i < 600; i++ {
		n := MinKeyLen + rnd.Intn(30)
		key := rnd.Bytes(n)
		s := d.Put(key, n)
		if s == None {
			continue
		}
		entries = append(entries, entry{key, s})
	}
	for _, e := range entries {
		if got := d.Get(e.key, len(e.key)); got != e.slot {
			t.Fatalf("Get(%x) = %d, want %d", e.key, got, e.slot)
		}
	}
}
