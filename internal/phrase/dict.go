// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package phrase implements an open-addressed hash map from short byte
// sequences to stable integer slot indices. Entries are purely additive
// within a session: nothing is ever removed or rewritten, so a slot index
// is a stable identifier usable as a Huffman leaf label.
package phrase

import (
	"hash/fnv"

	"github.com/dsnet/golib/errs"
)

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "phrase: " + string(e) }

// MaxKeyLen is the widest key a slot can hold.
const MaxKeyLen = 255

// MinKeyLen is the shortest key the dictionary accepts.
const MinKeyLen = 2

// None is the sentinel slot index meaning "not found" or "insertion
// refused".
const None = -1

// loadFactorNum/loadFactorDen cap occupancy at 3/4 of the table.
const (
	loadFactorNum = 3
	loadFactorDen = 4
)

type slot struct {
	length uint8 // 0 == empty
	key    [MaxKeyLen]byte
}

// Dict is an open-addressed phrase dictionary of M slots, M a power of two,
// 16 < M <= 1<<20 (the upper bound matches the widest map_bits the wire
// format allows, Params.MaxMapBits). The zero value is not usable; call
// Init first.
type Dict struct {
	slots   []slot
	mask    uint64
	entries int
}

// Init allocates an m-slot table. m must be a power of two, 16 < m <= 1<<20.
func (d *Dict) Init(m int) {
	errs.Assert(m > 16 && m <= 1<<20 && m&(m-1) == 0,
		Error("slot count must be a power of two strictly greater than 16 and at most 1<<20"))
	d.slots = make([]slot, m)
	d.mask = uint64(m - 1)
	d.entries = 0
}

// Cap reports the table's total slot count.
func (d *Dict) Cap() int { return len(d.slots) }

// Len reports the number of occupied slots.
func (d *Dict) Len() int { return d.entries }

func clampLen(n int) int {
	if n > MaxKeyLen {
		return MaxKeyLen
	}
	return n
}

func hashKey(key []byte) uint64 {
	h := fnv.New64a()
	h.Write(key)
	return h.Sum64()
}

// Get returns the slot index holding key[:n], or None if absent.
func (d *Dict) Get(key []byte, n int) int {
	n = clampLen(n)
	if n < MinKeyLen {
		return None
	}
	key = key[:n]
	h := hashKey(key)
	for k := uint64(0); k < uint64(len(d.slots)); k++ {
		idx := (h + k) & d.mask
		s := &d.slots[idx]
		if s.length == 0 {
			return None // empty slot terminates the probe chain
		}
		if int(s.length) == n && bytesEqual(s.key[:n], key) {
			return int(idx)
		}
	}
	return None
}

// Put inserts key[:n] and returns its slot index. If the key is already
// present, its existing slot is returned unchanged. If the table is at or
// past its 3/4 load factor cap, the insertion is refused and None is
// returned; the table is left unmodified.
func (d *Dict) Put(key []byte, n int) int {
	n = clampLen(n)
	if n < MinKeyLen {
		return None
	}
	key = key[:n]
	h := hashKey(key)
	firstEmpty := -1
	for k := uint64(0); k < uint64(len(d.slots)); k++ {
		idx := (h + k) & d.mask
		s := &d.slots[idx]
		if s.length == 0 {
			firstEmpty = int(idx)
			break
		}
		if int(s.length) == n && bytesEqual(s.key[:n], key) {
			return int(idx)
		}
	}
	if firstEmpty < 0 {
		return None // table full; should not happen given the load cap
	}
	if (d.entries+1)*loadFactorDen > loadFactorNum*len(d.slots) {
		return None
	}
	s := &d.slots[firstEmpty]
	s.length = uint8(n)
	copy(s.key[:], key)
	d.entries++
	return firstEmpty
}

// BestPrefix returns the slot whose key is the longest prefix of data
// currently present in the dictionary, or None. It is a best-effort search:
// it extends the query length from MinKeyLen upward and probes at each
// length, stopping at the first length that misses after a length-1 hit
// (rather than exhaustively searching every length up to max).
func (d *Dict) BestPrefix(data []byte, maxLen int) int {
	if maxLen > len(data) {
		maxLen = len(data)
	}
	maxLen = clampLen(maxLen)
	best := None
	for n := MinKeyLen; n <= maxLen; n++ {
		s := d.Get(data, n)
		if s == None {
			break
		}
		best = s
	}
	return best
}

// KeyOf returns the key bytes stored at slot; the key's length is the length
// of the returned slice. It panics if slot does not refer to an occupied slot.
func (d *Dict) KeyOf(slot int) []byte {
	errs.Assert(slot >= 0 && slot < len(d.slots), Error("slot index out of range"))
	s := &d.slots[slot]
	errs.Assert(s.length != 0, Error("slot is empty"))
	return s.key[:s.length]
}

// Occupied reports whether slot refers to a currently occupied slot. Unlike
// KeyOf, it never panics, so a codec can use it to validate a slot index
// that came from an untrusted bitstream before dereferencing it.
func (d *Dict) Occupied(slot int) bool {
	return slot >= 0 && slot < len(d.slots) && d.slots[slot].length != 0
}

// Clear empties the table without reallocating it.
func (d *Dict) Clear() {
	for i := range d.slots {
		d.slots[i] = slot{}
	}
	d.entries = 0
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
