// Package bitset implements the alive bitset (§3, §4.6): a fixed-domain
// bitmap over [0, max_value) describing which document ids in a segment
// are still live. An absent alive bitset means every id is alive; that
// case is represented in this package by a nil *AliveBitSet, not a
// fully-set bitmap, so callers can cheaply special-case "no deletes".
package bitset

import "math/bits"

const wordBits = 64

// AliveBitSet is an immutable bitmap over [0, maxValue). It is built
// once (by parsing an on-disk delete file, or by intersecting two
// existing bitsets) and never mutated afterwards, matching the
// "immutable segment" non-goal in spec.md §1.
type AliveBitSet struct {
	words    []uint64
	maxValue uint32
	numAlive uint32
}

// New builds an AliveBitSet over [0, maxValue) from a caller-supplied
// "is alive" predicate. It is the constructor used both for parsing an
// on-disk delete file and for building bitsets in tests.
func New(maxValue uint32, alive func(id uint32) bool) *AliveBitSet {
	b := &AliveBitSet{
		words:    make([]uint64, (int(maxValue)+wordBits-1)/wordBits),
		maxValue: maxValue,
	}

	for id := uint32(0); id < maxValue; id++ {
		if alive(id) {
			b.words[id/wordBits] |= 1 << (id % wordBits)
			b.numAlive++
		}
	}

	return b
}

// FromWords builds an AliveBitSet directly from packed little-endian
// words, as parsed from an on-disk delete file. numAlive is recomputed
// via popcount rather than trusted from the caller.
func FromWords(maxValue uint32, words []uint64) *AliveBitSet {
	b := &AliveBitSet{words: words, maxValue: maxValue}
	for _, w := range words {
		b.numAlive += uint32(bits.OnesCount64(w))
	}

	return b
}

// MaxValue returns the bitset's domain size.
func (b *AliveBitSet) MaxValue() uint32 {
	if b == nil {
		return 0
	}

	return b.maxValue
}

// NumAlive returns popcount(bitset) (§3: "num_alive = popcount(alive_bitset)").
func (b *AliveBitSet) NumAlive() uint32 {
	if b == nil {
		return 0
	}

	return b.numAlive
}

// IsAlive reports whether id is alive. An id at or past MaxValue is
// never alive.
func (b *AliveBitSet) IsAlive(id uint32) bool {
	if b == nil {
		return true
	}
	if id >= b.maxValue {
		return false
	}

	return b.words[id/wordBits]&(1<<(id%wordBits)) != 0
}

// IsDeleted is the complement of IsAlive, matching §4.5's "is_deleted".
func (b *AliveBitSet) IsDeleted(id uint32) bool {
	return !b.IsAlive(id)
}

// Iter returns the live doc ids in ascending order. The returned cursor
// is finite and non-restartable (§9 "Lazy sequences"): create a new one
// via Iter to iterate again.
func (b *AliveBitSet) Iter() *Cursor {
	if b == nil {
		return nil
	}

	return &Cursor{set: b, next: 0}
}

// Cursor is a finite, non-restartable, forward-only iterator over a
// bitset's live ids (§9 "Lazy sequences": "a cursor value with an
// advance -> bool step and a current accessor").
type Cursor struct {
	set     *AliveBitSet
	next    uint32
	current uint32
}

// Advance moves to the next live id, returning false once exhausted.
func (c *Cursor) Advance() bool {
	if c == nil {
		return false
	}

	for id := c.next; id < c.set.maxValue; id++ {
		if c.set.IsAlive(id) {
			c.current = id
			c.next = id + 1

			return true
		}
	}

	c.next = c.set.maxValue

	return false
}

// Current returns the id Advance most recently produced. Its value is
// unspecified before the first Advance call or after Advance returns
// false.
func (c *Cursor) Current() uint32 {
	return c.current
}

// Intersect computes the conjunction of aliveness between two optional
// bitsets (§4.6). None acts as identity: Intersect(nil, b) == b and
// Intersect(a, nil) == a. Both present requires an identical domain;
// a mismatch is a programming error (the two bitsets must come from the
// same segment) and panics rather than returning an error, matching
// spec.md §5/§9 ("Domain asserts vs. errors").
func Intersect(a, b *AliveBitSet) *AliveBitSet {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		return b
	case b == nil:
		return a
	}

	if a.maxValue != b.maxValue {
		panic("bitset: Intersect called on bitsets with different domains")
	}

	words := make([]uint64, len(a.words))
	for i := range words {
		words[i] = a.words[i] & b.words[i]
	}

	return FromWords(a.maxValue, words)
}
