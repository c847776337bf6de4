// Package termdict implements the ordered term dictionary a field's
// inverted index is built over: a sorted list of term bytes, each
// carrying postings location metadata, with an xxHash64 index layered
// on top for O(1) average-case lookup (spec §4.4, glossary "Term
// dictionary").
package termdict

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/nextfts/segreader/errs"
	"github.com/nextfts/segreader/internal/collision"
	"github.com/nextfts/segreader/internal/hash"
)

// TermInfo is the postings-location metadata a term dictionary entry
// carries.
type TermInfo struct {
	DocFreq         uint64
	PostingsOffset  uint64
	PostingsLen     uint64
	PositionsOffset uint64
	PositionsLen    uint64
}

type entry struct {
	term string
	info TermInfo
}

// Dict is an immutable, ordered term dictionary.
type Dict struct {
	entries []entry
	byHash  map[uint64][]int
}

// Builder accumulates (term, TermInfo) pairs, which must arrive in
// strictly ascending term order (the order a writer naturally produces
// them in while walking a sorted posting build). Add rejects
// out-of-order or duplicate input.
type Builder struct {
	entries  []entry
	tracker  *collision.Tracker
	lastTerm string
	hasLast  bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{tracker: collision.NewTracker()}
}

// Add appends term with info. term must sort strictly after every term
// added so far.
func (b *Builder) Add(term string, info TermInfo) error {
	if term == "" {
		return errs.ErrInvalidTerm
	}
	if b.hasLast && term <= b.lastTerm {
		return fmt.Errorf("%w: %q does not follow %q", errs.ErrTermNotSorted, term, b.lastTerm)
	}

	h := hash.ID(term)
	if err := b.tracker.Track(term, h); err != nil {
		return err
	}

	b.entries = append(b.entries, entry{term: term, info: info})
	b.lastTerm = term
	b.hasLast = true

	return nil
}

// Build seals the accumulated entries into a Dict.
func (b *Builder) Build() *Dict {
	byHash := make(map[uint64][]int, len(b.entries))
	for i, e := range b.entries {
		h := hash.ID(e.term)
		byHash[h] = append(byHash[h], i)
	}

	return &Dict{entries: b.entries, byHash: byHash}
}

// Empty returns a term dictionary with no terms (spec §4.4
// "empty(record_option) builds a no-term reader").
func Empty() *Dict {
	return &Dict{}
}

// Get resolves term to its TermInfo. Absence is reported with ok=false,
// never an error (spec §4.4 "read_postings... requested option is
// clamped"; missing terms are a normal outcome queries handle).
func (d *Dict) Get(term string) (TermInfo, bool) {
	if d == nil {
		return TermInfo{}, false
	}

	h := hash.ID(term)
	for _, idx := range d.byHash[h] {
		if d.entries[idx].term == term {
			return d.entries[idx].info, true
		}
	}

	return TermInfo{}, false
}

// NumTerms returns the number of distinct terms in the dictionary.
func (d *Dict) NumTerms() int {
	if d == nil {
		return 0
	}

	return len(d.entries)
}

// Cursor is a forward, non-restartable iterator over a Dict's terms in
// sorted order (spec §9 "Lazy sequences").
type Cursor struct {
	dict    *Dict
	idx     int
	current entry
}

// Iter returns a Cursor starting before the first term.
func (d *Dict) Iter() *Cursor {
	return &Cursor{dict: d}
}

// Advance moves to the next term, returning false once exhausted.
func (c *Cursor) Advance() bool {
	if c.dict == nil || c.idx >= len(c.dict.entries) {
		return false
	}

	c.current = c.dict.entries[c.idx]
	c.idx++

	return true
}

// Term returns the term text at the cursor's current position.
func (c *Cursor) Term() string { return c.current.term }

// TermInfo returns the metadata at the cursor's current position.
func (c *Cursor) TermInfo() TermInfo { return c.current.info }

// RangeCursor iterates every term whose bytes are >= from in sorted
// order, useful for prefix or range queries over the dictionary.
func (d *Dict) RangeCursor(from string) *Cursor {
	if d == nil {
		return &Cursor{}
	}

	start := sort.Search(len(d.entries), func(i int) bool {
		return bytes.Compare([]byte(d.entries[i].term), []byte(from)) >= 0
	})

	return &Cursor{dict: d, idx: start}
}
