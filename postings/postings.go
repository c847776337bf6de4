// Package postings implements the per-term document/frequency/position
// list format (spec §4.4, glossary "Postings"). A postings list is
// delta-encoded ascending doc ids, each optionally followed by a
// VInt-encoded term frequency; a companion positions list, addressed
// separately, carries delta-encoded within-document positions when the
// field's index-record option requests them.
package postings

import (
	"github.com/nextfts/segreader/format"
	"github.com/nextfts/segreader/internal/pool"
	"github.com/nextfts/segreader/section"
)

// EncodePostings serializes docIDs (strictly ascending) and, when
// option.HasFreq(), the parallel freqs slice, as delta-of-docid +
// VInt(freq) pairs. Builds into a pooled buffer, since a segment build
// calls this once per term.
func EncodePostings(docIDs []uint32, freqs []uint32, option format.IndexRecordOption) []byte {
	bb := pool.GetEncodeBuffer()
	defer pool.PutEncodeBuffer(bb)

	bb.B = section.PutVInt(bb.B, uint64(len(docIDs)))

	var prev uint64
	for i, doc := range docIDs {
		bb.B = section.PutVInt(bb.B, uint64(doc)-prev)
		prev = uint64(doc)

		if option.HasFreq() {
			bb.B = section.PutVInt(bb.B, uint64(freqs[i]))
		}
	}

	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())

	return out
}

// EncodePositions serializes, for each document's term occurrences, the
// delta-encoded within-document positions, each list preceded by its
// length.
func EncodePositions(positions [][]uint32) []byte {
	bb := pool.GetEncodeBuffer()
	defer pool.PutEncodeBuffer(bb)

	for _, list := range positions {
		bb.B = section.PutVInt(bb.B, uint64(len(list)))

		var prev uint64
		for _, pos := range list {
			bb.B = section.PutVInt(bb.B, uint64(pos)-prev)
			prev = uint64(pos)
		}
	}

	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())

	return out
}

// Cursor is a finite, non-restartable, doc-ascending traversal over a
// decoded postings list (spec §5 "within one field, postings traversal
// is doc-ascending").
type Cursor struct {
	data       []byte
	offset     int
	n          int
	idx        int
	option     format.IndexRecordOption
	doc        uint32
	freq       uint32
	positions  [][]byte
	positionOf func(docIdx int) []uint32
}

// NewCursor parses the postings header and returns a Cursor over data,
// optionally paired with positionsData (pass nil when the field has no
// positions sub-file or option doesn't request them).
func NewCursor(data []byte, positionsData []byte, option format.IndexRecordOption) (*Cursor, error) {
	n, consumed, err := section.ReadVInt(data)
	if err != nil {
		return nil, err
	}

	c := &Cursor{data: data[consumed:], n: int(n), option: option}

	if option.HasPositions() && positionsData != nil {
		c.positions = splitPositionLists(positionsData, int(n))
	}

	return c, nil
}

func splitPositionLists(data []byte, n int) [][]byte {
	lists := make([][]byte, 0, n)

	offset := 0
	for range n {
		count, consumed, err := section.ReadVInt(data[offset:])
		if err != nil {
			break
		}
		offset += consumed

		start := offset
		for range int(count) {
			_, c, err := section.ReadVInt(data[offset:])
			if err != nil {
				break
			}
			offset += c
		}

		lists = append(lists, data[start:offset])
	}

	return lists
}

// Advance moves to the next (doc id, freq) pair, returning false once
// the list is exhausted.
func (c *Cursor) Advance() bool {
	if c.idx >= c.n {
		return false
	}

	delta, consumed, err := section.ReadVInt(c.data[c.offset:])
	if err != nil {
		return false
	}
	c.offset += consumed
	c.doc += uint32(delta) //nolint:gosec

	if c.option.HasFreq() {
		freq, consumed, err := section.ReadVInt(c.data[c.offset:])
		if err != nil {
			return false
		}
		c.offset += consumed
		c.freq = uint32(freq) //nolint:gosec
	} else {
		c.freq = 1
	}

	c.idx++

	return true
}

// Doc returns the doc id at the cursor's current position.
func (c *Cursor) Doc() uint32 { return c.doc }

// Freq returns the term frequency at the cursor's current position (1
// when the field's record option doesn't track frequency).
func (c *Cursor) Freq() uint32 { return c.freq }

// Positions returns the within-document positions at the cursor's
// current position, decoded from delta form. Returns nil when the
// field's record option doesn't track positions, or no positions
// sub-file was supplied.
func (c *Cursor) Positions() []uint32 {
	if c.positions == nil || c.idx == 0 || c.idx > len(c.positions) {
		return nil
	}

	raw := c.positions[c.idx-1]

	var out []uint32
	var prev uint64
	offset := 0
	for offset < len(raw) {
		delta, consumed, err := section.ReadVInt(raw[offset:])
		if err != nil {
			break
		}
		offset += consumed
		prev += delta
		out = append(out, uint32(prev)) //nolint:gosec
	}

	return out
}

// Empty returns a Cursor over zero documents.
func Empty() *Cursor {
	return &Cursor{}
}
