// Package store wraps the document store sub-file as an opaque,
// length-prefixed blob sequence addressed by DocId. The store's own
// internal block layout and any compression of it are out of scope
// (spec §1 "Deliberately out of scope ... compression of the document
// store"); this package only provides the directory-level random
// access a caller needs to fetch a stored document's raw bytes.
package store

import (
	"github.com/nextfts/segreader/errs"
	"github.com/nextfts/segreader/fileslice"
	"github.com/nextfts/segreader/internal/pool"
	"github.com/nextfts/segreader/section"
)

// Reader provides random access to stored documents by DocId.
//
// This reader has no block cache and Open takes no cache-size setting:
// every document is an independent length-prefixed slice.
type Reader struct {
	backing fileslice.Slice
	offsets []uint64 // offsets[doc] is the start of doc's record; offsets[len] is the end of the last record
}

// Open parses backing as a sequence of VInt-length-prefixed document
// records and returns a Reader with numDocs documents.
func Open(backing fileslice.Slice, numDocs int) (Reader, error) {
	raw, err := backing.ReadBytes()
	if err != nil {
		return Reader{}, err
	}

	offsets := make([]uint64, 0, numDocs+1)

	var offset uint64
	for range numDocs {
		offsets = append(offsets, offset)

		length, n, err := section.ReadVInt(raw[offset:])
		if err != nil {
			return Reader{}, err
		}
		offset += uint64(n) + length
	}
	offsets = append(offsets, offset)

	return Reader{backing: backing, offsets: offsets}, nil
}

// NumDocs returns the number of stored documents.
func (r Reader) NumDocs() int {
	if len(r.offsets) == 0 {
		return 0
	}

	return len(r.offsets) - 1
}

// Get returns doc's raw stored bytes.
func (r Reader) Get(doc uint32) ([]byte, error) {
	if int(doc)+1 >= len(r.offsets) {
		return nil, errs.ErrRangeOutOfBounds
	}

	raw, err := r.backing.ReadBytes()
	if err != nil {
		return nil, err
	}

	start := r.offsets[doc]
	_, n, err := section.ReadVInt(raw[start:])
	if err != nil {
		return nil, err
	}

	return raw[start+uint64(n) : r.offsets[doc+1]], nil
}

// EncodeDocs serializes docs as a sequence of VInt-length-prefixed
// records, for assembling a store backing slice. Uses the large encode
// pool since a store component spans every document in a segment.
func EncodeDocs(docs [][]byte) []byte {
	bb := pool.GetLargeEncodeBuffer()
	defer pool.PutLargeEncodeBuffer(bb)

	for _, d := range docs {
		bb.B = section.PutVInt(bb.B, uint64(len(d)))
		bb.B = append(bb.B, d...)
	}

	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())

	return out
}

// SpaceUsage returns the store's total backing byte length.
func (r Reader) SpaceUsage() uint64 {
	return r.backing.Len()
}
