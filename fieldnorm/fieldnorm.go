// Package fieldnorm reads the per-document field-length norm bytes a
// field's postings list uses for BM25 length normalization (referenced
// but not elaborated by spec §4.5 "field-norm readers").
package fieldnorm

import "github.com/nextfts/segreader/fileslice"

// Reader exposes one byte of norm per document id, stored densely at
// offset doc in its backing slice.
type Reader struct {
	data fileslice.Slice
}

// Open wraps backing as a fieldnorm Reader. backing is expected to hold
// exactly one byte per document id in the owning field.
func Open(backing fileslice.Slice) (Reader, error) {
	raw, err := backing.ReadBytes()
	if err != nil {
		return Reader{}, err
	}

	return Reader{data: fileslice.New(raw)}, nil
}

// Empty returns a Reader over zero documents, used when a field has no
// field-norm data (the field is unindexed, or norms aren't recorded for
// it).
func Empty() Reader {
	return Reader{}
}

// NumDocs returns the number of documents this reader has a norm byte
// for.
func (r Reader) NumDocs() uint64 {
	return r.data.Len()
}

// Norm returns the raw norm byte for doc, or 0 if doc is out of range.
func (r Reader) Norm(doc uint32) uint8 {
	raw, err := r.data.ReadBytes()
	if err != nil || uint64(doc) >= uint64(len(raw)) {
		return 0
	}

	return raw[doc]
}
