// Package invertedindex composes a field's term dictionary, postings
// sub-file, positions sub-file and recorded index-record option into a
// single per-field reader (spec §4.4).
package invertedindex

import (
	"sort"

	"github.com/nextfts/segreader/format"
	"github.com/nextfts/segreader/postings"
	"github.com/nextfts/segreader/termdict"
)

// Reader is the per-field inverted-index view a SegmentReader hands out
// from its cache. It is safe for concurrent read access: nothing in it
// mutates after construction.
type Reader struct {
	dict           *termdict.Dict
	postingsData   []byte
	positionsData  []byte
	recordOption   format.IndexRecordOption
	encodedSubPath []EncodedField // JSON sub-paths this reader covers, for metadata introspection
}

// EncodedField names one JSON-typed sub-path an inverted index actually
// has terms for, for the "list_encoded_fields" introspection spec §4.4
// describes.
type EncodedField struct {
	Path string
	Type format.ValueType
}

// New builds a Reader over dict and the raw postings/positions bytes
// for one field.
func New(dict *termdict.Dict, postingsData, positionsData []byte, recordOption format.IndexRecordOption, encodedSubPaths []EncodedField) *Reader {
	return &Reader{
		dict:           dict,
		postingsData:   postingsData,
		positionsData:  positionsData,
		recordOption:   recordOption,
		encodedSubPath: encodedSubPaths,
	}
}

// Empty builds a no-term reader (spec §4.4 "empty(record_option) builds
// a no-term reader"), used for fields that were declared but received
// no documents.
func Empty(recordOption format.IndexRecordOption) *Reader {
	return &Reader{dict: termdict.Empty(), recordOption: recordOption}
}

// TermDict returns the field's term dictionary.
func (r *Reader) TermDict() *termdict.Dict {
	return r.dict
}

// ReadPostings resolves term to a postings cursor, clamping
// requestedOption to whatever the field actually recorded at index
// time. Returns (nil, false) when term isn't in the dictionary.
func (r *Reader) ReadPostings(term string, requestedOption format.IndexRecordOption) (*postings.Cursor, bool) {
	info, ok := r.dict.Get(term)
	if !ok {
		return nil, false
	}

	effective := format.Clamp(requestedOption, r.recordOption)

	postingsSlice := sliceAt(r.postingsData, info.PostingsOffset, info.PostingsLen)

	var positionsSlice []byte
	if effective.HasPositions() {
		positionsSlice = sliceAt(r.positionsData, info.PositionsOffset, info.PositionsLen)
	}

	cur, err := postings.NewCursor(postingsSlice, positionsSlice, effective)
	if err != nil {
		return nil, false
	}

	return cur, true
}

func sliceAt(data []byte, offset, length uint64) []byte {
	if data == nil || offset+length > uint64(len(data)) {
		return nil
	}

	return data[offset : offset+length]
}

// ListEncodedFields returns the (json_path, type) pairs this reader has
// terms for, sorted by path (spec §4.4 "used by metadata
// introspection").
func (r *Reader) ListEncodedFields() []EncodedField {
	out := make([]EncodedField, len(r.encodedSubPath))
	copy(out, r.encodedSubPath)

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })

	return out
}
