// Package segreader provides a read-only, memory-mapped-friendly view
// over an immutable search-index segment: the term dictionaries,
// postings lists, columnar fast fields, document store and field-length
// norms a query-time search engine needs, composed behind one Reader.
//
// segreader targets the "one writer finishes, many readers query"
// split common to log-structured search engines: segments are
// write-once and never mutated in place, so every reader returned by
// this package is safe for concurrent use without further locking,
// except for the lazy per-field inverted-index cache, which manages
// its own synchronization internally.
//
// # Core Features
//
//   - Composite sub-file container shared by every segment component
//   - Three interchangeable u64 fast-field codecs (bitpacked, linear,
//     block-wise linear), picked per column by encoded size, plus a
//     compact-space codec for 128-bit IP columns
//   - Lazy, cached per-field inverted-index construction
//   - Deletion handled as an immutable alive bitset, reconciled against
//     an optional caller-supplied snapshot bitset at open time
//   - Dotted-path JSON sub-field addressing for both indexed and
//     fast-field columns
//   - Cross-segment BM25 statistics aggregation
//
// # Basic Usage
//
// Opening a segment and reading a term's postings:
//
//	import "github.com/nextfts/segreader/segment"
//
//	sch := schema.New([]schema.FieldEntry{
//	    {Name: "body", Type: format.ValueText, Flags: schema.FlagIndexed},
//	})
//
//	reader, err := segment.Open(dir, segment.SegmentMeta{
//	    SegmentID: "seg-0001",
//	    MaxDoc:    1000,
//	}, sch)
//	if err != nil {
//	    // handle err
//	}
//
//	field, _ := sch.GetField("body")
//	idx, err := reader.InvertedIndex(field)
//	cursor, ok := idx.ReadPostings("search", format.IndexRecordFreq)
//	for ok && cursor.Advance() {
//	    fmt.Printf("doc=%d freq=%d\n", cursor.Doc(), cursor.Freq())
//	}
//
// # Package Structure
//
// This file documents the module as a whole; there is no top-level API
// surface here. segment is the entry point that composes every other
// package (compositefile, columnar, fastfield, termdict, postings,
// invertedindex, fieldnorm, store, bitset) into one reader. schema and
// tokenizer are the collaborators a caller supplies;
// bm25stats is consumed by query-time scoring, not by segment itself.
package segreader
