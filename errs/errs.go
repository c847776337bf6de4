// Package errs centralizes the sentinel errors returned by the segment
// read path, so callers can use errors.Is/errors.As instead of matching
// on message text.
package errs

import "errors"

var (
	// ErrDataCorruption is returned when an on-disk structure is malformed:
	// a composite file trailer that doesn't parse, overlapping key ranges,
	// a range that exceeds its backing slice, or a mandatory sub-file missing
	// while its siblings are present.
	ErrDataCorruption = errors.New("data corruption")

	// ErrSchemaMismatch is returned when a field is requested by name that
	// doesn't exist in the schema, or a typed accessor is used on a field of
	// the wrong value type.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrInvalidHeaderSize is returned when a binary header's byte slice is
	// shorter than its fixed size.
	ErrInvalidHeaderSize = errors.New("invalid header size")

	// ErrInvalidTrailer is returned when a composite file trailer can't be
	// parsed from the tail of its backing slice.
	ErrInvalidTrailer = errors.New("invalid composite file trailer")

	// ErrDuplicateKey is returned when a composite file trailer lists the
	// same key twice.
	ErrDuplicateKey = errors.New("duplicate composite file key")

	// ErrRangeOverlap is returned when two composite file entries claim
	// overlapping byte ranges.
	ErrRangeOverlap = errors.New("overlapping composite file ranges")

	// ErrRangeOutOfBounds is returned when a composite file entry's byte
	// range exceeds the backing slice.
	ErrRangeOutOfBounds = errors.New("composite file range out of bounds")

	// ErrFieldNotFound is returned by a schema lookup for a name that has no
	// corresponding field entry.
	ErrFieldNotFound = errors.New("field not found")

	// ErrWrongValueType is returned when a typed accessor is invoked against
	// a field of a different declared value type.
	ErrWrongValueType = errors.New("field has a different value type")

	// ErrNoSuitableCodec is returned when codec selection can't find an
	// eligible codec for the requested value domain.
	ErrNoSuitableCodec = errors.New("no suitable codec for input")

	// ErrInvalidTerm is returned when a term dictionary builder is asked
	// to insert an empty term.
	ErrInvalidTerm = errors.New("invalid empty term")

	// ErrDuplicateTerm is returned by the collision tracker when the same
	// key is tracked twice. termdict.Builder reports a repeated term as
	// ErrTermNotSorted, since its ordering check runs first.
	ErrDuplicateTerm = errors.New("duplicate term")

	// ErrTermNotSorted is returned when a term dictionary is built from an
	// input that isn't already sorted by term bytes.
	ErrTermNotSorted = errors.New("terms not sorted")

	// ErrComponentNotFound is returned by a Directory when the requested
	// segment component doesn't exist. Only Positions and Delete are
	// ever legitimately absent; every other component surfacing this
	// error is a data-corruption condition at the caller.
	ErrComponentNotFound = errors.New("segment component not found")
)
