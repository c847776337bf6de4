// Package compositefile implements §4.1: a composite file is a mapping
// from a key (a field id plus an optional discriminator) to a contiguous,
// non-overlapping byte range inside one backing fileslice.Slice. It is
// the container format every per-field sub-file (term dictionary,
// postings, positions) rides inside.
package compositefile

import (
	"sort"

	"github.com/nextfts/segreader/errs"
	"github.com/nextfts/segreader/fileslice"
	"github.com/nextfts/segreader/section"
)

// Key identifies one entry in a composite file: a field id plus an
// optional discriminator distinguishing multiple sub-ranges for the same
// field (e.g. a JSON field's per-type postings). Key packs both into a
// single uint64 so it can ride directly in section.TrailerEntry.
type Key struct {
	Field         uint32
	Discriminator uint32
}

func (k Key) pack() uint64 {
	return uint64(k.Field)<<32 | uint64(k.Discriminator)
}

func unpackKey(v uint64) Key {
	return Key{Field: uint32(v >> 32), Discriminator: uint32(v)}
}

// FieldKey builds a Key with no discriminator, the common case of one
// sub-range per field.
func FieldKey(field uint32) Key {
	return Key{Field: field}
}

// File is a parsed composite file: a directory of Key -> byte range,
// plus the backing slice those ranges are cut from.
type File struct {
	backing fileslice.Slice
	entries map[Key]section.TrailerEntry
	// order preserves trailer order of the keys.
	order []Key
}

// Empty returns a composite file with no keys. Every OpenRead on it
// returns (Slice{}, false), matching §4.1's "empty() constructor".
func Empty() File {
	return File{entries: map[Key]section.TrailerEntry{}}
}

// Open parses the trailer-encoded directory at the tail of backing and
// returns the composite file view over it. It returns
// errs.ErrDataCorruption if the trailer is malformed, two entries claim
// the same key, two ranges overlap, or a range exceeds backing.
func Open(backing fileslice.Slice) (File, error) {
	data, err := backing.ReadBytes()
	if err != nil {
		return File{}, err
	}

	rawEntries, err := section.ParseTrailer(data)
	if err != nil {
		return File{}, wrapCorruption("failed to parse composite file trailer", err)
	}

	f := File{
		backing: backing,
		entries: make(map[Key]section.TrailerEntry, len(rawEntries)),
		order:   make([]Key, 0, len(rawEntries)),
	}

	sorted := make([]section.TrailerEntry, len(rawEntries))
	copy(sorted, rawEntries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })

	var prevEnd uint64
	for i, e := range sorted {
		if e.Offset+e.Length > backing.Len() {
			return File{}, wrapCorruption("composite file entry exceeds backing slice", errs.ErrRangeOutOfBounds)
		}
		if i > 0 && e.Offset < prevEnd {
			return File{}, wrapCorruption("composite file entries overlap", errs.ErrRangeOverlap)
		}
		prevEnd = e.Offset + e.Length
	}

	for _, e := range rawEntries {
		key := unpackKey(e.Key)
		if _, exists := f.entries[key]; exists {
			return File{}, wrapCorruption("composite file has duplicate key", errs.ErrDuplicateKey)
		}
		f.entries[key] = e
		f.order = append(f.order, key)
	}

	return f, nil
}

// OpenRead returns the sub-slice registered for key, or (Slice{}, false)
// if the key is absent. Absence is not an error: callers distinguish
// "not present" from "present but empty" at this layer and decide what
// it means for their component.
func (f File) OpenRead(key Key) (fileslice.Slice, bool) {
	e, ok := f.entries[key]
	if !ok {
		return fileslice.Slice{}, false
	}

	return f.backing.Slice(e.Offset, e.Offset+e.Length), true
}

// OpenReadField is a convenience for the common case of a plain
// per-field key with no discriminator.
func (f File) OpenReadField(field uint32) (fileslice.Slice, bool) {
	return f.OpenRead(FieldKey(field))
}

// SpaceUsage reports, per field id, the total byte length registered
// under that field across all of its discriminators.
func (f File) SpaceUsage() map[uint32]uint64 {
	usage := make(map[uint32]uint64, len(f.order))
	for _, key := range f.order {
		usage[key.Field] += f.entries[key].Length
	}

	return usage
}

// NumKeys returns the number of entries in the composite file.
func (f File) NumKeys() int {
	return len(f.entries)
}

// DiscriminatorsForField returns, in ascending order, every
// discriminator registered for field. Used by multi-component fields
// (e.g. a JSON field's per-sub-path columns) to enumerate their own
// sub-ranges without a separate directory structure.
func (f File) DiscriminatorsForField(field uint32) []uint32 {
	var out []uint32
	for key := range f.entries {
		if key.Field == field {
			out = append(out, key.Discriminator)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

func wrapCorruption(comment string, cause error) error {
	return &corruptionError{comment: comment, cause: cause}
}

type corruptionError struct {
	comment string
	cause   error
}

func (e *corruptionError) Error() string {
	return "data corruption: " + e.comment + ": " + e.cause.Error()
}

func (e *corruptionError) Unwrap() []error {
	return []error{errs.ErrDataCorruption, e.cause}
}
