// Package schema implements the schema-collaborator contract a
// SegmentReader consumes for field lookups: Field handles, FieldEntry
// metadata, and the flag set that drives indexing and fast-field
// decisions (spec §3 "Field entry", §6 "Schema collaborator interface").
package schema

import (
	"fmt"
	"sort"

	"github.com/nextfts/segreader/errs"
	"github.com/nextfts/segreader/format"
)

// Field is an opaque, dense handle into a Schema's field list. It is
// stable for the lifetime of the Schema that produced it.
type Field uint32

// Flags is the bit set of per-field behaviors §3 enumerates.
type Flags uint8

const (
	FlagIndexed Flags = 1 << iota
	FlagStored
	FlagFast
	FlagRecordNorm
	FlagExpandDots
)

// Has reports whether every bit in want is set in f.
func (f Flags) Has(want Flags) bool { return f&want == want }

// FieldEntry is the schema's per-field metadata record.
type FieldEntry struct {
	Name         string
	Type         format.ValueType
	Flags        Flags
	RecordOption format.IndexRecordOption
}

// Indexed reports whether the field was declared indexed.
func (e FieldEntry) Indexed() bool { return e.Flags.Has(FlagIndexed) }

// Stored reports whether the field's value is kept in the document store.
func (e FieldEntry) Stored() bool { return e.Flags.Has(FlagStored) }

// Fast reports whether the field has a columnar fast-field representation.
func (e FieldEntry) Fast() bool { return e.Flags.Has(FlagFast) }

// RecordsNorm reports whether a field-length norm is recorded for this field.
func (e FieldEntry) RecordsNorm() bool { return e.Flags.Has(FlagRecordNorm) }

// ExpandDots reports whether '.' in a JSON sub-path under this field is a
// structural separator (true) or a literal byte requiring escaping (false).
func (e FieldEntry) ExpandDots() bool { return e.Flags.Has(FlagExpandDots) }

// Schema is an ordered, immutable list of field entries, indexed both by
// position (Field) and by name.
type Schema struct {
	entries []FieldEntry
	byName  map[string]Field
}

// New builds a Schema from entries, in the given order. Field handles are
// assigned densely starting at 0.
func New(entries []FieldEntry) *Schema {
	byName := make(map[string]Field, len(entries))
	for i, e := range entries {
		byName[e.Name] = Field(i) //nolint:gosec
	}

	return &Schema{entries: entries, byName: byName}
}

// Fields returns every Field handle in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.entries))
	for i := range s.entries {
		out[i] = Field(i) //nolint:gosec
	}

	return out
}

// GetField resolves a field by name.
func (s *Schema) GetField(name string) (Field, error) {
	f, ok := s.byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: field %q", errs.ErrFieldNotFound, name)
	}

	return f, nil
}

// FindField is the non-error counterpart of GetField, used by callers
// that treat a missing field as absence rather than failure.
func (s *Schema) FindField(name string) (Field, bool) {
	f, ok := s.byName[name]

	return f, ok
}

// GetFieldEntry returns field's metadata. Panics if field is out of
// range: a Field handle only ever comes from this same Schema.
func (s *Schema) GetFieldEntry(field Field) FieldEntry {
	return s.entries[field]
}

// GetFieldName is the inverse of GetField.
func (s *Schema) GetFieldName(field Field) string {
	return s.entries[field].Name
}

// IsStored reports whether the named field is stored, returning false
// for an unknown name rather than an error: callers use this as a
// predicate while merging metadata (spec §4.5 "Fields metadata" step 4).
func (s *Schema) IsStored(name string) bool {
	f, ok := s.byName[name]
	if !ok {
		return false
	}

	return s.entries[f].Stored()
}

// IndexedFields returns the (name, type) pairs for every indexed field,
// sorted by name then type, matching the deterministic ordering the
// metadata merge requires.
func (s *Schema) IndexedFields() []FieldMetadataKey {
	var out []FieldMetadataKey
	for _, e := range s.entries {
		if e.Indexed() {
			out = append(out, FieldMetadataKey{Name: e.Name, Type: e.Type})
		}
	}

	sortMetadataKeys(out)

	return out
}

// FieldMetadataKey is the (name, type) equality key used to merge the
// indexed-fields and fast-fields lists (spec §3 "Field metadata view").
type FieldMetadataKey struct {
	Name string
	Type format.ValueType
}

func sortMetadataKeys(keys []FieldMetadataKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Name != keys[j].Name {
			return keys[i].Name < keys[j].Name
		}

		return keys[i].Type < keys[j].Type
	})
}
