// Package fastfield implements typed, per-document columnar accessors
// keyed by field name, including dotted JSON sub-paths (spec §4.3).
// Every numeric, bool, date and IP value type rides on top of
// columnar's u64 (or, for IP, u128) codec family; str and bytes fields
// use a small dictionary + per-document ordinal column layered on the
// same family.
package fastfield

import (
	"fmt"
	"math"
	"net"
	"sort"

	"github.com/nextfts/segreader/columnar"
	"github.com/nextfts/segreader/compositefile"
	"github.com/nextfts/segreader/errs"
	"github.com/nextfts/segreader/format"
	"github.com/nextfts/segreader/internal/pool"
	"github.com/nextfts/segreader/schema"
	"github.com/nextfts/segreader/section"
)

// Discriminators partition a field's composite-file key space by
// column kind. JSON sub-paths instead use discriminators 0..N-1 in
// path-directory order (see PathDirDiscriminator).
const (
	discriminatorNumeric   = 1
	discriminatorStrDict   = 2
	discriminatorStrOrds   = 3
	discriminatorBytesDict = 4
	discriminatorBytesOrds = 5
	discriminatorIP        = 6

	// PathDirDiscriminator is the reserved key under which a JSON
	// field's sub-path directory is stored, both on the fast-field side
	// (this package) and, reusing the same format, on the indexed side
	// (segment.buildInvertedIndex, spec §4.5 step 1).
	PathDirDiscriminator = ^uint32(0)
)

// Reader exposes every fast field declared in schema, backed by a
// composite file of per-field (and per-JSON-sub-path) columns.
type Reader struct {
	composite compositefile.File
	schema    *schema.Schema
	canon     *schema.PathCanonicalizer
}

// Open builds a Reader over composite using schema to resolve field
// names to ids.
func Open(composite compositefile.File, sch *schema.Schema) *Reader {
	return &Reader{composite: composite, schema: sch, canon: schema.NewPathCanonicalizer()}
}

// ColumnHandle names one addressable column this Reader can open.
type ColumnHandle struct {
	Name string
	Type format.ValueType
}

// Columns enumerates every (column_name, column_handle) pair across
// declared fast fields, including JSON sub-paths (spec §4.3 "iterate
// all (column_name, column_handle)").
func (r *Reader) Columns() []ColumnHandle {
	var out []ColumnHandle

	for _, field := range r.schema.Fields() {
		entry := r.schema.GetFieldEntry(field)
		if !entry.Fast() {
			continue
		}

		if entry.Type != format.ValueJSON {
			out = append(out, ColumnHandle{Name: entry.Name, Type: entry.Type})
			continue
		}

		for _, path := range r.jsonSubPaths(uint32(field)) { //nolint:gosec
			full := r.canon.Canonicalize(entry.Name, path, entry.ExpandDots())
			out = append(out, ColumnHandle{Name: full, Type: format.ValueJSON})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}

		return out[i].Type < out[j].Type
	})

	return out
}

func (r *Reader) jsonSubPaths(field uint32) []string {
	dirSlice, ok := r.composite.OpenRead(compositefile.Key{Field: field, Discriminator: PathDirDiscriminator})
	if !ok {
		return nil
	}

	raw, err := dirSlice.ReadBytes()
	if err != nil {
		return nil
	}

	return DecodePathDirectory(raw)
}

// OpenU64 opens name's column on the raw u64 domain, used directly by
// ValueU64 fields and as the substrate for every other numeric type.
func (r *Reader) OpenU64(name string) (columnar.Column, error) {
	field, err := r.schema.GetField(name)
	if err != nil {
		return nil, err
	}

	slice, ok := r.composite.OpenRead(compositefile.Key{Field: uint32(field), Discriminator: discriminatorNumeric}) //nolint:gosec
	if !ok {
		return columnar.FromSlice(nil), nil
	}

	raw, err := slice.ReadBytes()
	if err != nil {
		return nil, err
	}

	return columnar.Deserialize(raw)
}

// OpenI64 opens name's column, undoing the zigzag mapping applied at
// encode time to store signed values in the u64 codec family.
func (r *Reader) OpenI64(name string) (Int64Column, error) {
	col, err := r.OpenU64(name)
	if err != nil {
		return Int64Column{}, err
	}

	return Int64Column{inner: col}, nil
}

// OpenF64 opens name's column, reinterpreting each stored u64 as the
// raw bits of a float64.
func (r *Reader) OpenF64(name string) (Float64Column, error) {
	col, err := r.OpenU64(name)
	if err != nil {
		return Float64Column{}, err
	}

	return Float64Column{inner: col}, nil
}

// OpenBool opens name's column, interpreting 0/1 as false/true.
func (r *Reader) OpenBool(name string) (BoolColumn, error) {
	col, err := r.OpenU64(name)
	if err != nil {
		return BoolColumn{}, err
	}

	return BoolColumn{inner: col}, nil
}

// OpenDate opens name's column, treating the stored value as signed
// microseconds since epoch (the same representation OpenI64 uses).
func (r *Reader) OpenDate(name string) (Int64Column, error) {
	return r.OpenI64(name)
}

// OpenIP opens name's column on the u128 domain (spec §4.3 "typed
// accessor ... ip"), backed by columnar's wide/CompactSpace family.
func (r *Reader) OpenIP(name string) (IPColumn, error) {
	field, err := r.schema.GetField(name)
	if err != nil {
		return IPColumn{}, err
	}

	slice, ok := r.composite.OpenRead(compositefile.Key{Field: uint32(field), Discriminator: discriminatorIP}) //nolint:gosec
	if !ok {
		return IPColumn{inner: columnar.EmptyWide()}, nil
	}

	raw, err := slice.ReadBytes()
	if err != nil {
		return IPColumn{}, err
	}

	col, err := columnar.DeserializeWide(raw)
	if err != nil {
		return IPColumn{}, err
	}

	return IPColumn{inner: col}, nil
}

// StrDictReader is a per-document string column: a sorted dictionary of
// distinct values plus a per-document ordinal into it.
type StrDictReader struct {
	dict     []string
	ordinals columnar.Column
}

// Len returns the number of documents the ordinal column covers.
func (r StrDictReader) Len() int { return r.ordinals.Len() }

// Get returns doc idx's string value.
func (r StrDictReader) Get(idx int) string {
	ord := r.ordinals.Get(idx)
	if int(ord) >= len(r.dict) { //nolint:gosec
		return ""
	}

	return r.dict[ord]
}

// FacetReader restricts StrDictReader to fields declared ValueFacet
// (spec's "hierarchical facet path, stored as a fast str column").
type FacetReader struct {
	StrDictReader
}

// openStrDict opens name's dictionary and ordinal columns, shared by
// OpenStrDict and FacetReader.
func (r *Reader) openStrDict(name string) (StrDictReader, error) {
	field, err := r.schema.GetField(name)
	if err != nil {
		return StrDictReader{}, err
	}

	dictSlice, ok := r.composite.OpenRead(compositefile.Key{Field: uint32(field), Discriminator: discriminatorStrDict}) //nolint:gosec
	var dict []string
	if ok {
		raw, err := dictSlice.ReadBytes()
		if err != nil {
			return StrDictReader{}, err
		}
		dict = DecodePathDirectory(raw)
	}

	ordSlice, ok := r.composite.OpenRead(compositefile.Key{Field: uint32(field), Discriminator: discriminatorStrOrds}) //nolint:gosec
	var ordinals columnar.Column = columnar.FromSlice(nil)
	if ok {
		raw, err := ordSlice.ReadBytes()
		if err != nil {
			return StrDictReader{}, err
		}
		ordinals, err = columnar.Deserialize(raw)
		if err != nil {
			return StrDictReader{}, err
		}
	}

	return StrDictReader{dict: dict, ordinals: ordinals}, nil
}

// OpenStrDict opens name's fast string column.
func (r *Reader) OpenStrDict(name string) (StrDictReader, error) {
	return r.openStrDict(name)
}

// FacetReader opens name as a facet column, returning
// errs.ErrWrongValueType if the field isn't declared ValueFacet.
func (r *Reader) FacetReader(name string) (FacetReader, error) {
	field, err := r.schema.GetField(name)
	if err != nil {
		return FacetReader{}, err
	}

	entry := r.schema.GetFieldEntry(field)
	if entry.Type != format.ValueFacet {
		return FacetReader{}, fmt.Errorf("%w: %q is %s, not Facet", errs.ErrWrongValueType, name, entry.Type)
	}

	dict, err := r.openStrDict(name)
	if err != nil {
		return FacetReader{}, err
	}

	return FacetReader{StrDictReader: dict}, nil
}

// BytesDictReader is a per-document byte-string column: a dictionary of
// distinct values plus a per-document ordinal into it, the bytes
// analogue of StrDictReader for fields that carry raw bytes rather than
// UTF-8 text (spec §4.3, ValueBytes).
type BytesDictReader struct {
	dict     [][]byte
	ordinals columnar.Column
}

// Len returns the number of documents the ordinal column covers.
func (r BytesDictReader) Len() int { return r.ordinals.Len() }

// Get returns doc idx's byte-string value.
func (r BytesDictReader) Get(idx int) []byte {
	ord := r.ordinals.Get(idx)
	if int(ord) >= len(r.dict) { //nolint:gosec
		return nil
	}

	return r.dict[ord]
}

// OpenBytes opens name's fast bytes column.
func (r *Reader) OpenBytes(name string) (BytesDictReader, error) {
	field, err := r.schema.GetField(name)
	if err != nil {
		return BytesDictReader{}, err
	}

	dictSlice, ok := r.composite.OpenRead(compositefile.Key{Field: uint32(field), Discriminator: discriminatorBytesDict}) //nolint:gosec
	var dict [][]byte
	if ok {
		raw, err := dictSlice.ReadBytes()
		if err != nil {
			return BytesDictReader{}, err
		}
		dict = decodeDirectory(raw)
	}

	ordSlice, ok := r.composite.OpenRead(compositefile.Key{Field: uint32(field), Discriminator: discriminatorBytesOrds}) //nolint:gosec
	var ordinals columnar.Column = columnar.FromSlice(nil)
	if ok {
		raw, err := ordSlice.ReadBytes()
		if err != nil {
			return BytesDictReader{}, err
		}
		ordinals, err = columnar.Deserialize(raw)
		if err != nil {
			return BytesDictReader{}, err
		}
	}

	return BytesDictReader{dict: dict, ordinals: ordinals}, nil
}

// EncodeStrDictColumn serializes a sorted dictionary and its per-document
// ordinal column, for assembling a str fast field's two sub-files.
func EncodeStrDictColumn(dict []string, ordinals []uint64) (dictBytes, ordinalsBytes []byte) {
	return EncodePathDirectory(dict), columnar.Serialize(ordinals)
}

// EncodeBytesDictColumn serializes a dictionary of byte strings and its
// per-document ordinal column, the bytes analogue of EncodeStrDictColumn.
func EncodeBytesDictColumn(dict [][]byte, ordinals []uint64) (dictBytes, ordinalsBytes []byte) {
	return encodeDirectory(dict), columnar.Serialize(ordinals)
}

// BuildOrdinals resolves each value against dict (sorted ascending) and
// returns its ordinal, for assembling a dictionary column's per-document
// ordinal slice. Uses a pooled int64 scratch buffer for the
// binary-search results before copying into the final u64 slice the
// caller retains, mirroring the encode-into-scratch-then-copy discipline
// internal/pool.ByteBufferPool callers follow elsewhere in this module.
func BuildOrdinals(values []string, dict []string) []uint64 {
	scratch, cleanup := pool.GetInt64Slice(len(values))
	defer cleanup()

	for i, v := range values {
		scratch[i] = int64(sort.SearchStrings(dict, v)) //nolint:gosec
	}

	out := make([]uint64, len(values))
	for i, v := range scratch {
		out[i] = uint64(v) //nolint:gosec
	}

	return out
}

// SpaceUsage aggregates per-field byte counts for every fast field
// declared in schema.
func (r *Reader) SpaceUsage() map[string]uint64 {
	raw := r.composite.SpaceUsage()

	out := make(map[string]uint64, len(raw))
	for _, field := range r.schema.Fields() {
		entry := r.schema.GetFieldEntry(field)
		if entry.Fast() {
			out[entry.Name] = raw[uint32(field)] //nolint:gosec
		}
	}

	return out
}

// Int64Column reinterprets an underlying u64 Column via zigzag decode.
type Int64Column struct{ inner columnar.Column }

func (c Int64Column) Len() int { return c.inner.Len() }
func (c Int64Column) Get(idx int) int64 {
	v := c.inner.Get(idx)
	return int64(v>>1) ^ -int64(v&1) //nolint:gosec
}

// Float64Column reinterprets an underlying u64 Column's bit pattern as
// IEEE-754 float64.
type Float64Column struct{ inner columnar.Column }

func (c Float64Column) Len() int            { return c.inner.Len() }
func (c Float64Column) Get(idx int) float64 { return math.Float64frombits(c.inner.Get(idx)) }

// BoolColumn reinterprets an underlying u64 Column as booleans.
type BoolColumn struct{ inner columnar.Column }

func (c BoolColumn) Len() int         { return c.inner.Len() }
func (c BoolColumn) Get(idx int) bool { return c.inner.Get(idx) != 0 }

// IPColumn reinterprets an underlying WideColumn as IPv4-mapped or IPv6
// net.IP values.
type IPColumn struct{ inner columnar.WideColumn }

func (c IPColumn) Len() int           { return c.inner.Len() }
func (c IPColumn) Get(idx int) net.IP { return u128ToIP(c.inner.Get(idx)) }

// EncodeI64Values zigzag-maps signed values into the u64 domain
// OpenI64/OpenDate expect, for callers assembling a column to encode.
func EncodeI64Values(values []int64) []uint64 {
	out := make([]uint64, len(values))
	for i, v := range values {
		out[i] = uint64(v<<1) ^ uint64(v>>63) //nolint:gosec
	}

	return out
}

// EncodeF64Values reinterprets float64 bit patterns as the u64 domain
// OpenF64 expects.
func EncodeF64Values(values []float64) []uint64 {
	out := make([]uint64, len(values))
	for i, v := range values {
		out[i] = math.Float64bits(v)
	}

	return out
}

// EncodeIPValues maps IP addresses into the u128 domain OpenIP expects
// and serializes them with the wide column family.
func EncodeIPValues(ips []net.IP) []byte {
	values := make([]columnar.U128, len(ips))
	for i, ip := range ips {
		values[i] = ipToU128(ip)
	}

	return columnar.SerializeWide(values)
}

// ipToU128 maps an IPv4 or IPv6 address onto the u128 domain: IPv4
// addresses are stored in their IPv4-mapped IPv6 form, matching the
// original's "v4-mapped or v6" representation (format.ValueIP).
func ipToU128(ip net.IP) columnar.U128 {
	b := ip.To16()
	if b == nil {
		b = make([]byte, 16)
	}

	var hi, lo uint64
	for i := range 8 {
		hi = hi<<8 | uint64(b[i])
	}
	for i := 8; i < 16; i++ {
		lo = lo<<8 | uint64(b[i])
	}

	return columnar.U128{Hi: hi, Lo: lo}
}

func u128ToIP(u columnar.U128) net.IP {
	b := make(net.IP, 16)
	for i := 7; i >= 0; i-- {
		b[i] = byte(u.Hi)
		u.Hi >>= 8
	}
	for i := 15; i >= 8; i-- {
		b[i] = byte(u.Lo)
		u.Lo >>= 8
	}

	return b
}

// encodeDirectory serializes entries as a VInt-length-prefixed
// directory: VInt(len(entry)) followed by entry's raw bytes, repeated.
func encodeDirectory(entries [][]byte) []byte {
	var buf []byte
	for _, e := range entries {
		buf = section.PutVInt(buf, uint64(len(e)))
		buf = append(buf, e...)
	}

	return buf
}

// decodeDirectory parses a directory produced by encodeDirectory. A
// truncated trailing entry is dropped rather than erroring, matching
// the teacher's forgiving tail-parsing style for sub-file directories.
func decodeDirectory(raw []byte) [][]byte {
	var entries [][]byte

	offset := 0
	for offset < len(raw) {
		length, n, err := section.ReadVInt(raw[offset:])
		if err != nil {
			break
		}
		offset += n

		end := offset + int(length) //nolint:gosec
		if end > len(raw) {
			break
		}
		entries = append(entries, raw[offset:end])
		offset = end
	}

	return entries
}

// DecodePathDirectory decodes a VInt-length-prefixed directory of
// strings, shared by the fast-field path directory (jsonSubPaths) and,
// reusing the identical on-disk format, the indexed side's JSON
// sub-path directory (segment.buildInvertedIndex, spec §4.5 step 1).
func DecodePathDirectory(raw []byte) []string {
	entries := decodeDirectory(raw)
	if len(entries) == 0 {
		return nil
	}

	scratch, cleanup := pool.GetStringSlice(len(entries))
	defer cleanup()

	for i, e := range entries {
		scratch[i] = string(e)
	}

	out := make([]string, len(entries))
	copy(out, scratch)

	return out
}

// EncodePathDirectory serializes sub-paths as a VInt-length-prefixed
// directory, matching DecodePathDirectory. Used by whatever assembles a
// JSON field's fast-field (or indexed) columns before writing them into
// a composite file.
func EncodePathDirectory(paths []string) []byte {
	entries := make([][]byte, len(paths))
	for i, p := range paths {
		entries[i] = []byte(p)
	}

	return encodeDirectory(entries)
}
