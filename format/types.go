// Package format defines the small closed enumerations shared by every
// on-disk structure in the segment read path: per-column codec
// discriminators and per-field value types. Keeping them in one leaf
// package (with no dependents of its own) lets section, columnar, schema
// and segment all agree on the same discriminator bytes without an
// import cycle.
package format

// CodecType identifies which columnar codec produced a normalized
// column's payload. It is the discriminator byte stored as the first
// byte of a NormalizedHeader (see section.NormalizedHeader), or as the
// last byte of a WideHeader.
type CodecType uint8

const (
	// CodecBitpacked stores every value at a fixed bit width, packed
	// LSB-first. A zero bit width is legal: the payload is empty and every
	// value equals the column's minimum.
	CodecBitpacked CodecType = 0x1
	// CodecLinear fits an affine predictor over the whole column and
	// bit-packs the residuals.
	CodecLinear CodecType = 0x2
	// CodecBlockwiseLinear is CodecLinear applied per fixed-size block,
	// trading a small per-block header for a tighter residual bit width on
	// columns whose slope changes over the value range.
	CodecBlockwiseLinear CodecType = 0x3
	// CodecCompactSpace trains a piecewise mapping from the observed
	// 128-bit value set into a dense integer range, then bit-packs the
	// mapped values. It is the only codec for the wide (u128) column kind.
	CodecCompactSpace CodecType = 0x4
)

func (c CodecType) String() string {
	switch c {
	case CodecBitpacked:
		return "Bitpacked"
	case CodecLinear:
		return "Linear"
	case CodecBlockwiseLinear:
		return "BlockwiseLinear"
	case CodecCompactSpace:
		return "CompactSpace"
	default:
		return "Unknown"
	}
}

// codecPriority breaks size ties deterministically during codec
// selection: bit-packed < linear < blockwise-linear (§4.2 "Codec
// selection"). CodecCompactSpace never competes in this tie-break: it is
// the sole codec for the u128 family.
func (c CodecType) priority() int {
	switch c {
	case CodecBitpacked:
		return 0
	case CodecLinear:
		return 1
	case CodecBlockwiseLinear:
		return 2
	default:
		return 3
	}
}

// Less reports whether c should be preferred over other when both codecs
// produce the same encoded size.
func (c CodecType) Less(other CodecType) bool {
	return c.priority() < other.priority()
}

// ValueType is a field's declared value type, as supplied by the schema
// collaborator (§3 "Field entry").
type ValueType uint8

const (
	ValueText  ValueType = iota + 1 // ValueText is a tokenized/full-text string field.
	ValueU64                        // ValueU64 is an unsigned 64-bit integer field.
	ValueI64                        // ValueI64 is a signed 64-bit integer field.
	ValueF64                        // ValueF64 is a 64-bit floating point field.
	ValueBool                       // ValueBool is a boolean field.
	ValueDate                       // ValueDate is a timestamp field (stored as i64 microseconds).
	ValueFacet                      // ValueFacet is a hierarchical facet path, stored as a fast str column.
	ValueBytes                      // ValueBytes is an opaque byte-string field.
	ValueJSON                       // ValueJSON is a dynamically-typed JSON object field.
	ValueIP                         // ValueIP is a 128-bit (v4-mapped or v6) IP address field.
)

func (t ValueType) String() string {
	switch t {
	case ValueText:
		return "Text"
	case ValueU64:
		return "U64"
	case ValueI64:
		return "I64"
	case ValueF64:
		return "F64"
	case ValueBool:
		return "Bool"
	case ValueDate:
		return "Date"
	case ValueFacet:
		return "Facet"
	case ValueBytes:
		return "Bytes"
	case ValueJSON:
		return "JSON"
	case ValueIP:
		return "IP"
	default:
		return "Unknown"
	}
}

// IndexRecordOption describes how much a field's postings record beyond
// doc ids: just presence, presence+frequency, or presence+frequency+positions.
type IndexRecordOption uint8

const (
	IndexRecordBasic             IndexRecordOption = iota + 1 // doc ids only
	IndexRecordFreq                                           // doc ids + term frequency
	IndexRecordFreqAndPositions                                // doc ids + term frequency + positions
)

func (o IndexRecordOption) String() string {
	switch o {
	case IndexRecordBasic:
		return "Basic"
	case IndexRecordFreq:
		return "Freq"
	case IndexRecordFreqAndPositions:
		return "FreqAndPositions"
	default:
		return "Unknown"
	}
}

// HasFreq reports whether this option records term frequency.
func (o IndexRecordOption) HasFreq() bool {
	return o == IndexRecordFreq || o == IndexRecordFreqAndPositions
}

// HasPositions reports whether this option records term positions.
func (o IndexRecordOption) HasPositions() bool {
	return o == IndexRecordFreqAndPositions
}

// Clamp lowers want to whatever the field actually recorded at index
// time (§4.4 "read_postings(term, requested_option)"). A caller can
// never get more than what was recorded, only less.
func Clamp(want, recorded IndexRecordOption) IndexRecordOption {
	if want > recorded {
		return recorded
	}

	return want
}

// SegmentComponent is the closed enumeration of named sub-files a
// Segment exposes (§6 "Segment component namespace"). Positions and
// Delete may be absent; every other component is mandatory.
type SegmentComponent uint8

const (
	ComponentTerms SegmentComponent = iota + 1
	ComponentPostings
	ComponentPositions
	ComponentStore
	ComponentFastFields
	ComponentFieldNorms
	ComponentDelete
)

func (c SegmentComponent) String() string {
	switch c {
	case ComponentTerms:
		return "Terms"
	case ComponentPostings:
		return "Postings"
	case ComponentPositions:
		return "Positions"
	case ComponentStore:
		return "Store"
	case ComponentFastFields:
		return "FastFields"
	case ComponentFieldNorms:
		return "FieldNorms"
	case ComponentDelete:
		return "Delete"
	default:
		return "Unknown"
	}
}
