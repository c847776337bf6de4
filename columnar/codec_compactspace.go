package columnar

import (
	"sort"

	"github.com/nextfts/segreader/errs"
	"github.com/nextfts/segreader/format"
	"github.com/nextfts/segreader/section"
)

// compactRange is one run of consecutive (diff == 1) values collapsed
// into a single piecewise segment (§4.2 "CompactSpace: the 128-bit
// codec, a piecewise mapping from the observed value set into a dense
// range, then bit-packed"). CompactSpace is the sole codec for the
// u128/wide family: unlike the u64 codecs it has no min/gcd
// normalization step, since WideHeader carries no such fields.
type compactRange struct {
	start      U128 // first value in the range
	length     uint64
	codeOffset uint64 // first code assigned to this range
}

func rangeEnd(r compactRange) U128 {
	return r.start.Add(r.length)
}

func buildCompactRanges(values []U128) []compactRange {
	unique := uniqueSortedWide(values)
	if len(unique) == 0 {
		return nil
	}

	var ranges []compactRange
	rangeStart := unique[0]
	rangeLen := uint64(1)

	flush := func(start U128, length uint64) {
		var offset uint64
		if len(ranges) > 0 {
			last := ranges[len(ranges)-1]
			offset = last.codeOffset + last.length
		}
		ranges = append(ranges, compactRange{start: start, length: length, codeOffset: offset})
	}

	for i := 1; i < len(unique); i++ {
		if unique[i].Equal(unique[i-1].Next()) {
			rangeLen++
			continue
		}

		flush(rangeStart, rangeLen)
		rangeStart = unique[i]
		rangeLen = 1
	}
	flush(rangeStart, rangeLen)

	return ranges
}

func uniqueSortedWide(values []U128) []U128 {
	if len(values) == 0 {
		return nil
	}

	sorted := make([]U128, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	out := sorted[:1]
	for _, v := range sorted[1:] {
		if !v.Equal(out[len(out)-1]) {
			out = append(out, v)
		}
	}

	return out
}

// codeFor finds the range covering val and returns its assigned code.
// Ranges are sorted by start, so binary search locates the candidate.
func codeFor(ranges []compactRange, val U128) uint64 {
	i := sort.Search(len(ranges), func(i int) bool { return !rangeEnd(ranges[i]).Less(val.Next()) })

	r := ranges[i]

	return r.codeOffset + val.Sub(r.start)
}

func valueForCode(ranges []compactRange, code uint64) U128 {
	i := sort.Search(len(ranges), func(i int) bool { return ranges[i].codeOffset+ranges[i].length > code })

	r := ranges[i]

	return r.start.Add(code - r.codeOffset)
}

func maxCode(ranges []compactRange) uint64 {
	if len(ranges) == 0 {
		return 0
	}

	last := ranges[len(ranges)-1]

	return last.codeOffset + last.length - 1
}

// EncodeCompactSpaceColumn serializes wide values with the CompactSpace
// codec: a WideHeader, the range table (VInt count then per-range
// VInt(start.Hi), VInt(start.Lo), VInt(length)), a bit width byte, then
// the bit-packed per-value codes.
func EncodeCompactSpaceColumn(values []U128) []byte {
	ranges := buildCompactRanges(values)
	bitWidth := BitWidth(maxCode(ranges))

	header := section.WideHeader{
		Codec:   format.CodecCompactSpace,
		NumVals: uint32(len(values)), //nolint:gosec
	}

	buf := header.Bytes()
	buf = section.PutVInt(buf, uint64(len(ranges)))

	for _, r := range ranges {
		buf = section.PutVInt(buf, r.start.Hi)
		buf = section.PutVInt(buf, r.start.Lo)
		buf = section.PutVInt(buf, r.length)
	}
	buf = append(buf, byte(bitWidth))

	codes := make([]uint64, len(values))
	for i, v := range values {
		codes[i] = codeFor(ranges, v)
	}
	buf = append(buf, EncodeBitpacked(codes, bitWidth)...)

	return buf
}

// CompactSpaceEncodedSize mirrors EncodeCompactSpaceColumn's output
// length. CompactSpace is the sole codec for the wide family, so this
// exists for symmetry with the u64 codecs' *EncodedSize helpers rather
// than for a competing size comparison.
func CompactSpaceEncodedSize(values []U128) int {
	ranges := buildCompactRanges(values)
	bitWidth := BitWidth(maxCode(ranges))

	header := section.WideHeader{NumVals: uint32(len(values))} //nolint:gosec
	size := header.Len()
	size += section.VIntLen(uint64(len(ranges)))

	for _, r := range ranges {
		size += section.VIntLen(r.start.Hi)
		size += section.VIntLen(r.start.Lo)
		size += section.VIntLen(r.length)
	}
	size++ // bit width byte
	size += BitpackedSize(len(values), bitWidth)

	return size
}

type compactSpaceColumn struct {
	payload  []byte
	n        int
	bitWidth int
	ranges   []compactRange
}

func (c *compactSpaceColumn) Len() int { return c.n }

func (c *compactSpaceColumn) Get(idx int) U128 {
	if idx < 0 || idx >= c.n {
		panic("columnar: index out of range")
	}

	code := DecodeBitpackedAt(c.payload, idx, c.bitWidth)

	return valueForCode(c.ranges, code)
}

func (c *compactSpaceColumn) Iter() *WideColumnCursor { return newWideCursor(c) }

// DecodeCompactSpaceColumn parses a column produced by
// EncodeCompactSpaceColumn.
func DecodeCompactSpaceColumn(data []byte) (WideColumn, error) {
	header, headerLen, err := section.ParseWideHeader(data)
	if err != nil {
		return nil, err
	}
	if header.Codec != format.CodecCompactSpace {
		return nil, errs.ErrDataCorruption
	}

	offset := headerLen

	numRanges, n, err := section.ReadVInt(data[offset:])
	if err != nil {
		return nil, err
	}
	offset += n

	ranges := make([]compactRange, 0, numRanges)
	var codeOffset uint64
	for i := uint64(0); i < numRanges; i++ {
		hi, n, err := section.ReadVInt(data[offset:])
		if err != nil {
			return nil, err
		}
		offset += n

		lo, n, err := section.ReadVInt(data[offset:])
		if err != nil {
			return nil, err
		}
		offset += n

		length, n, err := section.ReadVInt(data[offset:])
		if err != nil {
			return nil, err
		}
		offset += n

		ranges = append(ranges, compactRange{start: U128{Hi: hi, Lo: lo}, length: length, codeOffset: codeOffset})
		codeOffset += length
	}

	if offset >= len(data) {
		return nil, errs.ErrInvalidHeaderSize
	}
	bitWidth := int(data[offset])
	offset++

	return &compactSpaceColumn{
		payload:  data[offset:],
		n:        int(header.NumVals),
		bitWidth: bitWidth,
		ranges:   ranges,
	}, nil
}
