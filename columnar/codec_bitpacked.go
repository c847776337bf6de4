package columnar

import (
	"github.com/nextfts/segreader/errs"
	"github.com/nextfts/segreader/format"
	"github.com/nextfts/segreader/section"
)

// EncodeBitpackedColumn normalizes values and serializes them with the
// bit-packed codec: NormalizedHeader, a 1-byte bit width, VInt(min),
// VInt(gcd), then the bit-packed payload.
func EncodeBitpackedColumn(values []uint64) []byte {
	mapping := Normalize(values)
	normalized := mapping.ApplyAll(values)
	bitWidth := BitWidth(maxOf(normalized))

	header := section.NormalizedHeader{
		Codec:    format.CodecBitpacked,
		NumVals:  uint32(len(values)), //nolint:gosec
		MaxValue: maxOf(normalized),
	}

	buf := header.Bytes()
	buf = append(buf, byte(bitWidth))
	buf = section.PutVInt(buf, mapping.Min)
	buf = section.PutVInt(buf, mapping.GCD)
	buf = append(buf, EncodeBitpacked(normalized, bitWidth)...)

	return buf
}

// BitpackedEncodedSize returns the size EncodeBitpackedColumn would
// produce for values, without actually encoding them. Used by codec
// selection (§4.2 "Codec selection") to compare candidate sizes cheaply.
func BitpackedEncodedSize(values []uint64) int {
	mapping := Normalize(values)
	maxNorm := maxOfMapped(values, mapping)
	bitWidth := BitWidth(maxNorm)

	return section.NormalizedHeaderSize + 1 + section.VIntLen(mapping.Min) + section.VIntLen(mapping.GCD) + BitpackedSize(len(values), bitWidth)
}

type bitpackedColumn struct {
	payload  []byte
	n        int
	bitWidth int
	mapping  Mapping
}

func (c *bitpackedColumn) Len() int { return c.n }

func (c *bitpackedColumn) Get(idx int) uint64 {
	if idx < 0 || idx >= c.n {
		panic("columnar: index out of range")
	}

	return c.mapping.Invert(DecodeBitpackedAt(c.payload, idx, c.bitWidth))
}

func (c *bitpackedColumn) Min() uint64 { return c.mapping.Min }

func (c *bitpackedColumn) Max() uint64 {
	if c.n == 0 {
		return c.mapping.Min
	}

	m := c.Get(0)
	for i := 1; i < c.n; i++ {
		if v := c.Get(i); v > m {
			m = v
		}
	}

	return m
}

func (c *bitpackedColumn) Iter() *ColumnCursor { return newCursor(c) }

// DecodeBitpackedColumn parses a column produced by EncodeBitpackedColumn.
func DecodeBitpackedColumn(data []byte) (Column, error) {
	header, err := section.ParseNormalizedHeader(data)
	if err != nil {
		return nil, err
	}
	if header.Codec != format.CodecBitpacked {
		return nil, errs.ErrDataCorruption
	}

	offset := section.NormalizedHeaderSize
	if len(data) <= offset {
		return nil, errs.ErrInvalidHeaderSize
	}
	bitWidth := int(data[offset])
	offset++

	min, n, err := section.ReadVInt(data[offset:])
	if err != nil {
		return nil, err
	}
	offset += n

	gcd, n, err := section.ReadVInt(data[offset:])
	if err != nil {
		return nil, err
	}
	offset += n

	return &bitpackedColumn{
		payload:  data[offset:],
		n:        int(header.NumVals),
		bitWidth: bitWidth,
		mapping:  Mapping{Min: min, GCD: gcd},
	}, nil
}

func maxOf(values []uint64) uint64 {
	var m uint64
	for _, v := range values {
		if v > m {
			m = v
		}
	}

	return m
}

func maxOfMapped(values []uint64, m Mapping) uint64 {
	var max uint64
	for _, v := range values {
		n := m.Apply(v)
		if n > max {
			max = n
		}
	}

	return max
}
