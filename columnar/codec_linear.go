package columnar

import (
	"github.com/nextfts/segreader/errs"
	"github.com/nextfts/segreader/format"
	"github.com/nextfts/segreader/section"
)

// zigzag/unzigzag follow the teacher's varstring.go convention for
// turning a signed residual into an unsigned one suitable for VInt or
// bit-packed storage: (n << 1) ^ (n >> 63).
func zigzagEncode(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63) //nolint:gosec
}

func zigzagDecode(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1) //nolint:gosec
}

// linearResiduals fits a single affine predictor
// y = normalized[0] + slopeNum*i/slopeDen over normalized (slope computed
// from the first and last sample), and
// returns the signed residual at every index.
func linearResiduals(normalized []uint64) (slopeNum int64, slopeDen uint64, residuals []int64) {
	n := len(normalized)
	if n <= 1 {
		residuals = make([]int64, n)
		return 0, 1, residuals
	}

	slopeNum = int64(normalized[n-1]) - int64(normalized[0]) //nolint:gosec
	slopeDen = uint64(n - 1)                                 //nolint:gosec

	residuals = make([]int64, n)
	for i, v := range normalized {
		predicted := int64(normalized[0]) + slopeNum*int64(i)/int64(slopeDen) //nolint:gosec
		residuals[i] = int64(v) - predicted                                  //nolint:gosec
	}

	return slopeNum, slopeDen, residuals
}

func maxZigzag(residuals []int64) uint64 {
	var m uint64
	for _, r := range residuals {
		z := zigzagEncode(r)
		if z > m {
			m = z
		}
	}

	return m
}

// EncodeLinearColumn serializes values with the Linear codec: a
// NormalizedHeader, the affine predictor's parameters (first value,
// zigzag(slopeNum), slopeDen, residual bit width), then the bit-packed
// zigzag-encoded residuals.
func EncodeLinearColumn(values []uint64) []byte {
	mapping := Normalize(values)
	normalized := mapping.ApplyAll(values)

	slopeNum, slopeDen, residuals := linearResiduals(normalized)
	bitWidth := BitWidth(maxZigzag(residuals))

	header := section.NormalizedHeader{
		Codec:    format.CodecLinear,
		NumVals:  uint32(len(values)), //nolint:gosec
		MaxValue: maxOf(normalized),
	}

	buf := header.Bytes()
	buf = section.PutVInt(buf, mapping.Min)
	buf = section.PutVInt(buf, mapping.GCD)

	var first uint64
	if len(normalized) > 0 {
		first = normalized[0]
	}
	buf = section.PutVInt(buf, first)
	buf = section.PutVInt(buf, zigzagEncode(slopeNum))
	buf = section.PutVInt(buf, slopeDen)
	buf = append(buf, byte(bitWidth))

	zz := make([]uint64, len(residuals))
	for i, r := range residuals {
		zz[i] = zigzagEncode(r)
	}
	buf = append(buf, EncodeBitpacked(zz, bitWidth)...)

	return buf
}

// LinearEncodedSize mirrors EncodeLinearColumn's output length without
// allocating the payload, for codec-selection comparisons.
func LinearEncodedSize(values []uint64) int {
	mapping := Normalize(values)
	normalized := mapping.ApplyAll(values)
	_, _, residuals := linearResiduals(normalized)
	bitWidth := BitWidth(maxZigzag(residuals))

	var first uint64
	if len(normalized) > 0 {
		first = normalized[0]
	}
	slopeNum, slopeDen, _ := linearResiduals(normalized)

	size := section.NormalizedHeaderSize
	size += section.VIntLen(mapping.Min)
	size += section.VIntLen(mapping.GCD)
	size += section.VIntLen(first)
	size += section.VIntLen(zigzagEncode(slopeNum))
	size += section.VIntLen(slopeDen)
	size++ // bit width byte
	size += BitpackedSize(len(values), bitWidth)

	return size
}

type linearColumn struct {
	payload  []byte
	n        int
	bitWidth int
	mapping  Mapping
	first    uint64
	slopeNum int64
	slopeDen uint64
}

func (c *linearColumn) Len() int { return c.n }

func (c *linearColumn) predicted(idx int) int64 {
	return int64(c.first) + c.slopeNum*int64(idx)/int64(c.slopeDen) //nolint:gosec
}

func (c *linearColumn) Get(idx int) uint64 {
	if idx < 0 || idx >= c.n {
		panic("columnar: index out of range")
	}

	zz := DecodeBitpackedAt(c.payload, idx, c.bitWidth)
	residual := zigzagDecode(zz)
	normalized := uint64(c.predicted(idx) + residual) //nolint:gosec

	return c.mapping.Invert(normalized)
}

func (c *linearColumn) Min() uint64 { return c.mapping.Min }

func (c *linearColumn) Max() uint64 {
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

func (c *linearColumn) Iter() *ColumnCursor { return newCursor(c) }

// DecodeLinearColumn parses a column produced by EncodeLinearColumn.
func DecodeLinearColumn(data []byte) (Column, error) {
	header, err := section.ParseNormalizedHeader(data)
	if err != nil {
		return nil, err
	}
	if header.Codec != format.CodecLinear {
		return nil, errs.ErrDataCorruption
	}

	offset := section.NormalizedHeaderSize

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

	first, n, err := section.ReadVInt(data[offset:])
	if err != nil {
		return nil, err
	}
	offset += n

	zzSlope, n, err := section.ReadVInt(data[offset:])
	if err != nil {
		return nil, err
	}
	offset += n

	slopeDen, n, err := section.ReadVInt(data[offset:])
	if err != nil {
		return nil, err
	}
	offset += n

	if offset >= len(data) {
		return nil, errs.ErrInvalidHeaderSize
	}
	bitWidth := int(data[offset])
	offset++

	if slopeDen == 0 {
		slopeDen = 1
	}

	return &linearColumn{
		payload:  data[offset:],
		n:        int(header.NumVals),
		bitWidth: bitWidth,
		mapping:  Mapping{Min: min, GCD: gcd},
		first:    first,
		slopeNum: zigzagDecode(zzSlope),
		slopeDen: slopeDen,
	}, nil
}
