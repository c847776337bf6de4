package columnar

import (
	"github.com/nextfts/segreader/errs"
	"github.com/nextfts/segreader/format"
	"github.com/nextfts/segreader/section"
)

// BlockSize is the number of values covered by one BlockwiseLinear
// block (§4.2 "BlockwiseLinear trades a small per-block index for a
// tighter residual bit width on columns whose slope drifts").
const BlockSize = 128

// EncodeBlockwiseLinearColumn serializes values as a sequence of
// independently-fit Linear blocks: a NormalizedHeader, VInt(min),
// VInt(gcd), VInt(block count), then for each block a VInt-length-
// prefixed Linear-style block payload (first value, zigzag slope
// numerator, slope denominator, bit width, bit-packed residuals).
func EncodeBlockwiseLinearColumn(values []uint64) []byte {
	mapping := Normalize(values)
	normalized := mapping.ApplyAll(values)

	blocks := chunk(normalized, BlockSize)

	header := section.NormalizedHeader{
		Codec:    format.CodecBlockwiseLinear,
		NumVals:  uint32(len(values)), //nolint:gosec
		MaxValue: maxOf(normalized),
	}

	buf := header.Bytes()
	buf = section.PutVInt(buf, mapping.Min)
	buf = section.PutVInt(buf, mapping.GCD)
	buf = section.PutVInt(buf, uint64(len(blocks)))

	for _, block := range blocks {
		payload := encodeLinearBlock(block)
		buf = section.PutVInt(buf, uint64(len(payload)))
		buf = append(buf, payload...)
	}

	return buf
}

// BlockwiseLinearEncodedSize mirrors EncodeBlockwiseLinearColumn's
// output length, for codec-selection comparisons.
func BlockwiseLinearEncodedSize(values []uint64) int {
	mapping := Normalize(values)
	normalized := mapping.ApplyAll(values)
	blocks := chunk(normalized, BlockSize)

	size := section.NormalizedHeaderSize
	size += section.VIntLen(mapping.Min)
	size += section.VIntLen(mapping.GCD)
	size += section.VIntLen(uint64(len(blocks)))

	for _, block := range blocks {
		payload := encodeLinearBlock(block)
		size += section.VIntLen(uint64(len(payload)))
		size += len(payload)
	}

	return size
}

func chunk(values []uint64, size int) [][]uint64 {
	if len(values) == 0 {
		return nil
	}

	var out [][]uint64
	for start := 0; start < len(values); start += size {
		end := start + size
		if end > len(values) {
			end = len(values)
		}
		out = append(out, values[start:end])
	}

	return out
}

// encodeLinearBlock fits a Linear predictor over an already-normalized
// block and serializes its parameters and residuals without the outer
// NormalizedHeader (the block count and min/max are already known).
func encodeLinearBlock(block []uint64) []byte {
	slopeNum, slopeDen, residuals := linearResiduals(block)
	bitWidth := BitWidth(maxZigzag(residuals))

	var first uint64
	if len(block) > 0 {
		first = block[0]
	}

	buf := section.PutVInt(nil, first)
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

type linearBlock struct {
	payload  []byte
	n        int
	bitWidth int
	first    uint64
	slopeNum int64
	slopeDen uint64
}

func decodeLinearBlock(data []byte, n int) (linearBlock, error) {
	first, off, err := section.ReadVInt(data)
	if err != nil {
		return linearBlock{}, err
	}

	zzSlope, n2, err := section.ReadVInt(data[off:])
	if err != nil {
		return linearBlock{}, err
	}
	off += n2

	slopeDen, n2, err := section.ReadVInt(data[off:])
	if err != nil {
		return linearBlock{}, err
	}
	off += n2

	if off >= len(data) {
		return linearBlock{}, errs.ErrInvalidHeaderSize
	}
	bitWidth := int(data[off])
	off++

	if slopeDen == 0 {
		slopeDen = 1
	}

	return linearBlock{
		payload:  data[off:],
		n:        n,
		bitWidth: bitWidth,
		first:    first,
		slopeNum: zigzagDecode(zzSlope),
		slopeDen: slopeDen,
	}, nil
}

func (b linearBlock) get(idx int) uint64 {
	predicted := int64(b.first) + b.slopeNum*int64(idx)/int64(b.slopeDen) //nolint:gosec
	zz := DecodeBitpackedAt(b.payload, idx, b.bitWidth)
	residual := zigzagDecode(zz)

	return uint64(predicted + residual) //nolint:gosec
}

type blockwiseLinearColumn struct {
	blocks  []linearBlock
	n       int
	mapping Mapping
}

func (c *blockwiseLinearColumn) Len() int { return c.n }

func (c *blockwiseLinearColumn) Get(idx int) uint64 {
	if idx < 0 || idx >= c.n {
		panic("columnar: index out of range")
	}

	blockIdx := idx / BlockSize
	within := idx % BlockSize

	return c.mapping.Invert(c.blocks[blockIdx].get(within))
}

func (c *blockwiseLinearColumn) Min() uint64 { return c.mapping.Min }

func (c *blockwiseLinearColumn) Max() uint64 {
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

func (c *blockwiseLinearColumn) Iter() *ColumnCursor { return newCursor(c) }

// DecodeBlockwiseLinearColumn parses a column produced by
// EncodeBlockwiseLinearColumn.
func DecodeBlockwiseLinearColumn(data []byte) (Column, error) {
	header, err := section.ParseNormalizedHeader(data)
	if err != nil {
		return nil, err
	}
	if header.Codec != format.CodecBlockwiseLinear {
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

	numBlocks, n, err := section.ReadVInt(data[offset:])
	if err != nil {
		return nil, err
	}
	offset += n

	total := int(header.NumVals)
	blocks := make([]linearBlock, 0, numBlocks)

	remaining := total
	for i := uint64(0); i < numBlocks; i++ {
		blockLen, n, err := section.ReadVInt(data[offset:])
		if err != nil {
			return nil, err
		}
		offset += n

		if offset+int(blockLen) > len(data) {
			return nil, errs.ErrDataCorruption
		}

		count := BlockSize
		if remaining < BlockSize {
			count = remaining
		}

		block, err := decodeLinearBlock(data[offset:offset+int(blockLen)], count)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)

		offset += int(blockLen)
		remaining -= count
	}

	return &blockwiseLinearColumn{
		blocks:  blocks,
		n:       total,
		mapping: Mapping{Min: min, GCD: gcd},
	}, nil
}
