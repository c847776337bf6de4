package columnar

import (
	"github.com/nextfts/segreader/errs"
	"github.com/nextfts/segreader/format"
	"github.com/nextfts/segreader/section"
)

// Serialize picks the smallest encoding of values among the codecs in
// this package and returns its bytes. Ties are broken by
// format.CodecType.Less, giving a deterministic, stable codec choice
// across identical inputs (§4.2 "Codec selection").
func Serialize(values []uint64) []byte {
	codec, _ := Select(values)

	switch codec {
	case format.CodecBitpacked:
		return EncodeBitpackedColumn(values)
	case format.CodecLinear:
		return EncodeLinearColumn(values)
	case format.CodecBlockwiseLinear:
		return EncodeBlockwiseLinearColumn(values)
	default:
		return EncodeBitpackedColumn(values)
	}
}

// Select evaluates each u64 codec's encoded size for values and returns
// the winning codec and that size, without building the other
// candidates' payloads. CompactSpace never competes here: it is the
// sole codec for the u128/wide family, selected via SerializeWide
// instead (format.CodecType.priority()).
func Select(values []uint64) (format.CodecType, int) {
	candidates := []struct {
		codec format.CodecType
		size  int
	}{
		{format.CodecBitpacked, BitpackedEncodedSize(values)},
		{format.CodecLinear, LinearEncodedSize(values)},
		{format.CodecBlockwiseLinear, BlockwiseLinearEncodedSize(values)},
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.size < best.size || (c.size == best.size && c.codec.Less(best.codec)) {
			best = c
		}
	}

	return best.codec, best.size
}

// Deserialize inspects data's NormalizedHeader codec discriminator and
// dispatches to the matching decoder.
func Deserialize(data []byte) (Column, error) {
	header, err := section.ParseNormalizedHeader(data)
	if err != nil {
		return nil, err
	}

	switch header.Codec {
	case format.CodecBitpacked:
		return DecodeBitpackedColumn(data)
	case format.CodecLinear:
		return DecodeLinearColumn(data)
	case format.CodecBlockwiseLinear:
		return DecodeBlockwiseLinearColumn(data)
	default:
		return nil, errs.ErrNoSuitableCodec
	}
}

// SerializeWide encodes values with the wide/u128 column family. Unlike
// Serialize, there is no candidate comparison: CompactSpace is the sole
// codec for this family (format.CodecType.priority()).
func SerializeWide(values []U128) []byte {
	return EncodeCompactSpaceColumn(values)
}

// DeserializeWide inspects data's WideHeader codec discriminator and
// dispatches to the matching decoder.
func DeserializeWide(data []byte) (WideColumn, error) {
	header, _, err := section.ParseWideHeader(data)
	if err != nil {
		return nil, err
	}

	switch header.Codec {
	case format.CodecCompactSpace:
		return DecodeCompactSpaceColumn(data)
	default:
		return nil, errs.ErrNoSuitableCodec
	}
}
