package section

import (
	"github.com/nextfts/segreader/errs"
	"github.com/nextfts/segreader/format"
)

// WideHeader is the header for 128-bit columns (§3 "Wide column
// header"). Unlike NormalizedHeader it has no fixed size: NumVals is
// VInt-encoded since u128 columns are expected to carry far fewer
// entries than u64 ones and a fixed 4-byte count would waste space on
// the common small case.
type WideHeader struct {
	NumVals uint32
	Codec   format.CodecType
}

// Bytes serializes the header as VInt(NumVals) | u8 codec.
func (h WideHeader) Bytes() []byte {
	buf := PutVInt(nil, uint64(h.NumVals))
	return append(buf, byte(h.Codec))
}

// Len returns the serialized byte length of h without allocating.
func (h WideHeader) Len() int {
	return VIntLen(uint64(h.NumVals)) + 1
}

// ParseWideHeader parses a WideHeader from the start of data and
// returns it along with the number of bytes consumed.
func ParseWideHeader(data []byte) (WideHeader, int, error) {
	numVals, n, err := ReadVInt(data)
	if err != nil {
		return WideHeader{}, 0, err
	}

	if len(data) < n+1 {
		return WideHeader{}, 0, errs.ErrInvalidHeaderSize
	}

	return WideHeader{
		NumVals: uint32(numVals),
		Codec:   format.CodecType(data[n]),
	}, n + 1, nil
}
