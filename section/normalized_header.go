package section

import (
	"github.com/nextfts/segreader/endian"
	"github.com/nextfts/segreader/errs"
	"github.com/nextfts/segreader/format"
)

// NormalizedHeaderSize is the fixed byte size of a NormalizedHeader: 1
// byte codec discriminator + 4 bytes NumVals + 8 bytes MaxValue.
const NormalizedHeaderSize = 13

// NormalizedHeader is the self-describing prefix of every u64-based
// columnar codec payload (bit-packed, linear, blockwise-linear). It
// describes the column after normalization (§3: "val -> (val -
// min)/gcd"); codec-specific parameters (min, gcd, bit width, block
// index) follow immediately after these fixed bytes.
type NormalizedHeader struct {
	// Codec identifies which codec produced the payload that follows.
	Codec format.CodecType
	// NumVals is the number of values in the underlying column.
	NumVals uint32
	// MaxValue is the max value of the column, after normalization.
	MaxValue uint64
}

// Bytes serializes the header using fixed little-endian byte order
// (spec §6: "Binary headers").
func (h NormalizedHeader) Bytes() []byte {
	b := make([]byte, NormalizedHeaderSize)
	b[0] = byte(h.Codec)
	engine := endian.GetLittleEndianEngine()
	engine.PutUint32(b[1:5], h.NumVals)
	engine.PutUint64(b[5:13], h.MaxValue)

	return b
}

// ParseNormalizedHeader parses a NormalizedHeader from the start of
// data. It returns errs.ErrInvalidHeaderSize if data is shorter than
// NormalizedHeaderSize.
func ParseNormalizedHeader(data []byte) (NormalizedHeader, error) {
	if len(data) < NormalizedHeaderSize {
		return NormalizedHeader{}, errs.ErrInvalidHeaderSize
	}

	engine := endian.GetLittleEndianEngine()

	return NormalizedHeader{
		Codec:    format.CodecType(data[0]),
		NumVals:  engine.Uint32(data[1:5]),
		MaxValue: engine.Uint64(data[5:13]),
	}, nil
}
