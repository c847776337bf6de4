package termdict

import (
	"github.com/nextfts/segreader/internal/pool"
	"github.com/nextfts/segreader/section"
)

// Encode serializes dict as VInt(count) followed by, for each term in
// sorted order, VInt(termLen) + term bytes + the five VInt-encoded
// TermInfo fields. The accumulation buffer comes from the shared encode
// pool, since a segment build calls this once per field.
func Encode(dict *Dict) []byte {
	bb := pool.GetEncodeBuffer()
	defer pool.PutEncodeBuffer(bb)

	bb.B = section.PutVInt(bb.B, uint64(dict.NumTerms()))

	it := dict.Iter()
	for it.Advance() {
		term := it.Term()
		info := it.TermInfo()

		bb.B = section.PutVInt(bb.B, uint64(len(term)))
		bb.B = append(bb.B, term...)
		bb.B = section.PutVInt(bb.B, info.DocFreq)
		bb.B = section.PutVInt(bb.B, info.PostingsOffset)
		bb.B = section.PutVInt(bb.B, info.PostingsLen)
		bb.B = section.PutVInt(bb.B, info.PositionsOffset)
		bb.B = section.PutVInt(bb.B, info.PositionsLen)
	}

	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())

	return out
}

// Decode parses a Dict from bytes produced by Encode.
func Decode(data []byte) (*Dict, error) {
	count, n, err := section.ReadVInt(data)
	if err != nil {
		return nil, err
	}
	offset := n

	b := NewBuilder()

	for i := uint64(0); i < count; i++ {
		termLen, n, err := section.ReadVInt(data[offset:])
		if err != nil {
			return nil, err
		}
		offset += n

		term := string(data[offset : offset+int(termLen)])
		offset += int(termLen)

		var info TermInfo
		info.DocFreq, n, err = section.ReadVInt(data[offset:])
		if err != nil {
			return nil, err
		}
		offset += n

		info.PostingsOffset, n, err = section.ReadVInt(data[offset:])
		if err != nil {
			return nil, err
		}
		offset += n

		info.PostingsLen, n, err = section.ReadVInt(data[offset:])
		if err != nil {
			return nil, err
		}
		offset += n

		info.PositionsOffset, n, err = section.ReadVInt(data[offset:])
		if err != nil {
			return nil, err
		}
		offset += n

		info.PositionsLen, n, err = section.ReadVInt(data[offset:])
		if err != nil {
			return nil, err
		}
		offset += n

		if err := b.Add(term, info); err != nil {
			return nil, err
		}
	}

	return b.Build(), nil
}
