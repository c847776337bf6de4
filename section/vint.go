package section

import "github.com/nextfts/segreader/errs"

// PutVInt appends val to buf as an unsigned LEB128 variable-length
// integer (7 bits of payload per byte, high bit set on every byte but
// the last) and returns the extended slice.
func PutVInt(buf []byte, val uint64) []byte {
	for val >= 0x80 {
		buf = append(buf, byte(val)|0x80)
		val >>= 7
	}

	return append(buf, byte(val))
}

// VIntLen returns the number of bytes PutVInt would write for val,
// without allocating.
func VIntLen(val uint64) int {
	n := 1
	for val >= 0x80 {
		val >>= 7
		n++
	}

	return n
}

// ReadVInt decodes a variable-length integer from the start of data and
// returns the value plus the number of bytes consumed. It returns
// errs.ErrInvalidHeaderSize if data ends before a terminating byte (high
// bit clear) is found.
func ReadVInt(data []byte) (uint64, int, error) {
	var val uint64

	for i, b := range data {
		val |= uint64(b&0x7f) << (7 * i)
		if b&0x80 == 0 {
			return val, i + 1, nil
		}
	}

	return 0, 0, errs.ErrInvalidHeaderSize
}
