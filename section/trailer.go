package section

import (
	"github.com/nextfts/segreader/endian"
	"github.com/nextfts/segreader/errs"
)

// TrailerEntry describes one keyed byte range inside a composite file's
// backing slice (§4.1, §6 "Composite file trailer"). Key is a packed
// (field id, discriminator) pair — see compositefile.Key.
type TrailerEntry struct {
	Key    uint64
	Offset uint64
	Length uint64
}

// trailerEntrySize is the fixed on-disk size of one TrailerEntry: three
// fixed little-endian uint64 fields.
const trailerEntrySize = 24

// trailerCountSize is the fixed size of the trailer's trailing entry
// count, a fixed little-endian uint32.
const trailerCountSize = 4

// EncodeTrailer serializes entries as the composite file trailer: the
// entries themselves, immediately followed by a fixed little-endian
// uint32 count. Putting the count last lets a reader find the directory
// by seeking from the end of the backing slice without knowing its
// length up front.
func EncodeTrailer(entries []TrailerEntry) []byte {
	engine := endian.GetLittleEndianEngine()
	buf := make([]byte, 0, len(entries)*trailerEntrySize+trailerCountSize)

	for _, e := range entries {
		var tmp [trailerEntrySize]byte
		engine.PutUint64(tmp[0:8], e.Key)
		engine.PutUint64(tmp[8:16], e.Offset)
		engine.PutUint64(tmp[16:24], e.Length)
		buf = append(buf, tmp[:]...)
	}

	var countBuf [trailerCountSize]byte
	engine.PutUint32(countBuf[:], uint32(len(entries))) //nolint:gosec

	return append(buf, countBuf[:]...)
}

// ParseTrailer reads the composite file trailer from the tail of data
// and returns the decoded entries. It returns errs.ErrInvalidTrailer if
// data is too short to hold even the trailing count, or if the count
// implies a directory larger than the remaining data.
func ParseTrailer(data []byte) ([]TrailerEntry, error) {
	if len(data) < trailerCountSize {
		return nil, errs.ErrInvalidTrailer
	}

	engine := endian.GetLittleEndianEngine()
	countOffset := len(data) - trailerCountSize
	count := int(engine.Uint32(data[countOffset:]))

	dirSize := count * trailerEntrySize
	if dirSize > countOffset {
		return nil, errs.ErrInvalidTrailer
	}

	dirStart := countOffset - dirSize
	entries := make([]TrailerEntry, count)

	for i := range entries {
		start := dirStart + i*trailerEntrySize
		entries[i] = TrailerEntry{
			Key:    engine.Uint64(data[start : start+8]),
			Offset: engine.Uint64(data[start+8 : start+16]),
			Length: engine.Uint64(data[start+16 : start+24]),
		}
	}

	return entries, nil
}

// TrailerDataEnd returns the byte offset where the non-trailer payload
// of a composite file ends, given its total length and entry count.
func TrailerDataEnd(totalLen uint64, numEntries int) uint64 {
	return totalLen - uint64(numEntries*trailerEntrySize) - trailerCountSize
}
