// Package fileslice provides a reference implementation of the
// directory collaborator's byte-range view contract (spec §6: "Directory
// collaborator interface consumed"). The real storage engine behind a
// Segment — mmap'd files, a remote blob store, whatever — is explicitly
// out of scope for this module; fileslice.Slice is the in-memory stand-in
// used to compose and test the read path, and the shape every real
// implementation must satisfy.
package fileslice

import "fmt"

// Slice is an immutable, random-access view over a byte range. It never
// copies on Slice(): sub-slices share the same backing array, which is
// what lets composite-file sub-ranges and codec payload windows stay
// zero-copy all the way down to the bit-packed decoder.
type Slice struct {
	data []byte
}

// New wraps data as a Slice covering its full extent. data is not
// copied; the caller must not mutate it afterwards.
func New(data []byte) Slice {
	return Slice{data: data}
}

// Len returns the number of bytes in the slice.
func (s Slice) Len() uint64 {
	return uint64(len(s.data))
}

// ReadBytes materializes the full slice as a []byte. For an in-memory
// Slice this is the backing array itself (no copy); an mmap-backed
// implementation would fault pages in here.
func (s Slice) ReadBytes() ([]byte, error) {
	return s.data, nil
}

// Slice returns the sub-range [from, to) as a new Slice sharing the same
// backing array. Panics on an out-of-bounds range, matching the
// programming-error discipline used elsewhere for invariant violations
// that only a caller bug can trigger (from/to are computed by this
// module's own parsers, never from unvalidated external input).
func (s Slice) Slice(from, to uint64) Slice {
	if from > to || to > s.Len() {
		panic(fmt.Sprintf("fileslice: range [%d,%d) out of bounds for len %d", from, to, s.Len()))
	}

	return Slice{data: s.data[from:to]}
}

// IsEmpty reports whether the slice has zero length.
func (s Slice) IsEmpty() bool {
	return len(s.data) == 0
}
