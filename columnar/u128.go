package columnar

// U128 is a 128-bit unsigned value, big-endian in meaning: Hi holds bits
// [127:64], Lo holds bits [63:0]. It backs the wide column family (§3
// "Wide column header"), whose only member is a 128-bit IP address.
type U128 struct {
	Hi uint64
	Lo uint64
}

// Less reports whether u sorts before other.
func (u U128) Less(other U128) bool {
	if u.Hi != other.Hi {
		return u.Hi < other.Hi
	}

	return u.Lo < other.Lo
}

// Equal reports whether u and other represent the same 128-bit value.
func (u U128) Equal(other U128) bool {
	return u.Hi == other.Hi && u.Lo == other.Lo
}

// Next returns u+1, carrying into Hi when Lo wraps.
func (u U128) Next() U128 {
	if u.Lo == ^uint64(0) {
		return U128{Hi: u.Hi + 1, Lo: 0}
	}

	return U128{Hi: u.Hi, Lo: u.Lo + 1}
}

// Add returns u+delta. Only used with deltas small enough that the
// result stays within the same or adjacent Hi word, which every caller
// in this package guarantees by construction.
func (u U128) Add(delta uint64) U128 {
	lo := u.Lo + delta
	hi := u.Hi
	if lo < u.Lo {
		hi++
	}

	return U128{Hi: hi, Lo: lo}
}

// Sub returns u-other, assuming u >= other and the difference fits in a
// uint64. Every call site in this package subtracts within one
// contiguous compactRange, where that always holds.
func (u U128) Sub(other U128) uint64 {
	if u.Hi == other.Hi {
		return u.Lo - other.Lo
	}

	return (^uint64(0) - other.Lo) + 1 + u.Lo
}

// WideColumn is the capability interface for a decoded 128-bit column
// (§3 "Wide column header"), the u128 analogue of Column.
type WideColumn interface {
	Len() int
	Get(idx int) U128
	Iter() *WideColumnCursor
}

// WideColumnCursor is the lazy forward cursor over a WideColumn.
type WideColumnCursor struct {
	col     WideColumn
	idx     int
	current U128
}

// Advance moves the cursor to the next value, returning false once the
// column is exhausted.
func (c *WideColumnCursor) Advance() bool {
	if c.idx >= c.col.Len() {
		return false
	}

	c.current = c.col.Get(c.idx)
	c.idx++

	return true
}

// Current returns the value Advance most recently produced.
func (c *WideColumnCursor) Current() U128 {
	return c.current
}

func newWideCursor(col WideColumn) *WideColumnCursor {
	return &WideColumnCursor{col: col}
}

type sliceWideColumn []U128

func (s sliceWideColumn) Len() int                  { return len(s) }
func (s sliceWideColumn) Get(idx int) U128          { return s[idx] }
func (s sliceWideColumn) Iter() *WideColumnCursor   { return newWideCursor(s) }

// FromSliceWide wraps values as a WideColumn, for encoding or for tests
// that want an in-memory reference to diff against a decoded column.
func FromSliceWide(values []U128) WideColumn {
	return sliceWideColumn(values)
}

// EmptyWide returns a zero-length WideColumn, for a field declared but
// never assigned any wide-column values.
func EmptyWide() WideColumn {
	return sliceWideColumn(nil)
}
