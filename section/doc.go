// Package section defines the low-level binary structures shared by the
// segment read path: the variable-length integer primitive, the two
// column header shapes, and the composite file trailer layout.
//
// # Overview
//
// The section package defines three categories of on-disk structures:
//
//  1. VInt: a LEB128-style variable-length unsigned integer, used
//     wherever a count or length needs compact encoding without a fixed
//     width (wide column header's num_vals, codec parameters).
//  2. Headers: NormalizedHeader (fixed-width, for u64-based numeric
//     columns) and WideHeader (VInt-prefixed, for u128 columns).
//  3. Trailer: the composite file's count-prefixed directory of
//     (key, offset, length) entries, written at the tail of the backing
//     slice so a reader can open it without scanning forward first.
//
// # Normalized column header
//
//	Bytes  | Field      | Type | Description
//	-------|------------|------|------------------------------------
//	0      | CodecType  | u8   | codec discriminator
//	1-4    | NumVals    | u32  | number of values, fixed little-endian
//	5-12   | MaxValue   | u64  | max value after normalization, fixed LE
//	13...  | params     | -    | codec-specific parameters
//
// # Wide (u128) column header
//
//	VInt(NumVals) | u8 CodecType
//
// # Composite file trailer
//
// A list of fixed-size 24-byte (key, offset, length) records, each field
// a fixed little-endian u64, followed by a fixed little-endian u32 entry
// count, at the very end of the backing slice:
//
//	[entry]* u32(count)
//
// Reading a composite file therefore starts from the end: read the
// trailing count, then walk backwards len(entry)*count bytes to find the
// start of the directory.
package section
