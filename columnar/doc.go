// Package columnar implements the two column families used to store
// dense fast-field values (spec §4.2/§4.3): a u64 family normalized
// before encoding, and a u128/wide family that is not.
//
// The u64 family: callers hand raw []uint64 values to Serialize (or to
// one codec's Encode*Column directly); each codec calls Normalize to
// compute the strictly monotonic mapping val -> (val - min) / gcd and
// encodes the normalized sequence. Select picks among three
// competitors:
//   - Bitpacked: fixed bit width, LSB-first packing. The zero-bit-width
//     case is legal and stores nothing; every value equals the column
//     minimum.
//   - Linear: one affine predictor over the whole column, residuals
//     bit-packed.
//   - BlockwiseLinear: Linear applied per fixed-size block, trading a
//     small per-block index for a tighter residual bit width on columns
//     whose slope drifts.
//
// The u128/wide family has a single member, CompactSpace: a piecewise
// mapping from the observed U128 value set into a dense uint64 code
// range, then bit-packed. It never competes in Select's tie-break
// (format.CodecType.priority()'s doc comment) and never normalizes —
// U128 has no well-defined GCD/min-residual decomposition — so it is
// reached through SerializeWide/DeserializeWide instead, with its own
// WideHeader rather than the u64 family's NormalizedHeader.
//
// Header layout follows spec §3/§6 literally: NormalizedHeader (codec
// discriminator, num_vals, max_value, all fixed-width) for the u64
// family, WideHeader (num_vals as VInt, codec discriminator) for the
// u128/wide family, each followed by codec-specific parameters.
package columnar
