package columnar

// Mapping is the small value object co-located with each column header
// (§9 "Monotonic mapping composition"): the strictly monotonic
// normalization val -> (val - Min) / GCD computed once at encode time,
// and its inverse carried for decode.
type Mapping struct {
	Min uint64
	GCD uint64
}

// Normalize computes the Mapping for values: Min is the minimum value
// (0 for an empty sequence), GCD is the GCD of every (val - Min)
// difference (1 if it can't be resolved, i.e. the sequence is empty or
// every value equals Min).
//
// Post-normalization invariant (§3): after applying the returned
// Mapping, the normalized sequence's own min is 0 and its own gcd is 1.
func Normalize(values []uint64) Mapping {
	if len(values) == 0 {
		return Mapping{Min: 0, GCD: 1}
	}

	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}

	var gcd uint64
	for _, v := range values {
		gcd = gcdUint64(gcd, v-min)
	}
	if gcd == 0 {
		gcd = 1
	}

	return Mapping{Min: min, GCD: gcd}
}

// Apply maps a raw value into the normalized domain.
func (m Mapping) Apply(val uint64) uint64 {
	return (val - m.Min) / m.GCD
}

// Invert maps a normalized value back to the original domain.
func (m Mapping) Invert(norm uint64) uint64 {
	return norm*m.GCD + m.Min
}

// ApplyAll normalizes every value in values, allocating a new slice.
func (m Mapping) ApplyAll(values []uint64) []uint64 {
	out := make([]uint64, len(values))
	for i, v := range values {
		out[i] = m.Apply(v)
	}

	return out
}

func gcdUint64(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}

	return a
}
