package hashing

// LengthConstantEquals reports whether a and b are byte-for-byte equal.
//
// Running time depends only on min(len(a), len(b)), never on the position of
// the first difference, so it cannot be used as a byte-by-byte oracle.
// Whether the lengths match does leak; digest lengths are public.
func LengthConstantEquals(a, b []byte) bool {
	diff := uint(len(a) ^ len(b))
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		diff |= uint(a[i] ^ b[i])
	}
	return diff == 0
}
