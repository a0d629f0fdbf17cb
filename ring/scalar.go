package ring

// RemainderToCentered maps a residue x in [0, p) to the centered range
// [-floor(p/2), floor((p-1)/2)] (spec §4.1). The mapping is a bijection;
// CenteredToRemainder is its inverse.
func RemainderToCentered(x, p uint64) int64 {
	if x > p/2 {
		return int64(x) - int64(p)
	}
	return int64(x)
}

// CenteredToRemainder maps a centered value v back into [0, p).
func CenteredToRemainder(v int64, p uint64) uint64 {
	if v < 0 {
		return uint64(v+int64(p)) % p
	}
	return uint64(v) % p
}
