package hexconv

// Halfbyte maps an ASCII hex digit into its 4-bit value. Every other character maps to
// 0xFF, so validity of a pair can be checked at once via (a|b) > 0x0F.
var Halfbyte = func() (table [256]byte) {
	for i := range table {
		table[i] = 0xFF
	}

	for c := byte('0'); c <= '9'; c++ {
		table[c] = c - '0'
	}

	for c := byte('a'); c <= 'f'; c++ {
		table[c] = c - 'a' + 10
		table[c-'a'+'A'] = c - 'a' + 10
	}

	return table
}()

// Pair decodes two hex digits into a byte. ok is false if any of them isn't a valid digit.
func Pair(hi, lo byte) (char byte, ok bool) {
	a, b := Halfbyte[hi], Halfbyte[lo]
	if a|b > 0x0F {
		return 0, false
	}

	return a<<4 | b, true
}
