package utils

import (
	"fmt"
	"math/bits"
	"strconv"
)

func IsPowerOfTwo(x uint64) bool {
	return x != 0 && x&(x-1) == 0
}

// Log2 returns the number of bits needed to index x values, for a power of two x.
func Log2(x uint64) int {
	if x == 0 {
		return 0
	}
	return 64 - bits.LeadingZeros64(x) - 1
}

// ParseUint64 parses uint64 from s.
//
// It is equivalent to strconv.ParseUint(s, 10, 64), but is faster.
//
// From https://github.com/valyala/fastjson
func ParseUint64(s []byte) (uint64, error) {
	if len(s) == 0 {
		return 0, fmt.Errorf("cannot parse uint64 from empty string")
	}
	i := uint(0)
	d := uint64(0)
	j := i
	for i < uint(len(s)) {
		if s[i] >= '0' && s[i] <= '9' {
			d = d*10 + uint64(s[i]-'0')
			i++
			if i > 18 {
				// The integer part may be out of range for uint64.
				// Fall back to slow parsing.
				dd, err := strconv.ParseUint(string(s), 10, 64)
				if err != nil {
					return 0, err
				}
				return dd, nil
			}
			continue
		}
		break
	}
	if i <= j {
		return 0, fmt.Errorf("cannot parse uint64 from %q", s)
	}
	if i < uint(len(s)) {
		// Unparsed tail left.
		return 0, fmt.Errorf("unparsed tail left after parsing uint64 from %q: %q", s, s[i:])
	}
	return d, nil
}

// ParseUint64Prefix parses the leading decimal digits of s, the way scanf does.
// Digits past the 64-bit range wrap. n is the number of bytes consumed, zero when s
// does not start with a digit.
func ParseUint64Prefix(s []byte) (d uint64, n int) {
	for _, c := range s {
		if c < '0' || c > '9' {
			break
		}
		d = d*10 + uint64(c-'0')
		n++
	}
	return d, n
}
