package sbox

import (
	"fmt"
	"strconv"
	"strings"
)

// Identity returns S[x] = x over a domain of the given width.
func Identity(bits int) (SBox, error) {
	if bits < 0 || bits > 31 {
		return nil, fmt.Errorf("%w: identity of %d bits", ErrSizeTooLarge, bits)
	}
	s := make(SBox, 1<<bits)
	for x := range s {
		s[x] = uint32(x)
	}
	return s, nil
}

// Builtin resolves a named S-box: "aes" or "identity:<bits>".
func Builtin(name string) (SBox, error) {
	kind, arg, _ := strings.Cut(strings.ToLower(name), ":")
	switch kind {
	case "aes":
		return AES(), nil
	case "identity":
		bits, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("identity width %q: %w", arg, err)
		}
		return Identity(bits)
	default:
		return nil, fmt.Errorf("unknown builtin sbox %q", name)
	}
}
