package sbox

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	"git.gammaspectra.live/P2Pool/sbox-ddt/utils"
	fasthex "github.com/tmthrgd/go-hex"
)

// storage grows with the values actually read, starting from this many entries
const initialCapacity = 1 << 16

const maxTokenSize = 1 << 20

// Read parses an S-box in text form: the size N followed by N decimal outputs, all
// separated by whitespace.
//
// In strict mode malformed tokens, missing values and trailing tokens are errors.
// In lenient mode the first malformed token ends parsing and every value not read is
// zero, a missing size means an empty S-box, and values are truncated to 32 bits.
// Both modes reject sizes that are not a power of two and outputs outside [0, N).
func Read(r io.Reader, lenient bool) (SBox, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxTokenSize)
	scanner.Split(bufio.ScanWords)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		if lenient {
			return SBox{}, nil
		}
		return nil, fmt.Errorf("%w: missing size", ErrShortInput)
	}

	var n uint64
	matching := true
	if lenient {
		var consumed int
		n, consumed = utils.ParseUint64Prefix(scanner.Bytes())
		if consumed == 0 {
			return SBox{}, nil
		}
		matching = consumed == len(scanner.Bytes())
	} else {
		var err error
		if n, err = utils.ParseUint64(scanner.Bytes()); err != nil {
			return nil, fmt.Errorf("%w: size: %w", ErrInvalidToken, err)
		}
	}

	if err := CheckSize(n); err != nil {
		return nil, err
	}

	s := make(SBox, 0, min(n, initialCapacity))
	for matching && uint64(len(s)) < n {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, err
			}
			if lenient {
				break
			}
			return nil, fmt.Errorf("%w: read %d of %d values", ErrShortInput, len(s), n)
		}

		token := scanner.Bytes()
		if lenient {
			var value uint64
			var ok bool
			value, ok, matching = parseLenient(token)
			if ok {
				s = append(s, uint32(value))
			}
			continue
		}

		value, err := utils.ParseUint64(token)
		if err != nil {
			return nil, fmt.Errorf("%w: S[%d]: %w", ErrInvalidToken, len(s), err)
		}
		if value > math.MaxUint32 {
			return nil, fmt.Errorf("%w: S[%d] = %d does not fit in 32 bits", ErrInvalidToken, len(s), value)
		}
		s = append(s, uint32(value))
	}

	if lenient {
		s = append(s, make(SBox, n-uint64(len(s)))...)
	} else if scanner.Scan() {
		return nil, fmt.Errorf("%w: %q", ErrTrailingInput, scanner.Text())
	} else if err := scanner.Err(); err != nil {
		return nil, err
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// parseLenient reads a signed decimal prefix of token. ok reports whether a value was
// read, matching whether the whole token was consumed so parsing can continue.
func parseLenient(token []byte) (value uint64, ok, matching bool) {
	digits := token
	negative := false
	if len(digits) > 0 && (digits[0] == '-' || digits[0] == '+') {
		negative = digits[0] == '-'
		digits = digits[1:]
	}

	value, consumed := utils.ParseUint64Prefix(digits)
	if consumed == 0 {
		return 0, false, false
	}
	if negative {
		value = -value
	}
	return value, true, consumed == len(digits)
}

// ReadHex parses an S-box given as a hex string of 8-bit outputs. Whitespace is ignored.
func ReadHex(r io.Reader) (SBox, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.Join(bytes.Fields(data), nil)
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("%w: odd hex length %d", ErrInvalidToken, len(data))
	}

	buf := make([]byte, len(data)/2)
	if _, err = fasthex.Decode(buf, data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	s := make(SBox, len(buf))
	for x, y := range buf {
		s[x] = uint32(y)
	}
	if err = s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func FromHex(s string) (SBox, error) {
	return ReadHex(strings.NewReader(s))
}
