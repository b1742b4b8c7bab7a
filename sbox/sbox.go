package sbox

import (
	"encoding/binary"
	"errors"
	"fmt"

	"git.gammaspectra.live/P2Pool/sbox-ddt/types"
	"git.gammaspectra.live/P2Pool/sbox-ddt/utils"
	"git.gammaspectra.live/P2Pool/sha3"
	fasthex "github.com/tmthrgd/go-hex"
)

// MaxSize is the largest supported domain. Every DDT cell count is at most the domain
// size, so all counts fit a 32-bit row cell.
const MaxSize = 1 << 31

var (
	ErrSizeTooLarge      = errors.New("sbox size too large")
	ErrSizeNotPowerOfTwo = errors.New("sbox size is not a power of two")
	ErrValueOutOfDomain  = errors.New("value out of domain")
	ErrNotPermutation    = errors.New("sbox is not a permutation")
	ErrValueNotByte      = errors.New("value does not fit in a byte")
	ErrShortInput        = errors.New("short input")
	ErrInvalidToken      = errors.New("invalid token")
	ErrTrailingInput     = errors.New("unexpected trailing input")
)

// SBox maps every input in [0, N) to an output in [0, N).
type SBox []uint32

func (s SBox) Size() uint64 {
	return uint64(len(s))
}

// Bits returns the input width in bits.
func (s SBox) Bits() int {
	return utils.Log2(s.Size())
}

// CheckSize verifies that n is a usable domain size: zero or a power of two up to MaxSize.
func CheckSize(n uint64) error {
	if n > MaxSize {
		return fmt.Errorf("%w: %d > %d", ErrSizeTooLarge, n, uint64(MaxSize))
	}
	if n != 0 && !utils.IsPowerOfTwo(n) {
		return fmt.Errorf("%w: %d", ErrSizeNotPowerOfTwo, n)
	}
	return nil
}

// Validate checks the domain size and that every output lies within [0, N).
func (s SBox) Validate() error {
	if err := CheckSize(s.Size()); err != nil {
		return err
	}
	n := uint64(len(s))
	for x, y := range s {
		if uint64(y) >= n {
			return fmt.Errorf("%w: S[%d] = %d, size %d", ErrValueOutOfDomain, x, y, n)
		}
	}
	return nil
}

func (s SBox) IsPermutation() bool {
	seen := make([]bool, len(s))
	for _, y := range s {
		if uint64(y) >= uint64(len(s)) || seen[y] {
			return false
		}
		seen[y] = true
	}
	return true
}

func (s SBox) IsIdentity() bool {
	for x, y := range s {
		if uint64(x) != uint64(y) {
			return false
		}
	}
	return true
}

// Inverse returns the inverse permutation.
func (s SBox) Inverse() (SBox, error) {
	if !s.IsPermutation() {
		return nil, ErrNotPermutation
	}
	inv := make(SBox, len(s))
	for x, y := range s {
		inv[y] = uint32(x)
	}
	return inv, nil
}

// Fingerprint is the SHA3-256 of the size followed by every output, all little endian.
func (s SBox) Fingerprint() (h types.Hash) {
	hasher := sha3.New256()

	var buf [4096]byte
	chunk := binary.LittleEndian.AppendUint64(buf[:0], s.Size())
	for _, y := range s {
		if len(chunk)+4 > len(buf) {
			_, _ = hasher.Write(chunk)
			chunk = buf[:0]
		}
		chunk = binary.LittleEndian.AppendUint32(chunk, y)
	}
	_, _ = hasher.Write(chunk)
	hasher.Sum(h[:0])
	return h
}

// Hex encodes an S-box whose outputs all fit in a byte.
func (s SBox) Hex() (string, error) {
	buf := make([]byte, len(s))
	for x, y := range s {
		if y > 0xff {
			return "", fmt.Errorf("%w: S[%d] = %d", ErrValueNotByte, x, y)
		}
		buf[x] = byte(y)
	}
	return fasthex.EncodeToString(buf), nil
}

func (s SBox) Equals(other SBox) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}
