package ddt

import (
	"git.gammaspectra.live/P2Pool/sbox-ddt/sbox"
	"git.gammaspectra.live/P2Pool/sbox-ddt/utils"
)

// Row fills row[dy] with the number of x such that S[x] ^ S[x ^ dx] == dy.
// row must hold N zeroed entries and dx must be below N.
func Row(s sbox.SBox, dx uint32, row []uint32) {
	n := uint32(len(s))
	if n == 0 {
		return
	}
	_ = row[n-1]
	for x := uint32(0); x < n; x++ {
		row[s[x]^s[x^dx]]++
	}
}

// fold counts every row cell into h and zeroes the row for the next difference.
func fold(row []uint32, h Histogram) {
	for dy, count := range row {
		h[count]++
		row[dy] = 0
	}
}

// Accumulate builds the cell-frequency histogram of the difference distribution table
// of s. The trivial dx = 0 row is never visited.
func Accumulate(s sbox.SBox) (Histogram, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	n := uint32(len(s))
	h := NewHistogram(s.Size())
	if n < 2 {
		return h, nil
	}

	row := make([]uint32, n)
	for dx := uint32(1); dx < n; dx++ {
		Row(s, dx, row)
		fold(row, h)
	}

	utils.Debugf("DDT", "accumulated %d differences over %d inputs", n-1, n)
	return h, nil
}
