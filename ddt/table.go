package ddt

import (
	"errors"
	"fmt"

	"git.gammaspectra.live/P2Pool/sbox-ddt/sbox"
)

// MaxTableSize bounds the domain for which the full N×N table is materialized.
const MaxTableSize = 1 << 12

var ErrTableTooLarge = errors.New("table too large")

// Table returns the full difference distribution table, indexed [dx][dy], including the
// dx = 0 row whose only nonzero cell is [0][0] = N. zeroZero clears that cell.
func Table(s sbox.SBox, zeroZero bool) ([][]uint32, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	n := len(s)
	if n > MaxTableSize {
		return nil, fmt.Errorf("%w: size %d > %d", ErrTableTooLarge, n, MaxTableSize)
	}

	cells := make([]uint32, n*n)
	table := make([][]uint32, n)
	for dx := range table {
		table[dx] = cells[dx*n : (dx+1)*n : (dx+1)*n]
		Row(s, uint32(dx), table[dx])
	}

	if zeroZero && n > 0 {
		table[0][0] = 0
	}
	return table, nil
}

// TableHistogram tallies a table the way Accumulate does, skipping the dx = 0 row.
func TableHistogram(table [][]uint32) Histogram {
	h := NewHistogram(uint64(len(table)))
	for _, row := range table[min(1, len(table)):] {
		for _, count := range row {
			h[count]++
		}
	}
	return h
}
