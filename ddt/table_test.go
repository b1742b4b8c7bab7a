package ddt

import (
	"math/rand/v2"
	"testing"

	"git.gammaspectra.live/P2Pool/sbox-ddt/sbox"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	table, err := Table(sbox.SBox{0, 1, 2, 3}, false)
	require.NoError(t, err)
	require.Equal(t, [][]uint32{
		{4, 0, 0, 0},
		{0, 4, 0, 0},
		{0, 0, 4, 0},
		{0, 0, 0, 4},
	}, table)

	table, err = Table(sbox.SBox{0, 1, 2, 3}, true)
	require.NoError(t, err)
	require.Equal(t, uint32(0), table[0][0])
}

func TestTable_MatchesHistogram(t *testing.T) {
	for _, s := range []sbox.SBox{sbox.AES(), present, cube3, randomPermutation(6, 3)} {
		table, err := Table(s, true)
		require.NoError(t, err)
		require.Len(t, table, len(s))

		for dx := 1; dx < len(table); dx++ {
			var sum int
			for _, count := range table[dx] {
				sum += int(count)
			}
			require.Equal(t, len(s), sum, "row %d", dx)
		}

		h, err := Accumulate(s)
		require.NoError(t, err)
		require.Equal(t, h, TableHistogram(table))
	}
}

func TestTable_Limits(t *testing.T) {
	table, err := Table(sbox.SBox{}, true)
	require.NoError(t, err)
	require.Empty(t, table)
	require.Equal(t, Histogram{0}, TableHistogram(table))

	s, err := sbox.Identity(13)
	require.NoError(t, err)
	_, err = Table(s, false)
	require.ErrorIs(t, err, ErrTableTooLarge)
}

func TestEstimateMax(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	require.Equal(t, uint32(4), EstimateMax(sbox.AES(), 20, 0, rng))
	require.Equal(t, uint32(3), EstimateMax(sbox.AES(), 20, 2, rng))
	require.Equal(t, uint32(2), EstimateMax(cube3, 20, 2, rng))
	require.Equal(t, uint32(0), EstimateMax(sbox.SBox{0}, 20, 0, rng))

	s := randomPermutation(8, 9)
	h, err := Accumulate(s)
	require.NoError(t, err)
	require.LessOrEqual(t, uint64(EstimateMax(s, 50, 0, rng)), h.Max())
}

func TestIsAPN(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))

	apn, err := IsAPN(cube3, 2, rng)
	require.NoError(t, err)
	require.True(t, apn)

	apn, err = IsAPN(sbox.AES(), 2, rng)
	require.NoError(t, err)
	require.False(t, apn)

	apn, err = IsAPN(present, 0, rng)
	require.NoError(t, err)
	require.False(t, apn)

	_, err = IsAPN(sbox.SBox{0, 2}, 0, rng)
	require.ErrorIs(t, err, sbox.ErrValueOutOfDomain)
}
