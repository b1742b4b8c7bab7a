package ddt

import (
	"math/rand/v2"

	"git.gammaspectra.live/P2Pool/sbox-ddt/sbox"
	"github.com/dolthub/swiss"
)

// DefaultEstimateIterations is the number of sampled differences used by IsAPN.
const DefaultEstimateIterations = 100

// EstimateMax samples iterations random nonzero input differences and returns the largest
// cell count seen, a lower bound of the differential uniformity. With a nonzero limit it
// returns as soon as any count exceeds limit. s must be valid.
func EstimateMax(s sbox.SBox, iterations int, limit uint32, rng *rand.Rand) uint32 {
	n := uint32(len(s))
	if n < 2 {
		return 0
	}

	counts := swiss.NewMap[uint32, uint32](uint32(min(n, 1<<16)))

	var highest uint32
	for range iterations {
		dx := 1 + rng.Uint32N(n-1)
		counts.Clear()
		for x := uint32(0); x < n; x++ {
			dy := s[x] ^ s[x^dx]
			count, _ := counts.Get(dy)
			count++
			counts.Put(dy, count)

			if limit != 0 && count > limit {
				return count
			}
			highest = max(highest, count)
		}
	}
	return highest
}

// IsAPN reports whether every cell count of s is at most 2. A sampling pass rejects most
// non-APN S-boxes early, the full histogram decides the rest.
func IsAPN(s sbox.SBox, routines int, rng *rand.Rand) (bool, error) {
	if err := s.Validate(); err != nil {
		return false, err
	}
	if EstimateMax(s, DefaultEstimateIterations, 2, rng) > 2 {
		return false, nil
	}

	h, err := AccumulateParallel(s, routines)
	if err != nil {
		return false, err
	}
	return h.IsAPN(), nil
}
