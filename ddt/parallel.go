package ddt

import (
	"git.gammaspectra.live/P2Pool/sbox-ddt/sbox"
	"git.gammaspectra.live/P2Pool/sbox-ddt/utils"
	"golang.org/x/sys/cpu"
)

type worker struct {
	_         cpu.CacheLinePad
	row       []uint32
	histogram Histogram
	rows      uint64
	_         cpu.CacheLinePad
}

// AccumulateParallel is Accumulate with the input differences split across routines.
// Each routine owns its row buffer and a partial histogram, the partials are summed once
// all differences are done. routines <= 0 selects a count from the available CPUs.
func AccumulateParallel(s sbox.SBox, routines int) (Histogram, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	n := uint32(len(s))
	h := NewHistogram(s.Size())
	if n < 2 {
		return h, nil
	}

	workers, err := utils.SplitWork(routines, uint64(n-1), func(routines, routineIndex int) (*worker, error) {
		return &worker{
			row:       make([]uint32, n),
			histogram: NewHistogram(s.Size()),
		}, nil
	}, func(w *worker, workIndex uint64) error {
		Row(s, uint32(workIndex+1), w.row)
		fold(w.row, w.histogram)
		w.rows++
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i, w := range workers {
		utils.Debugf("DDT", "routine %d processed %d differences", i, w.rows)
		h.Add(w.histogram)
	}
	return h, nil
}
