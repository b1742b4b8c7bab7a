package utils

import (
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Routines resolves the requested routine count for workSize items of work.
// Zero or negative values select an automatic count based on the number of CPUs.
func Routines(routines int, workSize uint64) int {
	if routines <= 0 {
		routines = max(runtime.NumCPU()-routines, 1)
	}

	if workSize < uint64(routines) {
		routines = int(workSize)
	}
	return routines
}

// SplitWork runs do for every workIndex in [0, workSize) across routines goroutines.
// Each routine gets its own state, created by init before any work starts, and the
// states are returned in routine order once all work is done.
func SplitWork[S any](routines int, workSize uint64, init func(routines, routineIndex int) (S, error), do func(state S, workIndex uint64) error) ([]S, error) {
	routines = Routines(routines, workSize)

	states := make([]S, routines)
	for routineIndex := range states {
		state, err := init(routines, routineIndex)
		if err != nil {
			return nil, err
		}
		states[routineIndex] = state
	}

	var counter atomic.Uint64
	var eg errgroup.Group

	for routineIndex := range states {
		state := states[routineIndex]
		eg.Go(func() error {
			for {
				workIndex := counter.Add(1)
				if workIndex > workSize {
					return nil
				}

				if err := do(state, workIndex-1); err != nil {
					return err
				}
			}
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return states, nil
}
