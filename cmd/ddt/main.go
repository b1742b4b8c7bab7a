package main

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"git.gammaspectra.live/P2Pool/sbox-ddt/ddt"
	"git.gammaspectra.live/P2Pool/sbox-ddt/sbox"
	"git.gammaspectra.live/P2Pool/sbox-ddt/types"
	"git.gammaspectra.live/P2Pool/sbox-ddt/utils"
)

type report struct {
	Size        uint64        `json:"size"`
	Fingerprint types.Hash    `json:"fingerprint"`
	Permutation bool          `json:"permutation"`
	Uniformity  uint64        `json:"uniformity"`
	APN         bool          `json:"apn"`
	Cells       uint64        `json:"cells"`
	Histogram   ddt.Histogram `json:"histogram"`
	Table       [][]uint32    `json:"table,omitempty"`
}

type estimateReport struct {
	Size        uint64     `json:"size"`
	Fingerprint types.Hash `json:"fingerprint"`
	Samples     int        `json:"samples"`
	Seed        uint64     `json:"seed"`
	Uniformity  uint32     `json:"uniformity_lower_bound"`
}

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		if isHelp(err) {
			os.Exit(0)
		}
		if !isFlagsError(err) {
			utils.Errorf("DDT", "%s", err)
		}
		os.Exit(1)
	}
	cfg.applyLogLevel()

	if err = run(cfg, os.Stdin, os.Stdout); err != nil {
		utils.Fatalf("%s", err)
	}
}

func loadSBox(cfg *config, stdin io.Reader) (sbox.SBox, error) {
	if cfg.Builtin != "" {
		return sbox.Builtin(cfg.Builtin)
	}

	input := stdin
	if cfg.Input != "" {
		f, err := os.Open(cfg.Input)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		input = f
	}

	if cfg.Hex {
		return sbox.ReadHex(input)
	}
	return sbox.Read(bufio.NewReaderSize(input, 1<<16), cfg.Lenient)
}

func run(cfg *config, stdin io.Reader, stdout io.Writer) error {
	s, err := loadSBox(cfg, stdin)
	if err != nil {
		return fmt.Errorf("could not load sbox: %w", err)
	}
	if utils.IsLogLevelDebug() {
		utils.Debugf("DDT", "loaded sbox of size %d, fingerprint %s", s.Size(), s.Fingerprint())
	}
	if s.Size() < 2 {
		utils.Noticef("DDT", "sbox of size %d has no nonzero input differences", s.Size())
	}

	if cfg.Estimate > 0 {
		return estimate(cfg, s, stdout)
	}

	start := time.Now()
	var h ddt.Histogram
	if cfg.Threads == 1 {
		h, err = ddt.Accumulate(s)
	} else {
		h, err = ddt.AccumulateParallel(s, cfg.Threads)
	}
	if err != nil {
		return fmt.Errorf("could not compute table: %w", err)
	}

	if elapsed := time.Since(start); utils.IsLogLevelDebug() && elapsed > 0 {
		lookups := float64(s.Size()) * float64(max(s.Size(), 1)-1)
		utils.Debugf("DDT", "%d cells in %s, %slookups/s", h.Total(), elapsed, utils.SiUnits(lookups/elapsed.Seconds(), 2))
	}
	if n := s.Size(); n > 0 && h.Total() != n*(n-1) {
		return fmt.Errorf("histogram holds %d cells, expected %d", h.Total(), n*(n-1))
	}

	var table [][]uint32
	if cfg.Table {
		if table, err = ddt.Table(s, false); err != nil {
			return fmt.Errorf("could not build table: %w", err)
		}
	}

	if cfg.Format == formatJSON {
		return utils.WriteJSON(stdout, report{
			Size:        s.Size(),
			Fingerprint: s.Fingerprint(),
			Permutation: s.IsPermutation(),
			Uniformity:  h.Max(),
			APN:         h.IsAPN(),
			Cells:       h.Total(),
			Histogram:   h,
			Table:       table,
		}, cfg.Indent)
	}

	if h.Max() > 0 && h.IsAPN() {
		utils.Noticef("DDT", "sbox is almost perfect nonlinear")
	}

	w := bufio.NewWriter(stdout)
	buf := h.AppendText(make([]byte, 0, 256), cfg.WithZero)
	_, _ = w.Write(append(buf, '\n'))
	for _, row := range table {
		buf = buf[:0]
		for dy, count := range row {
			if dy > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendUint(buf, uint64(count), 10)
		}
		_, _ = w.Write(append(buf, '\n'))
	}
	return w.Flush()
}

// estimate writes a sampled lower bound of the differential uniformity instead of the
// full histogram.
func estimate(cfg *config, s sbox.SBox, stdout io.Writer) error {
	if err := s.Validate(); err != nil {
		return err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	utils.Debugf("DDT", "estimating with %d sampled differences, seed %d", cfg.Estimate, seed)

	rng := rand.New(rand.NewPCG(seed, s.Fingerprint().Uint64()))
	highest := ddt.EstimateMax(s, cfg.Estimate, 0, rng)

	if cfg.Format == formatJSON {
		return utils.WriteJSON(stdout, estimateReport{
			Size:        s.Size(),
			Fingerprint: s.Fingerprint(),
			Samples:     cfg.Estimate,
			Seed:        seed,
			Uniformity:  highest,
		}, cfg.Indent)
	}
	_, err := fmt.Fprintf(stdout, "%d\n", highest)
	return err
}
