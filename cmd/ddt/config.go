package main

import (
	"errors"
	"fmt"

	"git.gammaspectra.live/P2Pool/sbox-ddt/utils"
	"github.com/jessevdk/go-flags"
)

const (
	formatText = "text"
	formatJSON = "json"
)

type config struct {
	Input   string `long:"input" short:"i" description:"Read the S-box from this file instead of standard input"`
	Hex     bool   `long:"hex" description:"Input is a hex string of 8-bit S-box outputs instead of the size followed by decimal outputs"`
	Builtin string `long:"builtin" description:"Analyze a built-in S-box instead of reading input (aes, identity:<bits>)"`
	Lenient bool   `long:"lenient" description:"Accept malformed decimal input: parsing stops at the first bad token and missing outputs are zero"`

	Threads  int    `long:"threads" short:"t" description:"Number of routines computing the table; 0 selects one per CPU, 1 runs sequentially" default:"0"`
	Format   string `long:"format" short:"f" description:"Output format" choice:"text" choice:"json" default:"text"`
	Indent   string `long:"indent" description:"Indentation for JSON output; compact when empty"`
	WithZero bool   `long:"with-zero" description:"Also list the number of cells never hit (count 0) in text output"`
	Table    bool   `long:"table" description:"Also output the full difference distribution table"`
	Estimate int    `long:"estimate" description:"Only estimate the largest cell count by sampling this many input differences"`
	Seed     uint64 `long:"seed" description:"Seed for --estimate; 0 seeds from the clock"`

	Debug bool `long:"debug" description:"Enable debug logging"`
	Quiet bool `long:"quiet" short:"q" description:"Only log errors"`
}

// loadConfig parses the command line. A help request is returned as a *flags.Error of
// type flags.ErrHelp after the usage text was printed.
func loadConfig(args []string) (*config, error) {
	cfg := &config{}

	parser := flags.NewParser(cfg, flags.Default)
	parser.Usage = "[OPTIONS]\n\nComputes the difference distribution table of an S-box read as\n\n  N\n  S[0] S[1] ... S[N-1]\n\nand prints how many cells hold each count."
	remaining, err := parser.ParseArgs(args)
	if err != nil {
		return nil, err
	}
	if len(remaining) > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", remaining)
	}

	if cfg.Builtin != "" && (cfg.Input != "" || cfg.Hex || cfg.Lenient) {
		return nil, errors.New("--builtin cannot be combined with --input, --hex or --lenient")
	}
	if cfg.Hex && cfg.Lenient {
		return nil, errors.New("--lenient only applies to decimal input")
	}
	if cfg.Estimate < 0 {
		return nil, fmt.Errorf("invalid sample count %d", cfg.Estimate)
	}
	if cfg.Estimate > 0 && cfg.Table {
		return nil, errors.New("--table cannot be combined with --estimate")
	}
	if cfg.Threads < 0 {
		return nil, fmt.Errorf("invalid thread count %d", cfg.Threads)
	}

	return cfg, nil
}

func (cfg *config) applyLogLevel() {
	switch {
	case cfg.Quiet:
		utils.GlobalLogLevel = utils.LogLevelError
	case cfg.Debug:
		utils.GlobalLogLevel = utils.LogLevelError | utils.LogLevelInfo | utils.LogLevelNotice | utils.LogLevelDebug
	default:
		utils.GlobalLogLevel = utils.LogLevelError | utils.LogLevelInfo
	}
}

func isHelp(err error) bool {
	var flagsErr *flags.Error
	return errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp
}

// isFlagsError reports errors from the parser itself, which it already printed.
func isFlagsError(err error) bool {
	var flagsErr *flags.Error
	return errors.As(err, &flagsErr)
}
