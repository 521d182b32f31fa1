// Package cli handles command line interface logic
package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/retroenv/retrochip8/internal/clock"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/terminal"
)

// ParseFlags parses command line flags and returns the program options.
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "") {
		if errors.Is(err, flag.ErrHelp) {
			err = nil
		}
		msg := ""
		if err != nil {
			msg = err.Error()
		}
		return opts, &UsageError{flags: flags, msg: msg}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if err := validateOptions(opts); err != nil {
		return opts, err
	}

	if opts.Input == "" {
		opts.Input = args[0]
	}

	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage information and the flag defaults.
func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retrochip8 [options] <ROM file>\n\n")
	if e.flags != nil {
		e.flags.SetOutput(os.Stdout)
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	return nil
}

// validateOptions checks option value ranges.
func validateOptions(opts options.Program) error {
	if opts.CyclesPerTick <= 0 {
		return fmt.Errorf("invalid cycles per tick %d, must be positive", opts.CyclesPerTick)
	}
	if opts.TickDelay < 0 {
		return fmt.Errorf("invalid tick delay %s, must not be negative", opts.TickDelay)
	}
	if opts.KeyHold <= 0 {
		return fmt.Errorf("invalid key hold time %s, must be positive", opts.KeyHold)
	}
	if opts.Headless && opts.Duration <= 0 {
		return fmt.Errorf("invalid duration %s, must be positive", opts.Duration)
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the CHIP-8 ROM file to run")
	flags.StringVar(&opts.Wav, "wav", "", "name of a .wav file to record the beeper tone to")
	flags.IntVar(&opts.CyclesPerTick, "cycles-per-tick", clock.DefaultCyclesPerTick, "number of executed instructions per timer decrement")
	flags.DurationVar(&opts.TickDelay, "tick-delay", clock.DefaultTickDelay, "host delay after every timer decrement")
	flags.BoolVar(&opts.LegacyJump, "legacy-jump", false, "compute BNNN jump targets as (word & (0xFFF + V0)) like early interpreters")
	flags.BoolVar(&opts.ShiftVY, "shift-vy", false, "8XY6 and 8XYE shift VY and store the result in VX")
	flags.BoolVar(&opts.ClampSprites, "clamp-sprites", false, "DXYN skips sprites right of the screen and clamps the row instead of wrapping the origin")
	flags.BoolVar(&opts.Headless, "headless", false, "run without terminal display and print the final frame")
	flags.DurationVar(&opts.Duration, "duration", 2*time.Second, "run time in headless mode")
	flags.DurationVar(&opts.KeyHold, "key-hold", terminal.DefaultHoldTimeout, "time after the last key press or auto repeat until a key counts as released")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, requires -debug")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
