// Package runner handles the emulator run workflow from loading the ROM
// to stopping the machine.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/retroenv/retrochip8/internal/beeper"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/terminal"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// Run loads the ROM and runs the machine with the front end selected by
// the options until the front end quits, the context is cancelled or the
// machine stops on a fatal error.
func Run(ctx context.Context, logger *log.Logger, opts options.Program) error {
	return run(ctx, logger, opts, os.Stdout)
}

func run(ctx context.Context, logger *log.Logger, opts options.Program, out io.Writer) error {
	program, err := loader.New(options.DefaultROMDirectory).Load(opts.Input)
	if err != nil {
		return err
	}

	m := machine.New(logger, config.CreateMachineConfig(opts))
	if err := m.Load(program); err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	logger.Info("Running CHIP-8 ROM", log.String("file", opts.Input))

	beep, err := createBeeper(opts, out)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := m.Start(ctx); err != nil {
		_ = beep.Close()
		return fmt.Errorf("starting machine: %w", err)
	}

	monitorErr := make(chan error, 1)
	go func() {
		monitorErr <- beeper.Monitor(ctx, m, beep, beeper.DefaultInterval)
	}()

	var frontendErr error
	if opts.Headless {
		frontendErr = runHeadless(ctx, m, opts.Duration, out)
	} else {
		term := terminal.New(logger, m, terminal.Config{
			Program:     program,
			HoldTimeout: opts.KeyHold,
		})
		frontendErr = term.Run(ctx)
	}

	cancel()
	_ = m.Stop()
	machineErr := m.Wait()

	errs := []error{frontendErr, <-monitorErr, beep.Close()}
	if machineErr != nil {
		errs = append(errs, fmt.Errorf("machine stopped: %w", machineErr))
	}
	if decodeErrors := m.DecodeErrors(); decodeErrors > 0 {
		logger.Warn("Unknown instructions were skipped", log.Int("count", int(decodeErrors)))
	}
	return errors.Join(errs...)
}

// createBeeper returns the WAV recorder if a file name is set, otherwise the
// terminal bell. Headless runs without a WAV file are silent.
func createBeeper(opts options.Program, out io.Writer) (beeper.Beeper, error) {
	if opts.Wav == "" {
		if opts.Headless {
			return beeper.NewBell(io.Discard), nil
		}
		return beeper.NewBell(out), nil
	}

	f, err := os.Create(opts.Wav)
	if err != nil {
		return nil, fmt.Errorf("creating wav file: %w", err)
	}
	return &wavFile{Wav: beeper.NewWav(f), file: f}, nil
}

// wavFile closes the file after the WAV header is written.
type wavFile struct {
	*beeper.Wav
	file *os.File
}

func (w *wavFile) Close() error {
	err := w.Wav.Close()
	if closeErr := w.file.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("closing wav file: %w", closeErr)
	}
	return err
}

// runHeadless runs the machine for the given duration and prints the final
// frame.
func runHeadless(ctx context.Context, m *machine.Machine, duration time.Duration, out io.Writer) error {
	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-m.Done():
	case <-timer.C:
	}

	if _, err := fmt.Fprint(out, m.FrameBuffer().String()); err != nil {
		return fmt.Errorf("printing frame: %w", err)
	}
	return nil
}

// PrintBanner prints the application banner with version information.
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	logger.Info("retrochip8", log.String("version", buildinfo.Version(version, commit, date)))
}
