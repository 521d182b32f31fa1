// Package config handles application configuration and setup
package config

import (
	"github.com/retroenv/retrochip8/internal/clock"
	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CreateMachineConfig returns the machine settings for the program options.
func CreateMachineConfig(opts options.Program) machine.Config {
	cfg := machine.DefaultConfig()
	cfg.Clock = clock.Config{
		CyclesPerTick: opts.CyclesPerTick,
		TickDelay:     opts.TickDelay,
	}
	cfg.Quirks = cpu.Quirks{
		LegacyJumpOffset:  opts.LegacyJump,
		ShiftUsesVY:       opts.ShiftVY,
		ClampSpriteOrigin: opts.ClampSprites,
	}
	cfg.Trace = opts.Trace && opts.Debug
	return cfg
}
