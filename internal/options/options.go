// Package options contains the program options.
package options

import "time"

// DefaultROMDirectory is searched for ROM files that are given by name only
// and do not exist in the working directory.
const DefaultROMDirectory = "roms"

// Parameters contains file path options.
type Parameters struct {
	Input string `flag:"i" usage:"CHIP-8 ROM file"`
	Wav   string `flag:"wav" usage:"record the beeper tone to a WAV file"`
}

// Flags contains behavior options.
type Flags struct {
	CyclesPerTick int           `flag:"cycles-per-tick" usage:"executed instructions per timer decrement" default:"25"`
	TickDelay     time.Duration `flag:"tick-delay" usage:"host delay after every timer decrement" default:"20ms"`
	LegacyJump    bool          `flag:"legacy-jump" usage:"compute BNNN targets as (word & (0xFFF + V0))"`
	ShiftVY       bool          `flag:"shift-vy" usage:"8XY6 and 8XYE shift VY into VX"`
	ClampSprites  bool          `flag:"clamp-sprites" usage:"DXYN skips sprites right of the screen and clamps the row instead of wrapping"`
	Headless      bool          `flag:"headless" usage:"run without terminal display and print the final frame"`
	Duration      time.Duration `flag:"duration" usage:"run time in headless mode" default:"2s"`
	KeyHold       time.Duration `flag:"key-hold" usage:"time after the last key press or repeat until a key counts as released" default:"500ms"`
	Trace         bool          `flag:"trace" usage:"log every executed instruction, requires -debug"`
	Debug         bool          `flag:"debug" usage:"enable debug logging"`
	Quiet         bool          `flag:"q" usage:"quiet mode"`
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
}
