package cli

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/retroenv/retrochip8/internal/clock"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/terminal"
	"github.com/retroenv/retrogolib/assert"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want options.Program
	}{
		{
			name: "defaults",
			args: []string{"prog", "pong.ch8"},
			want: options.Program{
				Parameters: options.Parameters{Input: "pong.ch8"},
				Flags: options.Flags{
					CyclesPerTick: clock.DefaultCyclesPerTick,
					TickDelay:     clock.DefaultTickDelay,
					Duration:      2 * time.Second,
					KeyHold:       terminal.DefaultHoldTimeout,
				},
			},
		},
		{
			name: "input flag",
			args: []string{"prog", "-i", "tetris.ch8"},
			want: options.Program{
				Parameters: options.Parameters{Input: "tetris.ch8"},
				Flags: options.Flags{
					CyclesPerTick: clock.DefaultCyclesPerTick,
					TickDelay:     clock.DefaultTickDelay,
					Duration:      2 * time.Second,
					KeyHold:       terminal.DefaultHoldTimeout,
				},
			},
		},
		{
			name: "all flags",
			args: []string{
				"prog", "-cycles-per-tick", "10", "-tick-delay", "5ms", "-legacy-jump", "-shift-vy", "-clamp-sprites",
				"-headless", "-duration", "1s", "-key-hold", "300ms", "-wav", "out.wav", "-trace", "-debug", "pong.ch8",
			},
			want: options.Program{
				Parameters: options.Parameters{Input: "pong.ch8", Wav: "out.wav"},
				Flags: options.Flags{
					CyclesPerTick: 10,
					TickDelay:     5 * time.Millisecond,
					LegacyJump:    true,
					ShiftVY:       true,
					ClampSprites:  true,
					Headless:      true,
					Duration:      time.Second,
					KeyHold:       300 * time.Millisecond,
					Trace:         true,
					Debug:         true,
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			t.Cleanup(func() { os.Args = oldArgs })

			os.Args = tt.args

			got, err := ParseFlags()
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		usageError bool
	}{
		{name: "no ROM file", args: []string{"prog"}, usageError: true},
		{name: "unknown flag", args: []string{"prog", "-unknown", "pong.ch8"}, usageError: true},
		{name: "flag after ROM file", args: []string{"prog", "pong.ch8", "-debug"}, usageError: true},
		{name: "zero cycles per tick", args: []string{"prog", "-cycles-per-tick", "0", "pong.ch8"}},
		{name: "negative tick delay", args: []string{"prog", "-tick-delay", "-1ms", "pong.ch8"}},
		{name: "zero key hold time", args: []string{"prog", "-key-hold", "0s", "pong.ch8"}},
		{name: "headless without duration", args: []string{"prog", "-headless", "-duration", "0s", "pong.ch8"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			oldStderr := os.Stderr
			t.Cleanup(func() {
				os.Args = oldArgs
				os.Stderr = oldStderr
			})

			devNull, err := os.Open(os.DevNull)
			assert.NoError(t, err)
			t.Cleanup(func() { _ = devNull.Close() })
			os.Stderr = devNull

			os.Args = tt.args

			_, err = ParseFlags()
			assert.Error(t, err)

			var usageErr *UsageError
			assert.Equal(t, tt.usageError, errors.As(err, &usageErr))
		})
	}
}
