// Package machine composes the CHIP-8 components into a virtual machine and
// provides the operations used by loaders, display surfaces, input adapters
// and beepers.
package machine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/retroenv/retrochip8/internal/clock"
	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrochip8/internal/memory"
	"github.com/retroenv/retrogolib/log"
)

// ErrProgramTooLarge is returned when a program does not fit into the
// address space above the program start address.
var ErrProgramTooLarge = errors.New("program too large")

// Config contains the machine settings.
type Config struct {
	Clock      clock.Config
	StackDepth int
	Quirks     cpu.Quirks
	Random     func() uint8
	Trace      bool // log every executed instruction at debug level
}

// DefaultConfig returns the default machine settings.
func DefaultConfig() Config {
	return Config{
		Clock:      clock.DefaultConfig(),
		StackDepth: cpu.DefaultStackDepth,
	}
}

// Machine is a CHIP-8 virtual machine.
type Machine struct {
	logger *log.Logger

	mem   *memory.Memory
	cpu   *cpu.CPU
	fb    *display.FrameBuffer
	keys  *keypad.Latch
	clock *clock.Clock

	decodeErrors atomic.Uint64
}

// New returns a new machine in reset state with an idle clock.
func New(logger *log.Logger, cfg Config) *Machine {
	m := &Machine{
		logger: logger,
		mem:    memory.New(),
		fb:     display.New(),
		keys:   keypad.New(),
	}
	m.cpu = cpu.New(m.mem, m.fb, cpu.Config{
		StackDepth: cfg.StackDepth,
		Quirks:     cfg.Quirks,
		Random:     cfg.Random,
		Logger:     logger,
		Trace:      cfg.Trace,
	})
	m.clock = clock.New(logger, (*cycler)(m), cfg.Clock)
	return m
}

// Load resets the machine and copies the program to the program start
// address. It can be called at any time, a running machine continues with
// the new program. A program that is too large leaves the machine in
// reset state.
func (m *Machine) Load(program []byte) error {
	var err error
	m.clock.Reset(func() {
		m.reset()
		if len(program) > memory.MaxProgramSize {
			err = fmt.Errorf("%w: %d bytes, maximum is %d", ErrProgramTooLarge, len(program), memory.MaxProgramSize)
			return
		}
		m.mem.Copy(memory.ProgramStart, program)
	})
	if err != nil {
		return err
	}

	m.logger.Info("Program loaded", log.Int("size", len(program)))
	return nil
}

// Reset reinitializes all machine state without loading a program.
func (m *Machine) Reset() {
	m.clock.Reset(m.reset)
}

func (m *Machine) reset() {
	m.mem.Reset()
	m.cpu.Reset()
	m.fb.Clear()
	m.keys.Reset()
	m.decodeErrors.Store(0)
}

// Start runs the machine in a new goroutine until it is stopped, the
// context is cancelled or a fatal error occurs.
func (m *Machine) Start(ctx context.Context) error {
	return m.clock.Start(ctx)
}

// Pause suspends execution at the next cycle boundary.
func (m *Machine) Pause() error {
	return m.clock.Pause()
}

// Resume continues a paused machine.
func (m *Machine) Resume() error {
	return m.clock.Resume()
}

// Stop ends execution. A stopped machine can not be started again.
func (m *Machine) Stop() error {
	return m.clock.Stop()
}

// Wait blocks until the machine is stopped and returns the error that
// stopped it, if any.
func (m *Machine) Wait() error {
	return m.clock.Wait()
}

// Done returns a channel that is closed when the machine has stopped.
func (m *Machine) Done() <-chan struct{} {
	return m.clock.Done()
}

// State returns the clock state.
func (m *Machine) State() clock.State {
	return m.clock.State()
}

// Step executes a single cycle while the machine is not running.
func (m *Machine) Step() error {
	return m.clock.Step()
}

// SetKeyState reports a key press or release. It is safe to call from any
// goroutine, the change is seen by the next cycle.
func (m *Machine) SetKeyState(key uint8, pressed bool) error {
	if err := m.keys.Set(key, pressed); err != nil {
		return fmt.Errorf("setting key state: %w", err)
	}
	return nil
}

// PressedKeys returns the key states seen by the last cycle.
func (m *Machine) PressedKeys() [keypad.Keys]bool {
	return m.keys.Pressed()
}

// FrameBuffer returns a copy of the current framebuffer content.
func (m *Machine) FrameBuffer() display.Frame {
	return m.fb.Snapshot()
}

// FrameVersion returns a counter that changes whenever the framebuffer
// was modified.
func (m *Machine) FrameVersion() uint64 {
	return m.fb.Version()
}

// SoundTimer returns the sound timer. A value above zero means a tone
// should be played.
func (m *Machine) SoundTimer() uint8 {
	return m.cpu.Timers().Sound()
}

// DelayTimer returns the delay timer.
func (m *Machine) DelayTimer() uint8 {
	return m.cpu.Timers().Delay()
}

// DecodeErrors returns the number of unknown instructions executed since
// the last reset.
func (m *Machine) DecodeErrors() uint64 {
	return m.decodeErrors.Load()
}

// Snapshot returns a copy of the CPU state, taken at a cycle boundary.
func (m *Machine) Snapshot() cpu.Snapshot {
	var snapshot cpu.Snapshot
	m.clock.Exclusive(func() {
		snapshot = m.cpu.Snapshot()
	})
	return snapshot
}

// ReadMemory returns a copy of the given address range, taken at a cycle
// boundary. Addresses wrap around at the end of the address space.
func (m *Machine) ReadMemory(address uint16, length int) []byte {
	data := make([]byte, length)
	m.clock.Exclusive(func() {
		for i := range data {
			data[i] = m.mem.Read(address + uint16(i))
		}
	})
	return data
}

// cycler adapts the machine to the clock.Cycler interface without
// exporting the cycle methods on Machine.
type cycler Machine

// Cycle executes one instruction with the keypad state of the previous
// cycle and then refreshes the keypad. Unknown instructions are logged
// and skipped, other errors stop the clock.
func (c *cycler) Cycle() error {
	m := (*Machine)(c)

	err := m.cpu.Step(m.keys.State())
	m.keys.Refresh()
	if err == nil {
		return nil
	}

	if cpu.IsFatal(err) {
		return err
	}

	var decodeErr *cpu.DecodeError
	if errors.As(err, &decodeErr) {
		m.decodeErrors.Add(1)
		m.logger.Warn("Unknown instruction",
			log.Hex("address", decodeErr.PC),
			log.Hex("opcode", decodeErr.Instruction.Word))
	}
	return nil
}

// TickTimers decrements the delay and sound timers.
func (c *cycler) TickTimers() {
	c.cpu.TickTimers()
}
