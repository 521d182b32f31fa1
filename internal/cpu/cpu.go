// Package cpu implements the CHIP-8 execution engine.
//
// The CPU owns the register file, index register, program counter, call
// stack and timers. It executes one instruction per Step against an address
// space and a framebuffer, using the keypad state handed in for that cycle.
package cpu

import (
	"fmt"
	"math/rand/v2"

	"github.com/retroenv/retrochip8/internal/decoder"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrochip8/internal/memory"
	"github.com/retroenv/retrogolib/log"
)

// Memory is the address space the CPU fetches from and stores to.
type Memory interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
	ReadWord(address uint16) uint16
}

// Display is the framebuffer the CPU draws to.
type Display interface {
	Clear()
	Draw(x, y uint8, rows []byte) bool
}

// Quirks selects between interpretations of ambiguous instructions.
type Quirks struct {
	// LegacyJumpOffset computes BNNN as (word & (0x0FFF + V0)) & 0x0FFF,
	// reproducing an operator precedence mistake of early interpreters.
	// By default the target is (NNN + V0) & 0x0FFF.
	LegacyJumpOffset bool

	// ShiftUsesVY makes 8XY6 and 8XYE shift VY and store the result in VX.
	// By default VX is shifted in place.
	ShiftUsesVY bool

	// ClampSpriteOrigin makes DXYN skip sprites whose origin is right of the
	// screen and move origins below the screen to the last row, like the
	// first version of this interpreter did. By default the origin wraps
	// around the screen.
	ClampSpriteOrigin bool
}

// Config contains the CPU settings.
type Config struct {
	StackDepth int
	Quirks     Quirks

	// Random returns the random bytes used by CXKK. Defaults to math/rand.
	Random func() uint8

	// Logger receives a debug entry for every executed instruction if Trace is set.
	Logger *log.Logger
	Trace  bool
}

// CPU is the CHIP-8 execution engine.
type CPU struct {
	mem     Memory
	display Display
	quirks  Quirks
	rng     func() uint8
	logger  *log.Logger
	trace   bool

	v      Registers
	i      uint16
	pc     uint16
	stack  *Stack
	timers Timers

	keys keypad.State // keypad state of the current step
}

// Snapshot is a copy of the CPU state.
type Snapshot struct {
	V          Registers
	I          uint16
	PC         uint16
	Stack      []uint16
	DelayTimer uint8
	SoundTimer uint8
}

// New returns a new CPU in reset state.
func New(mem Memory, display Display, cfg Config) *CPU {
	rng := cfg.Random
	if rng == nil {
		rng = func() uint8 {
			return uint8(rand.IntN(256))
		}
	}

	c := &CPU{
		mem:     mem,
		display: display,
		quirks:  cfg.Quirks,
		rng:     rng,
		logger:  cfg.Logger,
		trace:   cfg.Trace && cfg.Logger != nil,
		stack:   NewStack(cfg.StackDepth),
	}
	c.Reset()
	return c
}

// Reset clears registers, timers and stack and sets the program counter
// to the program start address.
func (c *CPU) Reset() {
	c.v = Registers{}
	c.i = 0
	c.pc = memory.ProgramStart
	c.stack.Reset()
	c.timers.Reset()
	c.keys = keypad.State{Key: keypad.NoKey}
}

// Step fetches, decodes and executes a single instruction.
//
// Unknown instructions return a *DecodeError after the program counter was
// advanced past them. Errors caused by the instruction itself, like a stack
// overflow, leave the program counter at the failing instruction.
func (c *CPU) Step(keys keypad.State) error {
	pc := c.pc
	ins := decoder.Decode(c.mem.ReadWord(pc))
	c.keys = keys
	c.setPC(pc + 2)

	if c.trace {
		c.logger.Debug("Executing instruction",
			log.Hex("pc", pc),
			log.String("instruction", ins.String()))
	}

	handler := lookup(ins)
	if handler == nil {
		return &DecodeError{PC: pc, Instruction: ins}
	}

	if err := handler(c, ins); err != nil {
		c.pc = pc
		return fmt.Errorf("executing %s at %03X: %w", ins, pc, err)
	}
	return nil
}

// TickTimers decrements the delay and sound timers.
func (c *CPU) TickTimers() {
	c.timers.Tick()
}

// Timers returns the timers, which can be read from other goroutines.
func (c *CPU) Timers() *Timers {
	return &c.timers
}

// PC returns the program counter.
func (c *CPU) PC() uint16 {
	return c.pc
}

// Snapshot returns a copy of the CPU state.
// It must not be called while another goroutine executes Step.
func (c *CPU) Snapshot() Snapshot {
	return Snapshot{
		V:          c.v,
		I:          c.i,
		PC:         c.pc,
		Stack:      c.stack.Entries(),
		DelayTimer: c.timers.Delay(),
		SoundTimer: c.timers.Sound(),
	}
}

func (c *CPU) setPC(address uint16) {
	c.pc = address & memory.AddressMask
}

func (c *CPU) setI(address uint16) {
	c.i = address & memory.AddressMask
}

func (c *CPU) skipIf(condition bool) {
	if condition {
		c.setPC(c.pc + 2)
	}
}
