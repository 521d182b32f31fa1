package cpu

import (
	"github.com/retroenv/retrochip8/internal/decoder"
	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/memory"
)

// handler executes a decoded instruction. The program counter already
// points to the next instruction when it is called.
type handler func(c *CPU, ins decoder.Instruction) error

// family describes how the instructions of one op family are dispatched.
// A family either has a single handler or selects a handler from sub
// using the field returned by key.
type family struct {
	handler handler
	key     func(ins decoder.Instruction) uint16
	sub     map[uint16]handler
}

func byWord(ins decoder.Instruction) uint16   { return ins.Word }
func byNibble(ins decoder.Instruction) uint16 { return uint16(ins.N) }
func byByte(ins decoder.Instruction) uint16   { return uint16(ins.KK) }

// families maps the top nibble of an instruction word to its handlers.
var families = [16]family{
	0x0: {key: byWord, sub: map[uint16]handler{
		0x00E0: (*CPU).clearScreen,
		0x00EE: (*CPU).ret,
	}},
	0x1: {handler: (*CPU).jump},
	0x2: {handler: (*CPU).call},
	0x3: {handler: (*CPU).skipEqualByte},
	0x4: {handler: (*CPU).skipNotEqualByte},
	0x5: {key: byNibble, sub: map[uint16]handler{
		0x0: (*CPU).skipEqualRegister,
	}},
	0x6: {handler: (*CPU).loadByte},
	0x7: {handler: (*CPU).addByte},
	0x8: {key: byNibble, sub: map[uint16]handler{
		0x0: (*CPU).loadRegister,
		0x1: (*CPU).or,
		0x2: (*CPU).and,
		0x3: (*CPU).xor,
		0x4: (*CPU).addRegister,
		0x5: (*CPU).sub,
		0x6: (*CPU).shiftRight,
		0x7: (*CPU).subN,
		0xE: (*CPU).shiftLeft,
	}},
	0x9: {key: byNibble, sub: map[uint16]handler{
		0x0: (*CPU).skipNotEqualRegister,
	}},
	0xA: {handler: (*CPU).loadIndex},
	0xB: {handler: (*CPU).jumpOffset},
	0xC: {handler: (*CPU).random},
	0xD: {handler: (*CPU).draw},
	0xE: {key: byByte, sub: map[uint16]handler{
		0x9E: (*CPU).skipPressed,
		0xA1: (*CPU).skipNotPressed,
	}},
	0xF: {key: byByte, sub: map[uint16]handler{
		0x07: (*CPU).loadDelayTimer,
		0x0A: (*CPU).waitKey,
		0x15: (*CPU).setDelayTimer,
		0x18: (*CPU).setSoundTimer,
		0x1E: (*CPU).addIndex,
		0x29: (*CPU).loadGlyph,
		0x33: (*CPU).storeBCD,
		0x55: (*CPU).storeRegisters,
		0x65: (*CPU).loadRegisters,
	}},
}

// lookup returns the handler for the instruction, or nil if the
// instruction is not part of the instruction set.
func lookup(ins decoder.Instruction) handler {
	f := families[ins.Family]
	if f.handler != nil {
		return f.handler
	}
	return f.sub[f.key(ins)]
}

// 00E0 - CLS
func (c *CPU) clearScreen(_ decoder.Instruction) error {
	c.display.Clear()
	return nil
}

// 00EE - RET
func (c *CPU) ret(_ decoder.Instruction) error {
	address, err := c.stack.Pop()
	if err != nil {
		return err
	}
	c.setPC(address)
	return nil
}

// 1NNN - JP addr
func (c *CPU) jump(ins decoder.Instruction) error {
	c.setPC(ins.NNN)
	return nil
}

// 2NNN - CALL addr
func (c *CPU) call(ins decoder.Instruction) error {
	if err := c.stack.Push(c.pc); err != nil {
		return err
	}
	c.setPC(ins.NNN)
	return nil
}

// 3XKK - SE Vx, byte
func (c *CPU) skipEqualByte(ins decoder.Instruction) error {
	c.skipIf(c.v[ins.X] == ins.KK)
	return nil
}

// 4XKK - SNE Vx, byte
func (c *CPU) skipNotEqualByte(ins decoder.Instruction) error {
	c.skipIf(c.v[ins.X] != ins.KK)
	return nil
}

// 5XY0 - SE Vx, Vy
func (c *CPU) skipEqualRegister(ins decoder.Instruction) error {
	c.skipIf(c.v[ins.X] == c.v[ins.Y])
	return nil
}

// 6XKK - LD Vx, byte
func (c *CPU) loadByte(ins decoder.Instruction) error {
	c.v[ins.X] = ins.KK
	return nil
}

// 7XKK - ADD Vx, byte, without carry flag
func (c *CPU) addByte(ins decoder.Instruction) error {
	c.v[ins.X] += ins.KK
	return nil
}

// 8XY0 - LD Vx, Vy
func (c *CPU) loadRegister(ins decoder.Instruction) error {
	c.v[ins.X] = c.v[ins.Y]
	return nil
}

// 8XY1 - OR Vx, Vy
func (c *CPU) or(ins decoder.Instruction) error {
	c.v[ins.X] |= c.v[ins.Y]
	return nil
}

// 8XY2 - AND Vx, Vy
func (c *CPU) and(ins decoder.Instruction) error {
	c.v[ins.X] &= c.v[ins.Y]
	return nil
}

// 8XY3 - XOR Vx, Vy
func (c *CPU) xor(ins decoder.Instruction) error {
	c.v[ins.X] ^= c.v[ins.Y]
	return nil
}

// 8XY4 - ADD Vx, Vy, VF = carry
func (c *CPU) addRegister(ins decoder.Instruction) error {
	sum := uint16(c.v[ins.X]) + uint16(c.v[ins.Y])
	c.v[ins.X] = uint8(sum)
	c.v.setFlag(sum > 0xFF)
	return nil
}

// 8XY5 - SUB Vx, Vy, VF = not borrow
func (c *CPU) sub(ins decoder.Instruction) error {
	x, y := c.v[ins.X], c.v[ins.Y]
	c.v[ins.X] = x - y
	c.v.setFlag(x >= y)
	return nil
}

// 8XY6 - SHR Vx, VF = least significant bit before the shift
func (c *CPU) shiftRight(ins decoder.Instruction) error {
	value := c.shiftSource(ins)
	c.v[ins.X] = value >> 1
	c.v.setFlag(value&0x01 != 0)
	return nil
}

// 8XY7 - SUBN Vx, Vy, VF = not borrow
func (c *CPU) subN(ins decoder.Instruction) error {
	x, y := c.v[ins.X], c.v[ins.Y]
	c.v[ins.X] = y - x
	c.v.setFlag(y >= x)
	return nil
}

// 8XYE - SHL Vx, VF = most significant bit before the shift
func (c *CPU) shiftLeft(ins decoder.Instruction) error {
	value := c.shiftSource(ins)
	c.v[ins.X] = value << 1
	c.v.setFlag(value&0x80 != 0)
	return nil
}

func (c *CPU) shiftSource(ins decoder.Instruction) uint8 {
	if c.quirks.ShiftUsesVY {
		return c.v[ins.Y]
	}
	return c.v[ins.X]
}

// 9XY0 - SNE Vx, Vy
func (c *CPU) skipNotEqualRegister(ins decoder.Instruction) error {
	c.skipIf(c.v[ins.X] != c.v[ins.Y])
	return nil
}

// ANNN - LD I, addr
func (c *CPU) loadIndex(ins decoder.Instruction) error {
	c.setI(ins.NNN)
	return nil
}

// BNNN - JP V0, addr
func (c *CPU) jumpOffset(ins decoder.Instruction) error {
	v0 := uint16(c.v[0])
	if c.quirks.LegacyJumpOffset {
		c.setPC(ins.Word & (0x0FFF + v0))
		return nil
	}
	c.setPC(ins.NNN + v0)
	return nil
}

// CXKK - RND Vx, byte
func (c *CPU) random(ins decoder.Instruction) error {
	c.v[ins.X] = c.rng() & ins.KK
	return nil
}

// DXYN - DRW Vx, Vy, nibble
func (c *CPU) draw(ins decoder.Instruction) error {
	rows := make([]byte, ins.N)
	for row := range rows {
		rows[row] = c.mem.Read(c.i + uint16(row))
	}
	x, y := c.v[ins.X], c.v[ins.Y]
	if c.quirks.ClampSpriteOrigin {
		if x >= display.Width {
			c.v.setFlag(false)
			return nil
		}
		y = min(y, display.Height-1)
	}
	collision := c.display.Draw(x, y, rows)
	c.v.setFlag(collision)
	return nil
}

// EX9E - SKP Vx
func (c *CPU) skipPressed(ins decoder.Instruction) error {
	c.skipIf(c.keys.IsPressed(c.v[ins.X]))
	return nil
}

// EXA1 - SKNP Vx
func (c *CPU) skipNotPressed(ins decoder.Instruction) error {
	c.skipIf(!c.keys.IsPressed(c.v[ins.X]))
	return nil
}

// FX07 - LD Vx, DT
func (c *CPU) loadDelayTimer(ins decoder.Instruction) error {
	c.v[ins.X] = c.timers.Delay()
	return nil
}

// FX0A - LD Vx, K
// The program counter stays on this instruction until a new key press is
// reported by the keypad.
func (c *CPU) waitKey(ins decoder.Instruction) error {
	if !c.keys.Changed {
		c.setPC(c.pc - 2)
		return nil
	}
	c.v[ins.X] = c.keys.Key
	return nil
}

// FX15 - LD DT, Vx
func (c *CPU) setDelayTimer(ins decoder.Instruction) error {
	c.timers.SetDelay(c.v[ins.X])
	return nil
}

// FX18 - LD ST, Vx
func (c *CPU) setSoundTimer(ins decoder.Instruction) error {
	c.timers.SetSound(c.v[ins.X])
	return nil
}

// FX1E - ADD I, Vx
func (c *CPU) addIndex(ins decoder.Instruction) error {
	c.setI(c.i + uint16(c.v[ins.X]))
	return nil
}

// FX29 - LD F, Vx
func (c *CPU) loadGlyph(ins decoder.Instruction) error {
	c.setI(memory.GlyphAddress(c.v[ins.X]))
	return nil
}

// FX33 - LD B, Vx
func (c *CPU) storeBCD(ins decoder.Instruction) error {
	value := c.v[ins.X]
	c.mem.Write(c.i, value/100)
	c.mem.Write(c.i+1, value/10%10)
	c.mem.Write(c.i+2, value%10)
	return nil
}

// FX55 - LD [I], Vx
func (c *CPU) storeRegisters(ins decoder.Instruction) error {
	for reg := uint16(0); reg <= uint16(ins.X); reg++ {
		c.mem.Write(c.i+reg, c.v[reg])
	}
	return nil
}

// FX65 - LD Vx, [I]
func (c *CPU) loadRegisters(ins decoder.Instruction) error {
	for reg := uint16(0); reg <= uint16(ins.X); reg++ {
		c.v[reg] = c.mem.Read(c.i + reg)
	}
	return nil
}
