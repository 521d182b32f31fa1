// Package decoder splits CHIP-8 instruction words into their operand fields.
package decoder

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Instruction is a decoded CHIP-8 instruction word.
//
// Field layout of a word:
//
//	FFFF XXXX YYYY NNNN
//	          KKKK KKKK
//	     NNNN NNNN NNNN (address)
type Instruction struct {
	Word   uint16
	Family uint8  // op family, bits 15-12
	X      uint8  // register index, bits 11-8
	Y      uint8  // register index, bits 7-4
	N      uint8  // nibble, bits 3-0
	KK     uint8  // byte, bits 7-0
	NNN    uint16 // address, bits 11-0
}

// Decode extracts the operand fields of an instruction word.
// Every word decodes, whether it is a legal instruction is up to the caller.
func Decode(word uint16) Instruction {
	return Instruction{
		Word:   word,
		Family: uint8(word >> 12),
		X:      uint8((word & 0x0F00) >> 8),
		Y:      uint8((word & 0x00F0) >> 4),
		N:      uint8(word & 0x000F),
		KK:     uint8(word & 0x00FF),
		NNN:    word & 0x0FFF,
	}
}

// Name returns the mnemonic of the instruction as defined by the CHIP-8
// opcode table, or an empty string if no opcode matches the word.
func (i Instruction) Name() string {
	for _, op := range chip8.Opcodes[int(i.Family)] {
		if op.Info.Mask&i.Word == op.Info.Value && op.Instruction != nil {
			return op.Instruction.Name
		}
	}
	return ""
}

// String returns the instruction word and its mnemonic, for logging.
func (i Instruction) String() string {
	name := i.Name()
	if name == "" {
		name = "???"
	}
	return fmt.Sprintf("%04X %s", i.Word, name)
}
