package cpu

// RegisterCount is the number of general purpose registers.
const RegisterCount = 16

// FlagRegister is the index of VF, which holds the carry, borrow and
// collision flags.
const FlagRegister = 0xF

// Registers is the register file V0-VF.
type Registers [RegisterCount]uint8

// setFlag sets VF to 1 if the condition holds, otherwise to 0.
func (r *Registers) setFlag(condition bool) {
	if condition {
		r[FlagRegister] = 1
	} else {
		r[FlagRegister] = 0
	}
}
