package cpu

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrochip8/internal/decoder"
)

var (
	// ErrStackOverflow is returned when a call exceeds the stack capacity.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned when a return is executed with an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
)

// DecodeError is returned for instruction words that are not part of the
// instruction set. Execution can continue after it, the program counter
// has already been advanced past the word.
type DecodeError struct {
	PC          uint16
	Instruction decoder.Instruction
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unknown instruction %04X at %03X", e.Instruction.Word, e.PC)
}

// IsFatal returns whether the error stops the current run.
// Decode errors are recoverable, everything else is fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var decodeErr *DecodeError
	return !errors.As(err, &decodeErr)
}
