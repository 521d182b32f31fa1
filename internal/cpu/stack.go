package cpu

import "fmt"

// DefaultStackDepth is the call depth of the classic COSMAC VIP interpreter.
const DefaultStackDepth = 16

// Stack is a bounded stack of return addresses.
type Stack struct {
	entries []uint16
	depth   int
}

// NewStack returns a new empty stack that can hold the given number of
// return addresses.
func NewStack(capacity int) *Stack {
	if capacity <= 0 {
		capacity = DefaultStackDepth
	}
	return &Stack{
		entries: make([]uint16, capacity),
	}
}

// Push adds a return address to the stack.
func (s *Stack) Push(address uint16) error {
	if s.depth == len(s.entries) {
		return fmt.Errorf("%w: depth %d", ErrStackOverflow, s.depth)
	}
	s.entries[s.depth] = address
	s.depth++
	return nil
}

// Pop removes and returns the most recently pushed return address.
func (s *Stack) Pop() (uint16, error) {
	if s.depth == 0 {
		return 0, ErrStackUnderflow
	}
	s.depth--
	return s.entries[s.depth], nil
}

// Depth returns the number of return addresses on the stack.
func (s *Stack) Depth() int {
	return s.depth
}

// Capacity returns the maximum number of return addresses.
func (s *Stack) Capacity() int {
	return len(s.entries)
}

// Reset empties the stack.
func (s *Stack) Reset() {
	s.depth = 0
}

// Entries returns a copy of the return addresses, oldest first.
func (s *Stack) Entries() []uint16 {
	entries := make([]uint16, s.depth)
	copy(entries, s.entries[:s.depth])
	return entries
}
