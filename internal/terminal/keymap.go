package terminal

import (
	"time"
	"unicode"
)

// KeyMap maps host keys to CHIP-8 key ids.
type KeyMap map[rune]uint8

// DefaultKeyMap maps the left block of a QWERTY keyboard to the hex keypad:
//
//	1 2 3 4    1 2 3 C
//	Q W E R    4 5 6 D
//	A S D F    7 8 9 E
//	Z X C V    A 0 B F
var DefaultKeyMap = KeyMap{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// Lookup returns the key id for the host key, ignoring case.
func (m KeyMap) Lookup(ch rune) (uint8, bool) {
	key, ok := m[unicode.ToLower(ch)]
	return key, ok
}

// holdTracker emulates key releases. Terminals only report presses and
// auto repeats, a key counts as released when no press for it arrived
// within the hold timeout.
type holdTracker struct {
	timeout  time.Duration
	deadline map[uint8]time.Time
}

func newHoldTracker(timeout time.Duration) *holdTracker {
	return &holdTracker{
		timeout:  timeout,
		deadline: make(map[uint8]time.Time),
	}
}

// press records a press and reports whether the key was not held before.
func (h *holdTracker) press(key uint8, now time.Time) bool {
	_, held := h.deadline[key]
	h.deadline[key] = now.Add(h.timeout)
	return !held
}

// expire removes and returns all keys whose hold timeout passed.
func (h *holdTracker) expire(now time.Time) []uint8 {
	var released []uint8
	for key, deadline := range h.deadline {
		if now.Before(deadline) {
			continue
		}
		delete(h.deadline, key)
		released = append(released, key)
	}
	return released
}

// releaseAll removes and returns all held keys.
func (h *holdTracker) releaseAll() []uint8 {
	released := make([]uint8, 0, len(h.deadline))
	for key := range h.deadline {
		released = append(released, key)
	}
	clear(h.deadline)
	return released
}
