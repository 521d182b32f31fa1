// Package keypad provides the 16 key input latch of the CHIP-8 machine.
//
// Key state is written by an input adapter from any goroutine and queued.
// The execution goroutine drains the queue once per cycle with Refresh and
// reads an immutable State, so an instruction never observes key state
// changing while it executes.
package keypad

import (
	"errors"
	"fmt"
	"sync"
)

// Keys is the number of keys of the keypad.
const Keys = 16

// NoKey is the key id reported when no key is pressed.
const NoKey uint8 = 0xFF

// ErrInvalidKey is returned for key ids outside of 0x0-0xF.
var ErrInvalidKey = errors.New("invalid key")

// Event is a key press or release reported by an input adapter.
type Event struct {
	Key     uint8
	Pressed bool
}

// State is the keypad state as seen by one execution cycle.
type State struct {
	Pressed [Keys]bool
	Key     uint8 // current key, NoKey if none is pressed
	Changed bool  // a new key press was seen by the last refresh
}

// IsPressed returns whether the key in the low nibble of the value is pressed.
func (s State) IsPressed(key uint8) bool {
	return s.Pressed[key&0x0F]
}

// Latch queues key events and derives the per cycle keypad state.
type Latch struct {
	mu        sync.Mutex
	queue     []Event
	published [Keys]bool

	// owned by the execution goroutine
	state   State
	rearmed bool // held keys count as new presses on the next refresh
}

// New returns a new latch with all keys released.
func New() *Latch {
	return &Latch{
		state: State{Key: NoKey},
	}
}

// Set queues a key state change. It is safe to call from any goroutine.
func (l *Latch) Set(key uint8, pressed bool) error {
	if key >= Keys {
		return fmt.Errorf("%w: %d", ErrInvalidKey, key)
	}

	l.mu.Lock()
	l.queue = append(l.queue, Event{Key: key, Pressed: pressed})
	l.mu.Unlock()
	return nil
}

// Pressed returns the key states as of the last refresh.
// It is safe to call from any goroutine.
func (l *Latch) Pressed() [Keys]bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.published
}

// State returns the keypad state computed by the last refresh.
func (l *Latch) State() State {
	return l.state
}

// Refresh drains the event queue and updates the key-changed edge.
//
// Every queued press of a key that was not held before is a new edge and
// makes that key the current key, the last such press wins. A key that was
// pressed and released again between two refreshes still produces an edge,
// so short taps are not lost. Without a new press the current key is the
// highest held key id.
func (l *Latch) Refresh() {
	l.mu.Lock()
	events := l.queue
	l.queue = nil
	l.mu.Unlock()

	pressed := NoKey
	for _, ev := range events {
		if ev.Pressed && !l.state.Pressed[ev.Key] {
			pressed = ev.Key
		}
		l.state.Pressed[ev.Key] = ev.Pressed
	}

	held := NoKey
	for key := uint8(0); key < Keys; key++ {
		if l.state.Pressed[key] {
			held = key
		}
	}

	switch {
	case pressed != NoKey:
		l.state.Key = pressed
		l.state.Changed = true
	case l.rearmed && held != NoKey:
		l.state.Key = held
		l.state.Changed = true
	default:
		l.state.Key = held
		l.state.Changed = false
	}
	l.rearmed = false

	if len(events) > 0 {
		l.mu.Lock()
		l.published = l.state.Pressed
		l.mu.Unlock()
	}
}

// Reset clears the key-changed edge. Keys that are held down stay pressed
// and are reported as a new edge by the next refresh.
func (l *Latch) Reset() {
	l.rearmed = true
	l.state.Changed = false
	l.state.Key = NoKey
}
