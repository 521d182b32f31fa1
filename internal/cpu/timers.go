package cpu

import "sync/atomic"

// Timers holds the delay and sound countdown timers.
// The values are only changed by the execution goroutine but can be
// read from any goroutine, for example by a beeper.
type Timers struct {
	delay atomic.Uint32
	sound atomic.Uint32
}

// Delay returns the delay timer value.
func (t *Timers) Delay() uint8 {
	return uint8(t.delay.Load())
}

// Sound returns the sound timer value. A value above zero means a tone
// should be played.
func (t *Timers) Sound() uint8 {
	return uint8(t.sound.Load())
}

// SetDelay sets the delay timer.
func (t *Timers) SetDelay(value uint8) {
	t.delay.Store(uint32(value))
}

// SetSound sets the sound timer.
func (t *Timers) SetSound(value uint8) {
	t.sound.Store(uint32(value))
}

// Tick decrements both timers, stopping at zero.
func (t *Timers) Tick() {
	if v := t.delay.Load(); v > 0 {
		t.delay.Store(v - 1)
	}
	if v := t.sound.Load(); v > 0 {
		t.sound.Store(v - 1)
	}
}

// Reset sets both timers to zero.
func (t *Timers) Reset() {
	t.delay.Store(0)
	t.sound.Store(0)
}
