// Package clock drives the execution cycles of the machine and decrements
// its timers on a fixed cadence.
//
// The timer cadence is derived from the cycle count, not from wall clock
// time: every CyclesPerTick cycles the timers are decremented and the loop
// sleeps for TickDelay. The effective timer rate therefore depends on the
// host execution speed.
package clock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/retroenv/retrogolib/log"
)

// Default cadence, approximating a 60Hz timer decay.
const (
	DefaultCyclesPerTick = 25
	DefaultTickDelay     = 20 * time.Millisecond
)

var (
	// ErrInvalidTransition is returned for control requests that are not
	// allowed in the current state.
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrRunning is returned when a manual step is requested while the
	// loop is running.
	ErrRunning = errors.New("clock is running")
	// ErrStopped is returned when a manual step is requested after the
	// clock was stopped.
	ErrStopped = errors.New("clock is stopped")
)

// Cycler executes machine cycles.
type Cycler interface {
	// Cycle executes one instruction and refreshes the input state.
	// A returned error stops the clock.
	Cycle() error
	// TickTimers decrements the delay and sound timers.
	TickTimers()
}

// Config contains the clock cadence settings.
type Config struct {
	CyclesPerTick int
	TickDelay     time.Duration
}

// DefaultConfig returns the default cadence.
func DefaultConfig() Config {
	return Config{
		CyclesPerTick: DefaultCyclesPerTick,
		TickDelay:     DefaultTickDelay,
	}
}

// Clock runs the cycle loop in its own goroutine.
//
// The loop holds the clock mutex while executing a cycle, so every
// operation that acquires it is served at a cycle boundary.
type Clock struct {
	logger *log.Logger
	cycler Cycler
	config Config

	mu     sync.Mutex
	cond   *sync.Cond
	state  State
	cycles int    // cycles since the last timer tick
	total  uint64 // cycles since the last reset
	err    error

	stop chan struct{} // closed when the clock is stopped
	done chan struct{} // closed when the loop has exited
}

// New returns a new idle clock.
func New(logger *log.Logger, cycler Cycler, cfg Config) *Clock {
	if cfg.CyclesPerTick <= 0 {
		cfg.CyclesPerTick = DefaultCyclesPerTick
	}
	if cfg.TickDelay < 0 {
		cfg.TickDelay = 0
	}

	c := &Clock{
		logger: logger,
		cycler: cycler,
		config: cfg,
		state:  Idle,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// State returns the current state.
func (c *Clock) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Cycles returns the number of cycles executed since the last reset.
func (c *Clock) Cycles() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Start launches the cycle loop. Cancelling the context stops the clock.
func (c *Clock) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.transition(Running, Idle); err != nil {
		return err
	}

	go c.run()
	go func() {
		select {
		case <-ctx.Done():
			_ = c.Stop()
		case <-c.done:
		}
	}()
	return nil
}

// Pause suspends the loop at the next cycle boundary. When Pause returns
// no cycle is executing.
func (c *Clock) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transition(Paused, Running)
}

// Resume continues a paused loop.
func (c *Clock) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.transition(Running, Paused); err != nil {
		return err
	}
	c.cond.Broadcast()
	return nil
}

// Stop ends the loop at the next cycle boundary. A stopped clock can not
// be started again. Stopping an already stopped clock is a no-op.
func (c *Clock) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Stopped {
		return nil
	}
	previous := c.state
	c.setState(Stopped)
	close(c.stop)
	c.cond.Broadcast()

	if previous == Idle {
		close(c.done)
	}
	return nil
}

// Wait blocks until the clock is stopped and the loop has exited. It
// returns the error that stopped the loop, if any.
func (c *Clock) Wait() error {
	<-c.done

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Done returns a channel that is closed when the loop has exited.
func (c *Clock) Done() <-chan struct{} {
	return c.done
}

// Step executes a single cycle synchronously, including the timer cadence
// but without the host delay. It is only allowed while the loop is not
// running.
func (c *Clock) Step() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case Running:
		return ErrRunning
	case Stopped:
		return ErrStopped
	}
	_, err := c.cycle()
	return err
}

// Exclusive runs fn at a cycle boundary, no cycle executes while fn runs.
// fn must not call methods of the clock.
func (c *Clock) Exclusive(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn()
}

// Reset runs fn at a cycle boundary and restarts the timer cadence.
// fn must not call methods of the clock.
func (c *Clock) Reset(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn()
	c.cycles = 0
	c.total = 0
}

func (c *Clock) run() {
	defer close(c.done)
	c.logger.Debug("Clock loop started")

	for {
		c.mu.Lock()
		for c.state == Paused {
			c.cond.Wait()
		}
		if c.state == Stopped {
			total := c.total
			c.mu.Unlock()
			c.logger.Debug("Clock loop stopped", log.Int("cycles", int(total)))
			return
		}

		tick, err := c.cycle()
		if err != nil {
			c.err = err
			c.setState(Stopped)
			close(c.stop)
			c.mu.Unlock()
			c.logger.Error("Execution stopped", log.Err(err))
			return
		}
		c.mu.Unlock()

		if tick {
			c.sleep()
		}
	}
}

// cycle executes one cycle and returns whether the timers were ticked.
// The caller must hold the mutex.
func (c *Clock) cycle() (bool, error) {
	if err := c.cycler.Cycle(); err != nil {
		return false, err
	}

	c.total++
	c.cycles++
	if c.cycles < c.config.CyclesPerTick {
		return false, nil
	}
	c.cycles = 0
	c.cycler.TickTimers()
	return true, nil
}

// sleep yields for the tick delay, returning early if the clock is stopped.
func (c *Clock) sleep() {
	if c.config.TickDelay == 0 {
		return
	}

	timer := time.NewTimer(c.config.TickDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-c.stop:
	}
}

// transition moves to the target state if the current state is the
// expected one. The caller must hold the mutex.
func (c *Clock) transition(target, expected State) error {
	if c.state != expected {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.state, target)
	}
	c.setState(target)
	return nil
}

func (c *Clock) setState(state State) {
	c.logger.Debug("Clock state changed",
		log.Stringer("from", c.state),
		log.Stringer("to", state))
	c.state = state
}
