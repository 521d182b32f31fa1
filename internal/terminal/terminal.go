// Package terminal implements a text mode front end for the machine using
// termbox. The framebuffer is painted with half block characters and the
// keyboard is mapped to the hex keypad.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nsf/termbox-go"
	"github.com/retroenv/retrochip8/internal/clock"
	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrogolib/log"
)

const (
	// DefaultHoldTimeout is the time after the last key press or auto repeat
	// that a key is reported as released. It has to exceed the initial auto
	// repeat delay of the keyboard, otherwise a held key is released and
	// pressed again once.
	DefaultHoldTimeout = 500 * time.Millisecond

	// DefaultRefreshInterval is the polling interval of the framebuffer.
	DefaultRefreshInterval = time.Second / 60
)

// Machine is the part of the machine used by the terminal.
type Machine interface {
	Load(program []byte) error
	Pause() error
	Resume() error
	State() clock.State
	Done() <-chan struct{}
	SetKeyState(key uint8, pressed bool) error
	FrameBuffer() display.Frame
	FrameVersion() uint64
}

// Config contains the terminal settings.
type Config struct {
	Program         []byte // reloaded on backspace
	KeyMap          KeyMap
	HoldTimeout     time.Duration
	RefreshInterval time.Duration
}

// Terminal is the termbox front end.
type Terminal struct {
	logger  *log.Logger
	machine Machine
	cfg     Config

	keys    *holdTracker
	version uint64
	painted bool
}

// New returns a terminal front end for the machine. Zero config values are
// replaced by defaults.
func New(logger *log.Logger, machine Machine, cfg Config) *Terminal {
	if cfg.KeyMap == nil {
		cfg.KeyMap = DefaultKeyMap
	}
	if cfg.HoldTimeout <= 0 {
		cfg.HoldTimeout = DefaultHoldTimeout
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}
	return &Terminal{
		logger:  logger,
		machine: machine,
		cfg:     cfg,
		keys:    newHoldTracker(cfg.HoldTimeout),
	}
}

// Run takes over the terminal until Esc or Ctrl-C is pressed, the context
// is cancelled or the machine stops.
func (t *Terminal) Run(ctx context.Context) error {
	if err := termbox.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	termbox.SetInputMode(termbox.InputEsc)
	termbox.SetOutputMode(termbox.OutputNormal)

	events := make(chan termbox.Event)
	polled := make(chan struct{})
	go poll(events, polled)

	defer func() {
		// Interrupt blocks until PollEvent picks it up
		go termbox.Interrupt()
		for {
			select {
			case <-events:
			case <-polled:
				termbox.Close()
				return
			}
		}
	}()

	ticker := time.NewTicker(t.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-t.machine.Done():
			return nil

		case ev := <-events:
			quit, err := t.handleEvent(ev)
			if quit || err != nil {
				return err
			}

		case now := <-ticker.C:
			if err := t.refresh(now); err != nil {
				return err
			}
		}
	}
}

// poll forwards termbox events until an interrupt event arrives.
func poll(events chan<- termbox.Event, polled chan<- struct{}) {
	defer close(polled)
	for {
		ev := termbox.PollEvent()
		if ev.Type == termbox.EventInterrupt {
			return
		}
		events <- ev
	}
}

func (t *Terminal) handleEvent(ev termbox.Event) (bool, error) {
	switch ev.Type {
	case termbox.EventError:
		return true, fmt.Errorf("reading terminal event: %w", ev.Err)

	case termbox.EventResize:
		t.painted = false
		return false, nil

	case termbox.EventKey:
		return t.handleKey(ev, time.Now())

	default:
		return false, nil
	}
}

func (t *Terminal) handleKey(ev termbox.Event, now time.Time) (bool, error) {
	switch ev.Key {
	case termbox.KeyEsc, termbox.KeyCtrlC:
		return true, nil

	case termbox.KeyBackspace, termbox.KeyBackspace2:
		return false, t.reload()
	}

	if ev.Ch == 'p' || ev.Ch == 'P' {
		return false, t.togglePause()
	}

	key, ok := t.cfg.KeyMap.Lookup(ev.Ch)
	if !ok {
		return false, nil
	}
	if !t.keys.press(key, now) {
		return false, nil
	}
	if err := t.machine.SetKeyState(key, true); err != nil {
		return true, err
	}
	return false, nil
}

func (t *Terminal) togglePause() error {
	var err error
	switch state := t.machine.State(); state {
	case clock.Running:
		err = t.machine.Pause()
	case clock.Paused:
		err = t.machine.Resume()
	default:
		return nil
	}
	if err != nil && !errors.Is(err, clock.ErrInvalidTransition) {
		return fmt.Errorf("toggling pause: %w", err)
	}
	t.painted = false
	return nil
}

func (t *Terminal) reload() error {
	if t.cfg.Program == nil {
		return nil
	}
	for _, key := range t.keys.releaseAll() {
		if err := t.machine.SetKeyState(key, false); err != nil {
			return err
		}
	}
	if err := t.machine.Load(t.cfg.Program); err != nil {
		return fmt.Errorf("reloading program: %w", err)
	}
	t.logger.Debug("Program reloaded")
	return nil
}

func (t *Terminal) refresh(now time.Time) error {
	if err := t.releaseExpired(now); err != nil {
		return err
	}

	version := t.machine.FrameVersion()
	if t.painted && version == t.version {
		return nil
	}
	t.version = version
	t.painted = true

	if err := paint(t.machine.FrameBuffer(), t.status()); err != nil {
		return fmt.Errorf("painting terminal: %w", err)
	}
	return nil
}

func (t *Terminal) releaseExpired(now time.Time) error {
	for _, key := range t.keys.expire(now) {
		if err := t.machine.SetKeyState(key, false); err != nil {
			return err
		}
	}
	return nil
}

func (t *Terminal) status() string {
	return fmt.Sprintf("%-8s  p pause  bksp reload  esc quit", t.machine.State())
}
