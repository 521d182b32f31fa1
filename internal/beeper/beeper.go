// Package beeper implements the audible output of the sound timer.
package beeper

import (
	"context"
	"fmt"
	"io"
	"time"
)

// DefaultInterval is the polling interval of the sound timer, it matches
// the nominal 60 Hz timer frequency.
const DefaultInterval = time.Second / 60

// Beeper receives the tone state once per polling interval.
type Beeper interface {
	Update(active bool) error
	Close() error
}

// SoundSource provides the current sound timer value.
type SoundSource interface {
	SoundTimer() uint8
}

// Bell rings the terminal bell when the tone starts.
type Bell struct {
	w      io.Writer
	active bool
}

// NewBell returns a bell that writes the bell character to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

// Update rings the bell on the transition from silent to active.
func (b *Bell) Update(active bool) error {
	rising := active && !b.active
	b.active = active
	if !rising {
		return nil
	}
	if _, err := io.WriteString(b.w, "\a"); err != nil {
		return fmt.Errorf("writing bell: %w", err)
	}
	return nil
}

// Close implements the Beeper interface.
func (b *Bell) Close() error {
	return nil
}

// Monitor polls the sound timer of source every interval and forwards the
// tone state to the beeper until the context is done. The tone is active
// while the sound timer is non-zero.
func Monitor(ctx context.Context, source SoundSource, beeper Beeper, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := beeper.Update(source.SoundTimer() > 0); err != nil {
				return err
			}
		}
	}
}
