// Package display provides the monochrome CHIP-8 framebuffer.
package display

import (
	"strings"
	"sync"
	"sync/atomic"
)

// Screen dimensions in pixels.
const (
	Width  = 64
	Height = 32
)

// Frame is a copy of the framebuffer content, indexed as [y][x].
type Frame [Height][Width]bool

// String renders the frame as text, one line per row with '#' for set pixels.
func (f Frame) String() string {
	var sb strings.Builder
	sb.Grow(Height * (Width + 1))
	for y := range f {
		for x := range f[y] {
			if f[y][x] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FrameBuffer is the 64x32 one bit pixel grid.
//
// It is written by the execution goroutine and can be read concurrently
// by a display surface through Snapshot.
type FrameBuffer struct {
	mu      sync.RWMutex
	pixels  Frame
	version atomic.Uint64
}

// New returns a new cleared framebuffer.
func New() *FrameBuffer {
	return &FrameBuffer{}
}

// Clear turns off all pixels.
func (fb *FrameBuffer) Clear() {
	fb.mu.Lock()
	fb.pixels = Frame{}
	fb.mu.Unlock()
	fb.version.Add(1)
}

// Draw XORs the sprite rows onto the framebuffer with the top left corner
// at the given position. Every row is 8 pixels wide, the most significant
// bit being the leftmost pixel. The origin wraps around the screen, pixels
// past the right or bottom edge are clipped.
// It returns whether any set pixel was turned off.
func (fb *FrameBuffer) Draw(x, y uint8, rows []byte) bool {
	originX := int(x) % Width
	originY := int(y) % Height
	collision := false

	fb.mu.Lock()
	for i, row := range rows {
		py := originY + i
		if py >= Height {
			break
		}
		for bit := 0; bit < 8; bit++ {
			px := originX + bit
			if px >= Width {
				break
			}
			if row&(0x80>>bit) == 0 {
				continue
			}
			if fb.pixels[py][px] {
				collision = true
			}
			fb.pixels[py][px] = !fb.pixels[py][px]
		}
	}
	fb.mu.Unlock()

	fb.version.Add(1)
	return collision
}

// Pixel returns whether the pixel at the given position is set.
func (fb *FrameBuffer) Pixel(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	fb.mu.RLock()
	defer fb.mu.RUnlock()
	return fb.pixels[y][x]
}

// Snapshot returns a copy of the current framebuffer content.
func (fb *FrameBuffer) Snapshot() Frame {
	fb.mu.RLock()
	defer fb.mu.RUnlock()
	return fb.pixels
}

// Version returns a counter that changes whenever the content was modified.
// Display surfaces can use it to skip repainting unchanged frames.
func (fb *FrameBuffer) Version() uint64 {
	return fb.version.Load()
}
