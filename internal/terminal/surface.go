package terminal

import (
	"github.com/nsf/termbox-go"
	"github.com/retroenv/retrochip8/internal/display"
)

const (
	pixelOn  = termbox.ColorWhite
	pixelOff = termbox.ColorBlack

	// two framebuffer rows share one terminal row
	surfaceRows = display.Height / 2
)

// halfBlock returns the cell for a vertical pixel pair. The upper half
// block is drawn in the color of the top pixel on the background color of
// the bottom pixel.
func halfBlock(top, bottom bool) (rune, termbox.Attribute, termbox.Attribute) {
	fg, bg := pixelOff, pixelOff
	if top {
		fg = pixelOn
	}
	if bottom {
		bg = pixelOn
	}
	return '▀', fg, bg
}

// paint draws the frame and the status line into the termbox back buffer.
func paint(frame display.Frame, status string) error {
	if err := termbox.Clear(termbox.ColorDefault, termbox.ColorDefault); err != nil {
		return err
	}

	for row := range surfaceRows {
		for x := range display.Width {
			ch, fg, bg := halfBlock(frame[2*row][x], frame[2*row+1][x])
			termbox.SetCell(x, row, ch, fg, bg)
		}
	}

	for i, ch := range []rune(status) {
		termbox.SetCell(i, surfaceRows+1, ch, termbox.ColorDefault, termbox.ColorDefault)
	}
	return termbox.Flush()
}
