package memory

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestNew(t *testing.T) {
	m := New()

	// first row of glyph 0 and last row of glyph F
	assert.Equal(t, byte(0xF0), m.Read(FontStart))
	assert.Equal(t, byte(0x80), m.Read(FontStart+16*GlyphSize-1))
	assert.Equal(t, byte(0), m.Read(ProgramStart))
}

func TestMemory_Wrap(t *testing.T) {
	m := New()

	m.Write(0x1000, 0xAB)
	assert.Equal(t, byte(0xAB), m.Read(0x000))

	m.Write(0xFFF, 0x12)
	m.Write(0x000, 0x34)
	assert.Equal(t, uint16(0x1234), m.ReadWord(0xFFF))
}

func TestMemory_Copy(t *testing.T) {
	m := New()
	m.Copy(ProgramStart, []byte{0x60, 0x05, 0x70, 0x03})

	assert.Equal(t, uint16(0x6005), m.ReadWord(ProgramStart))
	assert.Equal(t, uint16(0x7003), m.ReadWord(ProgramStart+2))
}

func TestMemory_Reset(t *testing.T) {
	m := New()
	m.Write(FontStart, 0x00)
	m.Write(ProgramStart, 0xFF)

	m.Reset()

	assert.Equal(t, byte(0xF0), m.Read(FontStart))
	assert.Equal(t, byte(0x00), m.Read(ProgramStart))
}

func TestGlyphAddress(t *testing.T) {
	tests := []struct {
		name     string
		digit    byte
		expected uint16
	}{
		{"digit 0", 0x0, 0x000},
		{"digit 1", 0x1, 0x005},
		{"digit F", 0xF, 0x04B},
		{"high nibble ignored", 0xA3, 0x00F},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GlyphAddress(tt.digit))
		})
	}
}
