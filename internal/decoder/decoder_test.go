package decoder

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDecode_AllWords(t *testing.T) {
	for w := 0; w <= 0xFFFF; w++ {
		word := uint16(w)
		ins := Decode(word)

		if ins.Word != word ||
			ins.Family != uint8(w>>12) ||
			ins.X != uint8(w>>8&0xF) ||
			ins.Y != uint8(w>>4&0xF) ||
			ins.N != uint8(w&0xF) ||
			ins.KK != uint8(w&0xFF) ||
			ins.NNN != uint16(w&0xFFF) {
			t.Fatalf("decoding %04X returned %+v", word, ins)
		}
	}
}

func TestDecode_Fields(t *testing.T) {
	ins := Decode(0xD12F)

	assert.Equal(t, uint8(0xD), ins.Family)
	assert.Equal(t, uint8(0x1), ins.X)
	assert.Equal(t, uint8(0x2), ins.Y)
	assert.Equal(t, uint8(0xF), ins.N)
	assert.Equal(t, uint8(0x2F), ins.KK)
	assert.Equal(t, uint16(0x12F), ins.NNN)
}

func TestInstruction_Name(t *testing.T) {
	tests := []struct {
		name     string
		word     uint16
		expected string
	}{
		{"clear screen", 0x00E0, "cls"},
		{"return", 0x00EE, "ret"},
		{"jump", 0x1200, "jp"},
		{"call", 0x2300, "call"},
		{"load byte", 0x6005, "ld"},
		{"draw", 0xD015, "drw"},
		{"skip pressed", 0xE19E, "skp"},
		{"undefined alu", 0x8008, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins := Decode(tt.word)
			assert.Equal(t, tt.expected, ins.Name())
		})
	}
}

func TestInstruction_String(t *testing.T) {
	assert.Equal(t, "1200 jp", Decode(0x1200).String())
	assert.Equal(t, "8008 ???", Decode(0x8008).String())
}
