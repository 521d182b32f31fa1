// Package memory provides the CHIP-8 address space.
//
// CHIP-8 memory map (4KB total):
//
//	0x000-0x04F: Built-in font glyphs (16 characters, 5 bytes each)
//	0x050-0x1FF: Interpreter area, unused
//	0x200-0xFFF: Program and work RAM
package memory

// CHIP-8 memory layout constants.
const (
	// Size is the size of the address space in bytes.
	Size = 0x1000

	// AddressMask limits any address to the 12-bit address space.
	AddressMask = 0x0FFF

	// FontStart is the address of the first font glyph.
	FontStart = 0x000

	// GlyphSize is the number of bytes of a single font glyph.
	GlyphSize = 5

	// ProgramStart is the address where loaded programs start and
	// where execution begins.
	ProgramStart = 0x200

	// MaxProgramSize is the largest program that fits between
	// ProgramStart and the end of the address space.
	MaxProgramSize = Size - ProgramStart
)

// font contains the hexadecimal digits 0-F as 4x5 pixel glyphs.
var font = [16 * GlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the 4096 byte address space of the machine.
// All accesses wrap around at the end of the address space.
type Memory struct {
	data [Size]byte
}

// New returns a new address space with the font glyphs loaded.
func New() *Memory {
	m := &Memory{}
	m.Reset()
	return m
}

// Reset clears the address space and reloads the font glyphs.
func (m *Memory) Reset() {
	m.data = [Size]byte{}
	copy(m.data[FontStart:], font[:])
}

// Read returns the byte at the given address.
func (m *Memory) Read(address uint16) byte {
	return m.data[address&AddressMask]
}

// Write sets the byte at the given address.
func (m *Memory) Write(address uint16, value byte) {
	m.data[address&AddressMask] = value
}

// ReadWord returns the big-endian 16-bit word starting at the given address.
func (m *Memory) ReadWord(address uint16) uint16 {
	return uint16(m.Read(address))<<8 | uint16(m.Read(address+1))
}

// Copy writes the given data starting at the given address, wrapping at
// the end of the address space.
func (m *Memory) Copy(address uint16, data []byte) {
	for i, b := range data {
		m.Write(address+uint16(i), b)
	}
}

// GlyphAddress returns the address of the font glyph for the hexadecimal
// digit in the low nibble of the given value.
func GlyphAddress(digit byte) uint16 {
	return FontStart + uint16(digit&0x0F)*GlyphSize
}
