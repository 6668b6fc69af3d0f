// Package memory implements the CHIP-8 address space.
//
// The address space holds the interpreter fonts in the reserved area below
// ProgramStart and the program loaded from the ROM above it. The loaded ROM is
// kept as an unmodified copy so that a reset can restore the working memory
// without reading the ROM file again.
package memory

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

const (
	// Size is the size of the address space in bytes.
	Size = 0x1000

	// MaxAddress is the highest valid address.
	MaxAddress = Size - 1

	// ProgramStart is the address where programs are loaded and start executing.
	ProgramStart = 0x200

	// MaxROMSize is the largest ROM that fits into the address space.
	MaxROMSize = Size - ProgramStart

	// FontAddress is the address of the 4x5 hexadecimal font.
	FontAddress = 0x000

	// FontGlyphSize is the number of bytes of a small font glyph.
	FontGlyphSize = 5

	// BigFontAddress is the address of the SUPER-CHIP 8x10 font.
	BigFontAddress = FontAddress + 16*FontGlyphSize

	// BigFontGlyphSize is the number of bytes of a big font glyph.
	BigFontGlyphSize = 10
)

var (
	// ErrOutOfBounds is returned for accesses outside of the address space.
	ErrOutOfBounds = chip8.ErrMemoryOutOfBounds
	// ErrROMTooLarge is returned when a ROM does not fit into the program area.
	ErrROMTooLarge = errors.New("rom too large")
)

// Memory is the working memory of the interpreter and the loaded ROM.
type Memory struct {
	ram [Size]byte
	rom []byte
}

// New returns a memory with the fonts loaded and no program.
func New() *Memory {
	m := &Memory{}
	m.Reset()
	return m
}

// LoadROM stores an immutable copy of the ROM and resets the working memory from it.
func (m *Memory) LoadROM(rom []byte) error {
	if len(rom) > MaxROMSize {
		return fmt.Errorf("%w: %d bytes, maximum is %d", ErrROMTooLarge, len(rom), MaxROMSize)
	}
	m.rom = make([]byte, len(rom))
	copy(m.rom, rom)
	m.Reset()
	return nil
}

// Reset clears the working memory, reloads the fonts and copies the ROM to ProgramStart.
func (m *Memory) Reset() {
	m.ram = [Size]byte{}
	copy(m.ram[FontAddress:], font[:])
	copy(m.ram[BigFontAddress:], bigFont[:])
	copy(m.ram[ProgramStart:], m.rom)
}

// ROM returns a copy of the loaded ROM.
func (m *Memory) ROM() []byte {
	rom := make([]byte, len(m.rom))
	copy(rom, m.rom)
	return rom
}

// Read returns the byte at the given address.
func (m *Memory) Read(address uint16) (byte, error) {
	if int(address) > MaxAddress {
		return 0, fmt.Errorf("%w: reading $%04X", ErrOutOfBounds, address)
	}
	return m.ram[address], nil
}

// Write sets the byte at the given address.
func (m *Memory) Write(address uint16, value byte) error {
	if int(address) > MaxAddress {
		return fmt.Errorf("%w: writing $%04X", ErrOutOfBounds, address)
	}
	m.ram[address] = value
	return nil
}

// ReadOpcode returns the big-endian instruction word at the given address.
func (m *Memory) ReadOpcode(address uint16) (uint16, error) {
	if int(address)+1 > MaxAddress {
		return 0, fmt.Errorf("%w: fetching opcode at $%04X", ErrOutOfBounds, address)
	}
	return uint16(m.ram[address])<<8 | uint16(m.ram[address+1]), nil
}

// Slice returns a copy of length bytes starting at the given address.
func (m *Memory) Slice(address uint16, length int) ([]byte, error) {
	end := int(address) + length
	if end > Size {
		return nil, fmt.Errorf("%w: reading $%04X-$%04X", ErrOutOfBounds, address, end-1)
	}
	data := make([]byte, length)
	copy(data, m.ram[address:end])
	return data, nil
}

// Store writes data starting at the given address. Nothing is written if
// the data does not fit into the address space.
func (m *Memory) Store(address uint16, data []byte) error {
	end := int(address) + len(data)
	if end > Size {
		return fmt.Errorf("%w: writing $%04X-$%04X", ErrOutOfBounds, address, end-1)
	}
	copy(m.ram[address:end], data)
	return nil
}

// Bytes returns a copy of the complete working memory.
func (m *Memory) Bytes() []byte {
	data := make([]byte, Size)
	copy(data, m.ram[:])
	return data
}

// FontGlyph returns the address of the small font glyph for the low nibble of digit.
func FontGlyph(digit byte) uint16 {
	return uint16(FontAddress + int(digit&0x0F)*FontGlyphSize)
}

// BigFontGlyph returns the address of the big font glyph for the low nibble of digit.
func BigFontGlyph(digit byte) uint16 {
	return uint16(BigFontAddress + int(digit&0x0F)*BigFontGlyphSize)
}
