package cpu

import (
	"io"
)

const (
	ROM_SIZE       = 256          // Bytes of program memory.
	RAM_SIZE       = 128          // Bytes of working memory.
	RAM_NIBBLES    = RAM_SIZE * 2 // Nibble addresses into working memory.
	SCREEN_NIBBLES = 4            // Nibbles 0-3 are the 4x4 display bitmap.
)

// Ram is the working memory, addressed as 256 independent 4-bit nibbles.
// Nibble address a maps to byte a/2; even addresses select the low nibble,
// odd addresses the high nibble.
type Ram struct {
	Data [RAM_SIZE]uint8
}

// ReadNibble returns the 4-bit value at the nibble address.
func (ram *Ram) ReadNibble(addr int) (value uint8, err error) {
	if addr < 0 || addr >= RAM_NIBBLES {
		err = ErrAddressRange
		return
	}

	if addr%2 == 0 {
		value = ram.Data[addr/2] & 0x0f
	} else {
		value = (ram.Data[addr/2] >> 4) & 0x0f
	}

	return
}

// WriteNibble stores the low 4 bits of value at the nibble address,
// preserving the sibling nibble of the byte.
func (ram *Ram) WriteNibble(addr int, value uint8) (err error) {
	if addr < 0 || addr >= RAM_NIBBLES {
		err = ErrAddressRange
		return
	}

	if addr%2 == 0 {
		ram.Data[addr/2] = (ram.Data[addr/2] & 0xf0) | (value & 0x0f)
	} else {
		ram.Data[addr/2] = (ram.Data[addr/2] & 0x0f) | ((value & 0x0f) << 4)
	}

	return
}

// Reset clears the working memory.
func (ram *Ram) Reset() {
	clear(ram.Data[:])
}

// Rom is the program memory. It is loaded once before execution begins,
// and the executor never writes to it.
type Rom struct {
	Data [ROM_SIZE]uint8
}

// Load copies at most ROM_SIZE-1 bytes from r into program memory,
// starting at address 0. The tail byte stays reserved, matching the read
// size of the reference loader. Input beyond the read size is ignored.
func (rom *Rom) Load(r io.Reader) (n int, err error) {
	n, err = io.ReadFull(r, rom.Data[:ROM_SIZE-1])
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		err = nil
	}
	if err != nil {
		return
	}

	if n == 0 {
		err = ErrProgramEmpty
	}

	return
}

// Code decodes the instruction at a ROM address.
func (rom *Rom) Code(addr uint8) Code {
	return DecodeByte(rom.Data[addr])
}
