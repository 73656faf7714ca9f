// Copyright 2026, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"bytes"
	"fmt"
	"iter"
	"maps"
	"os"

	"github.com/ezrec/pbpu/cpu"
	"github.com/ezrec/pbpu/internal"
)

const (
	SCREEN_SIZE = 4 // Display bitmap is SCREEN_SIZE x SCREEN_SIZE pixels.
)

var _emulator_defines = map[string]string{
	"SCREEN_SIZE": fmt.Sprintf("%v", SCREEN_SIZE),
}

// Emulator state. CPU + program listing + pending change flags.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the machine simulation.
	Program  *cpu.Program // Reference to the loaded program listing, if assembled.

	pending cpu.Change
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// LoadFile loads a raw binary program image into ROM.
// Only the first 255 bytes of the file are consumed.
func (emu *Emulator) LoadFile(path string) (n int, err error) {
	inf, err := os.Open(path)
	if err != nil {
		err = &ErrProgramNotFound{Path: path, Err: err}
		return
	}
	defer inf.Close()

	n, err = emu.Cpu.Rom.Load(inf)

	return
}

// LoadProgram loads an assembled program listing into ROM.
func (emu *Emulator) LoadProgram(prog *cpu.Program) (err error) {
	bins := prog.Binary()
	if len(bins) == 0 {
		err = cpu.ErrProgramEmpty
		return
	}

	_, err = emu.Cpu.Rom.Load(bytes.NewReader(bins))
	if err != nil {
		return
	}

	emu.Program = prog

	return
}

// Reset clears the machine state and marks every view changed so the
// first repaint draws everything.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()

	emu.pending = cpu.Change{Registers: true, Memory: true, Display: true}
}

// Step executes one instruction and accumulates its change report.
func (emu *Emulator) Step() {
	emu.Cpu.Verbose = emu.Verbose

	emu.pending.Or(emu.Cpu.Step())
}

// Pending returns the accumulated changes without clearing them.
func (emu *Emulator) Pending() cpu.Change {
	return emu.pending
}

// TakeChange returns the accumulated changes and clears them. Only the
// consumer ever clears the flags; steps set them additively.
func (emu *Emulator) TakeChange() (change cpu.Change) {
	change = emu.pending
	emu.pending = cpu.Change{}

	return
}

// LineNo returns the source line number for the next instruction, when a
// program listing is loaded.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.PcPtr)
	if dbg.Line == nil {
		return 0
	}

	return dbg.LineNo
}

// Registers is the register view snapshot.
type Registers struct {
	X, Y, Z uint8
	PcPtr   uint8
	LocPtr  uint8
}

// Registers returns the register view snapshot.
func (emu *Emulator) Registers() Registers {
	return Registers{
		X:      emu.Cpu.X,
		Y:      emu.Cpu.Y,
		Z:      emu.Cpu.Z,
		PcPtr:  emu.Cpu.PcPtr,
		LocPtr: emu.Cpu.LocPtr,
	}
}

// Nibbles returns the full working memory as 256 nibbles.
func (emu *Emulator) Nibbles() (nibbles [cpu.RAM_NIBBLES]uint8) {
	for addr := range nibbles {
		nibbles[addr], _ = emu.Cpu.Ram.ReadNibble(addr)
	}

	return
}

// Screen returns the 4x4 display bitmap held in nibble addresses 0-3.
// Row r is nibble r; bit 3 of the nibble is the leftmost column.
func (emu *Emulator) Screen() (bitmap [SCREEN_SIZE][SCREEN_SIZE]bool) {
	for row := range bitmap {
		val, _ := emu.Cpu.Ram.ReadNibble(row)
		for col := range bitmap[row] {
			bitmap[row][col] = (val>>(SCREEN_SIZE-1-col))&0x1 == 1
		}
	}

	return
}

// DisLine is one row of the disassembly view.
type DisLine struct {
	Addr    uint8    // ROM address.
	Code    cpu.Code // Decoded instruction.
	Current bool     // True for the row at the program counter.
}

// Disassembly returns a window of up to rows decoded ROM bytes centered
// on the program counter. The window clips at the ends of ROM instead of
// wrapping.
func (emu *Emulator) Disassembly(rows int) (lines []DisLine) {
	half := rows / 2
	for offset := -half; offset <= half; offset++ {
		addr := int(emu.Cpu.PcPtr) + offset
		if addr < 0 || addr >= cpu.ROM_SIZE {
			continue
		}
		lines = append(lines, DisLine{
			Addr:    uint8(addr),
			Code:    emu.Cpu.Rom.Code(uint8(addr)),
			Current: offset == 0,
		})
	}

	return
}
