package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
)

var _cpu_defines = map[string]string{
	"ROM_SIZE":       fmt.Sprintf("%v", ROM_SIZE),
	"RAM_NIBBLES":    fmt.Sprintf("%v", RAM_NIBBLES),
	"SCREEN_NIBBLES": fmt.Sprintf("%v", SCREEN_NIBBLES),
}

// Change reports which externally visible state groups a step touched.
// A step only ever sets fields; the consumer accumulates reports with Or
// and clears its copy once it has repainted.
type Change struct {
	Registers bool // Register file changed.
	Memory    bool // Working memory changed.
	Display   bool // Display-mapped nibbles 0-3 changed.
}

// Or merges another change report into this one.
func (ch *Change) Or(other Change) {
	ch.Registers = ch.Registers || other.Registers
	ch.Memory = ch.Memory || other.Memory
	ch.Display = ch.Display || other.Display
}

// Any returns true if any state group changed.
func (ch Change) Any() bool {
	return ch.Registers || ch.Memory || ch.Display
}

// Cpu is the simulation context for the PBPU: the register file plus
// program and working memory. All registers zero at creation; ROM is
// populated once via Rom.Load before the first Step.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Rom Rom // Program memory.
	Ram Ram // Working memory.

	X, Y, Z  uint8 // ALU registers, 4-bit.
	LocPtr   uint8 // Location register: RAM nibble address.
	PcPtr    uint8 // Program counter: ROM address of the next fetch.
	TmpPcPtr uint8 // Staging program counter, built by PC1/PC2.
	Carry    bool  // Carry out of the last arithmetic opcode.
	UseCarry bool  // If set, Carry participates in arithmetic.

	Ticks int // Steps executed since reset.
}

// NewCpu creates a new machine with zeroed state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset clears the register file and working memory.
// Program memory is left intact.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.X = 0
	cpu.Y = 0
	cpu.Z = 0
	cpu.LocPtr = 0
	cpu.PcPtr = 0
	cpu.TmpPcPtr = 0
	cpu.Carry = false
	cpu.UseCarry = false
	cpu.Ticks = 0

	cpu.Ram.Reset()
}

// String returns the current register file as a string.
func (cpu *Cpu) String() (text string) {
	text = fmt.Sprintf(" X: %01X  Y: %01X  Z: %01X\n", cpu.X, cpu.Y, cpu.Z)
	text += fmt.Sprintf("PC: %02X  LC: %02X  TP: %02X\n", cpu.PcPtr, cpu.LocPtr, cpu.TmpPcPtr)
	text += fmt.Sprintf("carry: %v  use carry: %v\n", cpu.Carry, cpu.UseCarry)

	return
}

// carryTerm is the carry addend for the arithmetic opcodes.
func (cpu *Cpu) carryTerm() (term uint8) {
	if cpu.UseCarry && cpu.Carry {
		term = 1
	}

	return
}

// clamp limits the ALU registers to their 4-bit range.
func (cpu *Cpu) clamp() {
	cpu.X &= 0xf
	cpu.Y &= 0xf
	cpu.Z &= 0xf
}

// Step executes a single instruction cycle: fetch the ROM byte at the
// program counter, apply the opcode, clamp the ALU registers, and advance
// the program counter. The clamp and the increment happen on every step,
// for every opcode. Step cannot fail; the opcode table is total and every
// address the machine can form is in range.
func (cpu *Cpu) Step() (change Change) {
	code := cpu.Rom.Code(cpu.PcPtr)

	if cpu.Verbose {
		log.Printf("%02X: %v", cpu.PcPtr, code)
	}

	switch code.Op {
	case OP_NOP:
		// pass
	case OP_ADD:
		sum := cpu.X + cpu.Y + cpu.carryTerm()
		cpu.Z = sum
		cpu.Carry = (sum>>4)&0x1 == 1
		change.Registers = true
	case OP_SUB:
		// Approximates the reference circuit: carry means no borrow.
		sub := cpu.Y + cpu.carryTerm()
		cpu.Z = cpu.X - sub
		cpu.Carry = cpu.X >= sub
		change.Registers = true
	case OP_WT1:
		cpu.LocPtr = (cpu.LocPtr & 0x0f) | (code.Imm << 4)
		change.Registers = true
	case OP_WT2:
		cpu.LocPtr = (cpu.LocPtr & 0xf0) | code.Imm
		change.Registers = true
	case OP_WTX:
		cpu.X = code.Imm
		change.Registers = true
	case OP_WTY:
		cpu.Y = code.Imm
		change.Registers = true
	case OP_WTZ:
		cpu.Z = code.Imm
		change.Registers = true
	case OP_ZTR:
		// LocPtr is 8 bits wide, always in range.
		_ = cpu.Ram.WriteNibble(int(cpu.LocPtr), cpu.Z)
		change.Memory = true
		change.Display = cpu.LocPtr < SCREEN_NIBBLES
	case OP_RTZ:
		cpu.Z, _ = cpu.Ram.ReadNibble(int(cpu.LocPtr))
		change.Registers = true
	case OP_PC1:
		cpu.TmpPcPtr = (cpu.TmpPcPtr & 0xf0) | code.Imm
		change.Registers = true
	case OP_PC2:
		cpu.TmpPcPtr = (cpu.TmpPcPtr & 0x0f) | (code.Imm << 4)
		change.Registers = true
	case OP_JMP:
		// The decrement lands execution on the loaded target once the
		// unconditional increment below runs, but TmpPcPtr keeps the
		// decremented value. Hardware quirk; programs reusing TmpPcPtr
		// across jumps must reload both halves.
		cpu.TmpPcPtr--
		cpu.PcPtr = cpu.TmpPcPtr
	case OP_RTX:
		cpu.X, _ = cpu.Ram.ReadNibble(int(cpu.LocPtr))
		change.Registers = true
	case OP_RTY:
		cpu.Y, _ = cpu.Ram.ReadNibble(int(cpu.LocPtr))
		change.Registers = true
	case OP_USC:
		cpu.UseCarry = !cpu.UseCarry
	}

	cpu.clamp()
	cpu.PcPtr++
	cpu.Ticks++

	return
}
