package cpu

import (
	"fmt"
)

// Opcode is one of the 16 PBPU operations, held in the high nibble of a
// ROM byte. The low nibble is the immediate operand.
//
// NOTE: RTX and RTY read RAM into their register, despite the
// write-flavored mnemonics. The physical design defines them as reads.
type Opcode int

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_NOP = Opcode(0)  // NOP
	OP_ADD = Opcode(1)  // ADD
	OP_SUB = Opcode(2)  // SUB
	OP_WT1 = Opcode(3)  // WT1
	OP_WT2 = Opcode(4)  // WT2
	OP_WTX = Opcode(5)  // WTX
	OP_WTY = Opcode(6)  // WTY
	OP_WTZ = Opcode(7)  // WTZ
	OP_ZTR = Opcode(8)  // ZTR
	OP_RTZ = Opcode(9)  // RTZ
	OP_PC1 = Opcode(10) // PC1
	OP_PC2 = Opcode(11) // PC2
	OP_JMP = Opcode(12) // JMP
	OP_RTX = Opcode(13) // RTX
	OP_RTY = Opcode(14) // RTY
	OP_USC = Opcode(15) // USC
)

// HasImmediate returns true if the opcode consumes its immediate operand.
func (op Opcode) HasImmediate() bool {
	switch op {
	case OP_WT1, OP_WT2, OP_WTX, OP_WTY, OP_WTZ, OP_PC1, OP_PC2:
		return true
	}
	return false
}

// Code is a single decoded instruction.
type Code struct {
	Op  Opcode // Operation, the high nibble.
	Imm uint8  // Immediate operand, the low nibble.
}

// MakeCode builds an instruction, masking the immediate to 4 bits.
func MakeCode(op Opcode, imm uint8) Code {
	return Code{Op: op, Imm: imm & 0xf}
}

// DecodeByte decodes a ROM byte into an instruction. Decode is total:
// every byte value maps to a defined opcode.
func DecodeByte(b uint8) Code {
	return Code{Op: Opcode(b >> 4), Imm: b & 0xf}
}

// Byte encodes the instruction back into a ROM byte.
func (code Code) Byte() uint8 {
	return (uint8(code.Op) << 4) | (code.Imm & 0xf)
}

// String returns the assembly language representation of this instruction.
func (code Code) String() (out string) {
	out = code.Op.String()
	if code.Op.HasImmediate() {
		out = fmt.Sprintf("%v %01X", code.Op, code.Imm)
	}

	return
}
