// Package cpu implements the PBPU 4-bit processor and its assembler.
//
// The machine has three 4-bit ALU registers (X, Y, Z), an 8-bit location
// register addressing RAM at nibble granularity, an 8-bit program counter,
// and a staging program counter assembled by the PC1/PC2 opcodes. ROM holds
// 256 bytes of program text; RAM holds 256 nibbles, the first four of which
// form the 4x4 display bitmap.
//
// The assembler provides a line-oriented assembly language for the 16-opcode
// instruction set, supporting macros, labels, equates, and compile-time
// expression evaluation.
package cpu
