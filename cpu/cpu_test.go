package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// makeCpu loads a short instruction sequence at ROM address 0.
func makeCpu(codes ...Code) (cpu *Cpu) {
	cpu = NewCpu()
	for n, code := range codes {
		cpu.Rom.Data[n] = code.Byte()
	}

	return
}

func TestStepArithmetic(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name  string
		codes []Code
		z     uint8
		carry bool
	}){
		{"add", []Code{
			MakeCode(OP_WTX, 3),
			MakeCode(OP_WTY, 4),
			MakeCode(OP_ADD, 0),
		}, 7, false},
		{"add_overflow", []Code{
			MakeCode(OP_WTX, 9),
			MakeCode(OP_WTY, 9),
			MakeCode(OP_ADD, 0),
		}, 2, true},
		{"add_carry_ignored", []Code{
			MakeCode(OP_WTX, 9),
			MakeCode(OP_WTY, 9),
			MakeCode(OP_ADD, 0),
			MakeCode(OP_ADD, 0),
		}, 2, true},
		{"add_carry_chained", []Code{
			MakeCode(OP_USC, 0),
			MakeCode(OP_WTX, 9),
			MakeCode(OP_WTY, 9),
			MakeCode(OP_ADD, 0),
			MakeCode(OP_ADD, 0),
		}, 3, true},
		{"sub", []Code{
			MakeCode(OP_WTX, 5),
			MakeCode(OP_WTY, 3),
			MakeCode(OP_SUB, 0),
		}, 2, true},
		{"sub_borrow", []Code{
			MakeCode(OP_WTX, 3),
			MakeCode(OP_WTY, 5),
			MakeCode(OP_SUB, 0),
		}, 14, false},
		{"sub_equal", []Code{
			MakeCode(OP_WTX, 5),
			MakeCode(OP_WTY, 5),
			MakeCode(OP_SUB, 0),
		}, 0, true},
	}

	for _, entry := range table {
		cpu := makeCpu(entry.codes...)

		for range entry.codes {
			cpu.Step()
		}

		assert.Equal(entry.z, cpu.Z, entry.name)
		assert.Equal(entry.carry, cpu.Carry, entry.name)
		assert.Equal(uint8(len(entry.codes)), cpu.PcPtr, entry.name)
	}
}

func TestStepLocation(t *testing.T) {
	assert := assert.New(t)

	cpu := makeCpu(
		MakeCode(OP_WT1, 0xa),
		MakeCode(OP_WT2, 0x5),
		MakeCode(OP_WT1, 0x3),
	)

	cpu.Step()
	assert.Equal(uint8(0xa0), cpu.LocPtr)

	cpu.Step()
	assert.Equal(uint8(0xa5), cpu.LocPtr)

	cpu.Step()
	assert.Equal(uint8(0x35), cpu.LocPtr)
}

func TestStepMemory(t *testing.T) {
	assert := assert.New(t)

	cpu := makeCpu(
		MakeCode(OP_WTZ, 7),
		MakeCode(OP_ZTR, 0),
		MakeCode(OP_WTZ, 0),
		MakeCode(OP_RTZ, 0),
		MakeCode(OP_RTX, 0),
		MakeCode(OP_RTY, 0),
	)

	change := cpu.Step()
	assert.True(change.Registers)
	assert.False(change.Memory)

	// ZTR at nibble 0 lands in the display region.
	change = cpu.Step()
	assert.True(change.Memory)
	assert.True(change.Display)
	assert.False(change.Registers)

	value, err := cpu.Ram.ReadNibble(0)
	assert.NoError(err)
	assert.Equal(uint8(7), value)

	cpu.Step()
	assert.Equal(uint8(0), cpu.Z)

	cpu.Step()
	assert.Equal(uint8(7), cpu.Z)

	// RTX and RTY read RAM, despite the mnemonics.
	cpu.Step()
	assert.Equal(uint8(7), cpu.X)
	cpu.Step()
	assert.Equal(uint8(7), cpu.Y)
}

func TestStepDisplayRegion(t *testing.T) {
	assert := assert.New(t)

	cpu := makeCpu(
		MakeCode(OP_WT2, 3),
		MakeCode(OP_ZTR, 0),
		MakeCode(OP_WT2, 4),
		MakeCode(OP_ZTR, 0),
	)

	cpu.Step()
	change := cpu.Step()
	assert.True(change.Display)

	cpu.Step()
	change = cpu.Step()
	assert.True(change.Memory)
	assert.False(change.Display)
}

func TestStepJump(t *testing.T) {
	assert := assert.New(t)

	cpu := makeCpu(
		MakeCode(OP_PC1, 0x5),
		MakeCode(OP_PC2, 0x0),
		MakeCode(OP_JMP, 0),
	)

	cpu.Step()
	cpu.Step()
	assert.Equal(uint8(5), cpu.TmpPcPtr)

	change := cpu.Step()
	assert.False(change.Any())

	// Execution lands on the loaded target, but the staging register
	// keeps the decrement.
	assert.Equal(uint8(5), cpu.PcPtr)
	assert.Equal(uint8(4), cpu.TmpPcPtr)
}

func TestStepJumpTwice(t *testing.T) {
	assert := assert.New(t)

	cpu := makeCpu(
		MakeCode(OP_PC1, 0x8),
		MakeCode(OP_PC2, 0x0),
		MakeCode(OP_JMP, 0),
	)
	cpu.Rom.Data[8] = MakeCode(OP_JMP, 0).Byte()

	cpu.Step()
	cpu.Step()
	cpu.Step()
	assert.Equal(uint8(8), cpu.PcPtr)

	// A second jump without reloading lands one address earlier.
	cpu.Step()
	assert.Equal(uint8(7), cpu.PcPtr)
	assert.Equal(uint8(6), cpu.TmpPcPtr)
}

func TestStepWrap(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.PcPtr = 0xff

	cpu.Step()
	assert.Equal(uint8(0), cpu.PcPtr)
}

func TestStepClamp(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.X = 0xff
	cpu.Y = 0x1f
	cpu.Z = 0xf0

	cpu.Step()
	assert.Equal(uint8(0xf), cpu.X)
	assert.Equal(uint8(0xf), cpu.Y)
	assert.Equal(uint8(0x0), cpu.Z)
}

func TestStepUseCarry(t *testing.T) {
	assert := assert.New(t)

	cpu := makeCpu(
		MakeCode(OP_USC, 0),
		MakeCode(OP_USC, 0),
	)

	change := cpu.Step()
	assert.True(cpu.UseCarry)
	assert.False(change.Any())

	cpu.Step()
	assert.False(cpu.UseCarry)
}

func TestReset(t *testing.T) {
	assert := assert.New(t)

	cpu := makeCpu(
		MakeCode(OP_WTX, 5),
		MakeCode(OP_WTZ, 3),
		MakeCode(OP_ZTR, 0),
	)

	cpu.Step()
	cpu.Step()
	cpu.Step()

	cpu.Reset()

	assert.Equal(uint8(0), cpu.X)
	assert.Equal(uint8(0), cpu.Z)
	assert.Equal(uint8(0), cpu.PcPtr)
	assert.Equal(0, cpu.Ticks)

	value, err := cpu.Ram.ReadNibble(0)
	assert.NoError(err)
	assert.Equal(uint8(0), value)

	// ROM survives a reset.
	assert.Equal(MakeCode(OP_WTX, 5).Byte(), cpu.Rom.Data[0])
}
