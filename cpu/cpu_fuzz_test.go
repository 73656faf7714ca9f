package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzStep(f *testing.F) {
	for op := range 16 {
		f.Add(uint8(op<<4)|0x5, uint8(9), uint8(9), uint8(0), uint8(0), uint8(0), false, false)
		f.Add(uint8(op<<4)|0xf, uint8(3), uint8(5), uint8(15), uint8(255), uint8(1), true, true)
	}

	f.Fuzz(func(t *testing.T, romByte, x, y, z, loc, tmppc uint8, carry, useCarry bool) {
		assert := assert.New(t)

		cpu := NewCpu()
		cpu.Rom.Data[0] = romByte
		cpu.X = x & 0xf
		cpu.Y = y & 0xf
		cpu.Z = z & 0xf
		cpu.LocPtr = loc
		cpu.TmpPcPtr = tmppc
		cpu.Carry = carry
		cpu.UseCarry = useCarry

		before := *cpu
		twin := before

		change := cpu.Step()
		twinChange := twin.Step()

		// Steps are deterministic.
		assert.Equal(*cpu, twin)
		assert.Equal(change, twinChange)

		// ALU registers stay in 4-bit range after every step.
		assert.LessOrEqual(cpu.X, uint8(0xf))
		assert.LessOrEqual(cpu.Y, uint8(0xf))
		assert.LessOrEqual(cpu.Z, uint8(0xf))

		code := DecodeByte(romByte)
		if code.Op == OP_JMP {
			// The jump lands on the pre-decrement staging value, and
			// the staging register keeps the decrement.
			assert.Equal(before.TmpPcPtr, cpu.PcPtr)
			assert.Equal(before.TmpPcPtr-1, cpu.TmpPcPtr)
		} else {
			assert.Equal(before.PcPtr+1, cpu.PcPtr)
		}

		// ROM is never written.
		assert.Equal(before.Rom, cpu.Rom)

		assert.Equal(before.Ticks+1, cpu.Ticks)
	})
}
