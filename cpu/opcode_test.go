package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeByte(t *testing.T) {
	assert := assert.New(t)

	// Decode is total over the byte space.
	for b := range 256 {
		code := DecodeByte(uint8(b))
		assert.GreaterOrEqual(code.Op, OP_NOP)
		assert.LessOrEqual(code.Op, OP_USC)
		assert.LessOrEqual(code.Imm, uint8(0xf))
		assert.Equal(uint8(b), code.Byte())
	}
}

func TestCodeString(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		code Code
		text string
	}){
		{MakeCode(OP_NOP, 0), "NOP"},
		{MakeCode(OP_ADD, 7), "ADD"},
		{MakeCode(OP_WTX, 7), "WTX 7"},
		{MakeCode(OP_WT1, 0xa), "WT1 A"},
		{MakeCode(OP_JMP, 0), "JMP"},
		{MakeCode(OP_USC, 0), "USC"},
	}

	for _, entry := range table {
		assert.Equal(entry.text, entry.code.String())
	}
}

func TestHasImmediate(t *testing.T) {
	assert := assert.New(t)

	with := []Opcode{OP_WT1, OP_WT2, OP_WTX, OP_WTY, OP_WTZ, OP_PC1, OP_PC2}
	without := []Opcode{OP_NOP, OP_ADD, OP_SUB, OP_ZTR, OP_RTZ, OP_JMP, OP_RTX, OP_RTY, OP_USC}

	for _, op := range with {
		assert.True(op.HasImmediate(), op.String())
	}
	for _, op := range without {
		assert.False(op.HasImmediate(), op.String())
	}
}
