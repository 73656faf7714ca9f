package cpu

import (
	"iter"
)

// Line is a single line of assembled source with its generated instructions.
type Line struct {
	LineNo    int      // Source line number.
	Addr      int      // ROM address of the first generated code.
	Words     []string // Parsed source words.
	Codes     []Code   // Generated instructions.
	LinkLabel string   // Label to backpatch into a goto expansion.
}

// Program is an assembled listing.
type Program struct {
	Lines []Line
}

type Debug struct {
	*Line
	Index int
}

// Debug finds the source line generating the instruction at a ROM address.
func (prog *Program) Debug(pc uint8) (dbg Debug) {
	for n, line := range prog.Lines {
		if int(pc) >= line.Addr && int(pc) < line.Addr+len(line.Codes) {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: int(pc) - line.Addr,
			}
			break
		}
	}

	return
}

// Binary emits the ROM image of the program.
func (prog *Program) Binary() (bins []byte) {
	for addr, code := range prog.Codes() {
		for len(bins) < addr {
			bins = append(bins, 0)
		}
		bins = append(bins, code.Byte())
	}

	return
}

// Codes iterates over every generated instruction with its ROM address.
func (prog *Program) Codes() iter.Seq2[int, Code] {
	return func(yield func(addr int, code Code) bool) {
		for _, line := range prog.Lines {
			for n, code := range line.Codes {
				if !yield(line.Addr+n, code) {
					return
				}
			}
		}
	}
}
