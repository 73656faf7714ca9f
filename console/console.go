// Copyright 2026, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package console renders the emulator state into a terminal using ANSI
// escape sequences, one boxed panel per machine view: registers, working
// memory, the 4x4 display, and a disassembly window around the program
// counter.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/ezrec/pbpu/emulator"
)

const (
	disRows = 15 // Rows in the disassembly panel.
	memCols = 16 // Nibbles per memory panel row.

	regTop, regLeft, regWidth, regHeight = 1, 1, 20, 4

	scrTop, scrLeft = 5, 2
	scrWidth        = emulator.SCREEN_SIZE*4 + 2
	scrHeight       = emulator.SCREEN_SIZE*2 + 2

	memTop, memLeft, memWidth, memHeight = 1, 21, 38, 19

	disTop, disLeft, disWidth, disHeight = 1, 59, 15, disRows + 2

	infoTop, infoLeft, infoWidth, infoHeight = 15, 1, 20, 4
)

// Console draws the register, memory, screen and disassembly panels.
type Console struct {
	Out io.Writer
	Emu *emulator.Emulator
}

// NewConsole creates a console drawing the emulator's views to out.
func NewConsole(emu *emulator.Emulator, out io.Writer) (con *Console) {
	con = &Console{
		Out: out,
		Emu: emu,
	}

	return
}

// moveTo positions the cursor, 1-based.
func moveTo(frame *strings.Builder, row, col int) {
	fmt.Fprintf(frame, "\x1b[%d;%dH", row, col)
}

// box draws a bordered panel with a title on the top edge.
func box(frame *strings.Builder, top, left, height, width int, title string) {
	moveTo(frame, top, left)
	header := "+" + strings.Repeat("-", width-2) + "+"
	if len(title) != 0 && len(title)+2 < width {
		header = "+" + title + strings.Repeat("-", width-2-len(title)) + "+"
	}
	frame.WriteString(header)

	for row := top + 1; row < top+height-1; row++ {
		moveTo(frame, row, left)
		frame.WriteString("|")
		moveTo(frame, row, left+width-1)
		frame.WriteString("|")
	}

	moveTo(frame, top+height-1, left)
	frame.WriteString("+" + strings.Repeat("-", width-2) + "+")
}

// Init clears the terminal, hides the cursor, and draws every panel.
// Any pending changes are consumed, since everything is painted anyway.
func (con *Console) Init() {
	con.Emu.TakeChange()

	frame := &strings.Builder{}

	frame.WriteString("\x1b[2J\x1b[?25l")

	box(frame, regTop, regLeft, regHeight, regWidth, "[Registers]")
	box(frame, scrTop, scrLeft, scrHeight, scrWidth, "")
	box(frame, memTop, memLeft, memHeight, memWidth, "[Memory]")
	box(frame, disTop, disLeft, disHeight, disWidth, "[Disassembly]")
	box(frame, infoTop, infoLeft, infoHeight, infoWidth, "")

	moveTo(frame, infoTop+1, infoLeft+3)
	frame.WriteString("PBPU emulator")
	moveTo(frame, infoTop+2, infoLeft+3)
	frame.WriteString("press q to quit")

	// Memory panel column header.
	moveTo(frame, memTop+1, memLeft+5)
	for col := range memCols {
		fmt.Fprintf(frame, "%01X ", col)
	}

	con.renderRegisters(frame)
	con.renderMemory(frame)
	con.renderScreen(frame)
	con.renderDisassembly(frame)

	io.WriteString(con.Out, frame.String())
}

// Render repaints the panels whose state changed since the last call.
// The disassembly panel repaints every frame.
func (con *Console) Render() {
	change := con.Emu.TakeChange()

	frame := &strings.Builder{}

	if change.Registers {
		con.renderRegisters(frame)
	}
	if change.Memory {
		con.renderMemory(frame)
	}
	if change.Display {
		con.renderScreen(frame)
	}
	con.renderDisassembly(frame)

	io.WriteString(con.Out, frame.String())
}

// Close restores the cursor and parks it below the panels.
func (con *Console) Close() {
	frame := &strings.Builder{}

	moveTo(frame, memTop+memHeight, 1)
	frame.WriteString("\x1b[?25h")

	io.WriteString(con.Out, frame.String())
}

func (con *Console) renderRegisters(frame *strings.Builder) {
	regs := con.Emu.Registers()

	moveTo(frame, regTop+1, regLeft+1)
	fmt.Fprintf(frame, "  X: %01X Y: %01X Z: %01X", regs.X, regs.Y, regs.Z)
	moveTo(frame, regTop+2, regLeft+2)
	fmt.Fprintf(frame, "PC: %02X", regs.PcPtr)
	moveTo(frame, regTop+2, regLeft+regWidth-2-6)
	fmt.Fprintf(frame, "LC: %02X", regs.LocPtr)
}

func (con *Console) renderMemory(frame *strings.Builder) {
	nibbles := con.Emu.Nibbles()

	for row := range len(nibbles) / memCols {
		moveTo(frame, memTop+2+row, memLeft+1)
		fmt.Fprintf(frame, "%02X: ", row*memCols)
		for col := range memCols {
			fmt.Fprintf(frame, "%01X ", nibbles[row*memCols+col])
		}
	}
}

func (con *Console) renderScreen(frame *strings.Builder) {
	bitmap := con.Emu.Screen()

	// Each pixel is 4 columns by 2 rows, to look roughly square.
	for row := range emulator.SCREEN_SIZE * 2 {
		moveTo(frame, scrTop+1+row, scrLeft+1)
		for col := range emulator.SCREEN_SIZE {
			if bitmap[row/2][col] {
				frame.WriteString("####")
			} else {
				frame.WriteString("    ")
			}
		}
	}
}

func (con *Console) renderDisassembly(frame *strings.Builder) {
	pc := int(con.Emu.Registers().PcPtr)
	center := disRows / 2

	// Blank the interior first; the window clips near the ends of ROM.
	for row := range disRows {
		moveTo(frame, disTop+1+row, disLeft+1)
		frame.WriteString(strings.Repeat(" ", disWidth-2))
	}

	for _, line := range con.Emu.Disassembly(disRows) {
		row := center + (int(line.Addr) - pc)
		if row < 0 || row >= disRows {
			continue
		}
		moveTo(frame, disTop+1+row, disLeft+1)
		marker := "  "
		if line.Current {
			marker = "> "
		}
		fmt.Fprintf(frame, "%s%02X: %v", marker, line.Addr, line.Code)
	}
}
