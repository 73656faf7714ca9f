// Copyright 2026, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/ezrec/pbpu/console"
	"github.com/ezrec/pbpu/cpu"
	"github.com/ezrec/pbpu/emulator"
)

func main() {
	var compile string
	var step bool
	var delay string
	var verbose bool

	flag.StringVar(&compile, "c", "", ".s file to assemble instead of a binary image")
	flag.BoolVar(&step, "step", false, "Single step mode, advance on key input")
	flag.StringVar(&delay, "delay", "100000", "Delay between steps in microseconds")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %v <program-file> [options]\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	delayTime, err := strconv.ParseInt(delay, 10, 64)
	if err != nil || delayTime < 0 {
		log.Fatalf("%v: invalid delay %q", os.Args[0], delay)
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	switch {
	case len(compile) != 0:
		if flag.NArg() != 0 {
			log.Fatalf("%v: unknown arguments: %v", os.Args[0], flag.Args())
		}

		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}

		prog, err := asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}

		err = emu.LoadProgram(prog)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	case flag.NArg() == 1:
		n, err := emu.LoadFile(flag.Arg(0))
		if err != nil {
			log.Fatalf("%v: %v", os.Args[0], err)
		}
		if verbose {
			log.Printf("read %v bytes", n)
		}
	default:
		flag.Usage()
		os.Exit(1)
	}

	emu.Reset()

	kb := console.NewKeyboard()
	err = kb.Start()
	if err != nil && step {
		log.Fatalf("%v: stdin: %v", os.Args[0], err)
	}
	if err == nil {
		defer kb.Stop()
	}

	con := console.NewConsole(emu, os.Stdout)
	con.Init()
	defer con.Close()

	for {
		if step {
			key, ok := <-kb.Keys()
			if !ok || key == 'q' || key == 0x03 {
				return
			}
		} else {
			select {
			case key := <-kb.Keys():
				if key == 'q' || key == 0x03 {
					return
				}
			default:
			}
			time.Sleep(time.Duration(delayTime) * time.Microsecond)
		}

		emu.Step()
		con.Render()
	}
}
