// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"image/png"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/i8080/cpu"
	"github.com/ezrec/i8080/emulator"
)

func main() {
	var compile string
	var rom string
	var save bool
	var input string
	var output string
	var machine string
	var frames int
	var snapshot string
	var limit int
	var verbose bool

	flag.StringVar(&compile, "c", "", ".asm file to assemble")
	flag.StringVar(&rom, "r", "", "Raw memory image to load at address 0")
	flag.BoolVar(&save, "s", false, "Save the assembled image to the output, do not execute")
	flag.StringVar(&input, "i", "-", "Tape input")
	flag.StringVar(&output, "o", "-", "Tape output, or saved image")
	flag.StringVar(&machine, "m", "console", "Machine: console or invaders")
	flag.IntVar(&frames, "frames", 60, "Video frames to run (invaders)")
	flag.StringVar(&snapshot, "png", "", "Write the last video frame as a PNG (invaders)")
	flag.IntVar(&limit, "n", 0, "Maximum instructions to run (console), 0 for no limit")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		logrus.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if !verbose {
		logrus.SetLevel(logrus.WarnLevel)
	}

	var emu *emulator.Emulator
	switch machine {
	case "console":
		emu = emulator.NewEmulator()
	case "invaders":
		emu = emulator.NewInvaders()
	default:
		logrus.Fatalf("%v: Unknown machine: %v", os.Args[0], machine)
	}
	emu.Verbose = verbose

	if len(rom) != 0 {
		data, err := os.ReadFile(rom)
		if err != nil {
			logrus.Fatalf("%v: %v", rom, err)
		}
		emu.Rom = data
	}

	// Assemble a new program.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			logrus.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		for name, value := range emu.Defines() {
			asm.Predefine(name, value)
		}

		emu.Program, err = asm.Parse(inf)
		if err != nil {
			logrus.Fatalf("%v: %v", compile, err)
		}
	}

	if save {
		var ouf io.Writer = os.Stdout
		if output != "-" {
			file, err := os.Create(output)
			if err != nil {
				logrus.Fatalf("%v: %v", output, err)
			}
			defer file.Close()
			ouf = file
		}

		_, err := ouf.Write(emu.Program.Binary())
		if err != nil {
			logrus.Fatalf("%v: %v", output, err)
		}
		return
	}

	if emu.Tape != nil {
		if input == "-" {
			emu.Tape.Input = os.Stdin
		} else {
			inf, err := os.Open(input)
			if err != nil {
				logrus.Fatalf("%v: %v", input, err)
			}
			defer inf.Close()
			emu.Tape.Input = inf
		}

		if output == "-" {
			emu.Tape.Output = os.Stdout
		} else {
			ouf, err := os.Create(output)
			if err != nil {
				logrus.Fatalf("%v: %v", output, err)
			}
			defer ouf.Close()
			emu.Tape.Output = ouf
		}
	}

	err := emu.Reset()
	if err != nil {
		logrus.Fatal(err)
	}

	if emu.Invaders == nil {
		for count := 0; limit == 0 || count < limit; count++ {
			done, err := emu.Tick()
			if err != nil {
				logrus.Fatal(err)
			}
			if done {
				break
			}
		}

		if emu.Tape.Err != nil {
			logrus.Fatal(emu.Tape.Err)
		}
		return
	}

	for range frames {
		err = emu.RunFor(time.Second / emulator.FRAME_RATE)
		if err != nil {
			logrus.Fatal(err)
		}
	}

	if len(snapshot) != 0 {
		ouf, err := os.Create(snapshot)
		if err != nil {
			logrus.Fatalf("%v: %v", snapshot, err)
		}
		defer ouf.Close()

		err = png.Encode(ouf, emu.Frame())
		if err != nil {
			logrus.Fatalf("%v: %v", snapshot, err)
		}
	}
}
