// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"image"
	"iter"
	"maps"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/i8080/cpu"
	"github.com/ezrec/i8080/internal"
	"github.com/ezrec/i8080/io"
)

const (
	CLOCK_HZ   = 2_000_000 // Cabinet CPU clock.
	FRAME_RATE = 60        // Video frames per second.

	VIDEO_BASE = 0x2400 // Start of video RAM.
	VIDEO_END  = 0x4000 // One past the end of video RAM.

	SCREEN_WIDTH  = 224 // Width of the rotated screen.
	SCREEN_HEIGHT = 256 // Height of the rotated screen.

	RST_MID_FRAME = 0xcf // RST 1, raised when the beam reaches mid screen.
	RST_END_FRAME = 0xd7 // RST 2, raised at vertical blank.
)

var _emulator_defines = map[string]string{
	"VIDEO_BASE": fmt.Sprintf("0x%04x", VIDEO_BASE),
	"VIDEO_END":  fmt.Sprintf("0x%04x", VIDEO_END),
}

var log = logrus.WithField("component", "emulator")

// Emulator state. CPU + memory image + port devices.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Rom     []byte // Raw memory image, used when Program is empty.
	ClockHz int    // CPU clock, for RunFor.

	Bus      *io.Bus      // Port bus of the machine.
	Tape     *io.Tape     // Console tape, if any.
	Invaders *io.Invaders // Cabinet hardware, if any.

	frameCycles uint64 // Cycles since the last vertical sync interrupt.
	endFrame    bool   // Next vertical sync interrupt is RST_END_FRAME.
}

func newEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
		ClockHz: CLOCK_HZ,
	}

	return
}

// NewEmulator creates a console machine, with a tape on its data and
// status ports.
func NewEmulator() (emu *Emulator) {
	emu = newEmulator()

	emu.Tape = &io.Tape{}
	emu.Bus = io.NewBus()

	if err := emu.Bus.Route(io.TAPE_PORT_DATA, emu.Tape); err != nil {
		panic(err)
	}
	if err := emu.Bus.RouteInput(io.TAPE_PORT_STATUS, emu.Tape); err != nil {
		panic(err)
	}

	emu.Cpu.SetPortHandler(emu.Bus)

	return
}

// NewInvaders creates an arcade cabinet machine.
func NewInvaders() (emu *Emulator) {
	emu = newEmulator()

	emu.Invaders = io.NewInvaders()
	emu.Bus = emu.Invaders.Bus

	emu.Cpu.SetPortHandler(emu.Invaders)

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		emu.Bus.Defines(),
	)
}

// Reset the machine, and load the program (or the ROM image).
// The CPU is left in step mode, so each Tick runs one instruction.
func (emu *Emulator) Reset() (err error) {
	data := emu.Rom
	if len(emu.Program.Opcodes) != 0 {
		data = emu.Program.Binary()
	}

	if len(data) > cpu.MEMORY_SIZE {
		err = fmt.Errorf("%w: %d bytes", ErrImageSize, len(data))
		return
	}

	emu.Cpu.Verbose = false

	emu.Cpu.Reset()
	clear(emu.Cpu.Memory[:])
	emu.Cpu.LoadProgram(data)
	emu.Cpu.StepMode = true

	if emu.Tape != nil {
		emu.Tape.Reset()
	}
	if emu.Invaders != nil {
		emu.Invaders.Reset()
	}

	emu.frameCycles = 0
	emu.endFrame = false

	emu.Cpu.Verbose = emu.Verbose

	if emu.Verbose {
		log.WithField("length", len(data)).Info("reset")
	}

	return
}

// Code returns the current instruction code.
func (emu *Emulator) Code() cpu.Code {
	return cpu.Code(emu.Cpu.Memory.Read(emu.Cpu.Pc))
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Done returns true once the program can make no further progress:
// it executed QUIT, halted with interrupts disabled, or ran off the end
// of its image.
func (emu *Emulator) Done() bool {
	switch {
	case !emu.Cpu.Running:
		return true
	case emu.Cpu.Halted:
		return !emu.Cpu.InterruptsEnabled
	}

	return int(emu.Cpu.Pc) >= emu.Cpu.ProgramLength()
}

// step runs a single instruction, annotating errors with their location.
func (emu *Emulator) step() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	address := emu.Cpu.Pc
	lineno := emu.LineNo()

	err = emu.Cpu.ProcessProgram()
	if err != nil {
		err = &ErrRuntime{Address: address, LineNo: lineno, Err: err}
	}

	return
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	if emu.Done() {
		done = true
		return
	}

	err = emu.step()
	if err != nil {
		return
	}

	done = emu.Done()
	return
}

// RunFor runs the machine for d of simulated time at ClockHz. Vertical
// sync interrupts are raised every half frame, alternating between
// RST_MID_FRAME and RST_END_FRAME. A QUIT ends the run early.
func (emu *Emulator) RunFor(d time.Duration) (err error) {
	budget := uint64(d) * uint64(emu.ClockHz) / uint64(time.Second)
	halfFrame := uint64(emu.ClockHz) / (FRAME_RATE * 2)

	start := emu.Cpu.Cycles()
	for emu.Cpu.Cycles()-start < budget {
		before := emu.Cpu.Cycles()

		err = emu.step()
		if err != nil {
			return
		}

		if !emu.Cpu.Running {
			break
		}

		emu.frameCycles += emu.Cpu.Cycles() - before
		if emu.frameCycles >= halfFrame {
			emu.frameCycles -= halfFrame
			emu.vsync()
		}
	}

	return
}

// vsync raises the next vertical sync interrupt.
func (emu *Emulator) vsync() {
	code := uint8(RST_MID_FRAME)
	if emu.endFrame {
		code = RST_END_FRAME
	}
	emu.endFrame = !emu.endFrame

	if emu.Verbose {
		log.WithField("code", fmt.Sprintf("%02x", code)).Info("vsync")
	}

	emu.Cpu.HandleInterrupt(code)
}

// Frame decodes video RAM into the screen image.
//
// Video RAM holds 224 lines of 256 pixels, one bit per pixel, least
// significant bit first. The monitor is mounted rotated, so each line
// is displayed as a screen column drawn from the bottom up.
func (emu *Emulator) Frame() (img *image.Gray) {
	img = image.NewGray(image.Rect(0, 0, SCREEN_WIDTH, SCREEN_HEIGHT))

	for offset := range VIDEO_END - VIDEO_BASE {
		value := emu.Cpu.Memory.Read(uint16(VIDEO_BASE + offset))
		if value == 0 {
			continue
		}

		x := offset / 32
		for bit := range 8 {
			if value&(1<<bit) == 0 {
				continue
			}
			y := SCREEN_HEIGHT - 1 - ((offset%32)*8 + bit)
			img.Pix[y*img.Stride+x] = 0xff
		}
	}

	return
}
