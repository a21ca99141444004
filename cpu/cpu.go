// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"
	"maps"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/i8080/io"
)

// PortHandler is the device interface for IN and OUT.
type PortHandler io.PortHandler

// Timing constants, in T-states.
const (
	INTERRUPT_CYCLES = 11 // Cost of accepting an interrupt.
	HALT_CYCLES      = 4  // Idle time accumulated per tick while halted.
)

// Instructions that complete, after EI, before interrupts are enabled.
const eiDelay = 2

var log = logrus.WithField("component", "cpu")

var _cpu_defines = map[string]string{
	"VECTOR_0":    "0x00",
	"VECTOR_1":    "0x08",
	"VECTOR_2":    "0x10",
	"VECTOR_3":    "0x18",
	"VECTOR_4":    "0x20",
	"VECTOR_5":    "0x28",
	"VECTOR_6":    "0x30",
	"VECTOR_7":    "0x38",
	"MEMORY_SIZE": fmt.Sprintf("0x%x", MEMORY_SIZE),
}

// Cpu is the simulation context of an 8080 processor and its memory.
type Cpu struct {
	Verbose  bool // Set to enable verbose logging.
	StepMode bool // ProcessProgram runs a single instruction.

	Register [8]uint8      // Register bank, indexed by Register. REG_M is unused.
	Status   StatusRegister // Flags.
	Pc       uint16         // Program counter.
	Sp       uint32         // Stack pointer; STACK_EMPTY after reset.
	Memory   Memory         // Address space.

	Running           bool // Cleared by QUIT.
	Halted            bool // Set by HLT, cleared by an interrupt.
	InterruptsEnabled bool // Interrupts are accepted.

	cycles        uint64 // T-states since the last ResetCycles.
	programLength int    // Length of the loaded image.

	interruptPending bool   // An accepted interrupt has not yet been dispatched.
	interruptVector  uint16 // Restart address of the accepted interrupt.
	enableDelay      int    // Instructions until a pending EI takes effect.

	port PortHandler
}

// NewCpu creates a new CPU in its reset state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Reset()
	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
//   - Clears the registers. Memory is kept.
//   - Sets the stack pointer to STACK_EMPTY.
//   - Zeros the cycle counter.
//   - Marks the CPU running, with interrupts enabled.
//
// The port handler is kept.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Info("reset")
	}

	clear(cpu.Register[:])
	cpu.Status = STATUS_RESET
	cpu.Pc = 0
	cpu.Sp = STACK_EMPTY

	cpu.Running = true
	cpu.Halted = false
	cpu.InterruptsEnabled = true

	cpu.cycles = 0
	cpu.programLength = 0
	cpu.interruptPending = false
	cpu.interruptVector = 0
	cpu.enableDelay = 0
}

// LoadProgram copies image to address 0, and prepares to run it from
// there. Registers and the stack are left as they are.
func (cpu *Cpu) LoadProgram(image []byte) {
	cpu.programLength = cpu.Memory.Load(0, image)
	cpu.Pc = 0
	cpu.Running = true
	cpu.Halted = false

	if cpu.Verbose {
		log.WithField("length", cpu.programLength).Info("program loaded")
	}
}

// ProgramLength returns the length of the image given to LoadProgram.
func (cpu *Cpu) ProgramLength() int {
	return cpu.programLength
}

// SetPortHandler attaches the device for IN and OUT. A nil handler
// detaches it.
func (cpu *Cpu) SetPortHandler(handler PortHandler) {
	cpu.port = handler
}

// Cycles returns the T-states elapsed since the last ResetCycles.
func (cpu *Cpu) Cycles() uint64 {
	return cpu.cycles
}

// ResetCycles zeros the T-state counter.
func (cpu *Cpu) ResetCycles() {
	cpu.cycles = 0
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{
		"pc", "sp",
		"a", "f",
		"b", "c", "d", "e", "h", "l",
		"m", "tos",
		"state",
	}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("%04X (%v)", cpu.Pc, Code(cpu.Memory.Read(cpu.Pc)))
		case "sp":
			strval = fmt.Sprintf("%05X", cpu.Sp)
		case "a":
			strval = fmt.Sprintf("%02X", cpu.Register[REG_A])
		case "f":
			strval = cpu.Status.String()
		case "b", "c", "d", "e", "h", "l":
			val := cpu.Register[registerIndex(reg)]
			strval = fmt.Sprintf("%02X", val)
		case "m":
			strval = fmt.Sprintf("%02X", cpu.Reg(REG_M))
		case "tos":
			if cpu.Sp == STACK_EMPTY {
				strval = "----"
			} else {
				strval = fmt.Sprintf("%04X", cpu.Peek())
			}
		case "state":
			switch {
			case !cpu.Running:
				strval = "stopped"
			case cpu.Halted:
				strval = "halted"
			default:
				strval = "running"
			}
			if cpu.InterruptsEnabled {
				strval += ", ei"
			} else {
				strval += ", di"
			}
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// registerIndex finds a register by name.
func registerIndex(name string) Register {
	for n, reg := range registerName {
		if reg == name {
			return Register(n)
		}
	}
	return REG_M
}

// Tick dispatches a pending interrupt, then executes a single instruction.
// While halted, no instruction is executed and HALT_CYCLES are accumulated.
func (cpu *Cpu) Tick() (err error) {
	if cpu.interruptPending {
		cpu.interruptPending = false
		cpu.Pc = cpu.interruptVector
		cpu.cycles += INTERRUPT_CYCLES
		if cpu.Verbose {
			log.WithField("pc", fmt.Sprintf("%04x", cpu.Pc)).Info("interrupt")
		}
	} else if cpu.Halted {
		cpu.cycles += HALT_CYCLES
		return
	}

	code := Code(cpu.Memory.Read(cpu.Pc))
	err = cpu.Execute(code)
	if err != nil {
		return
	}

	if cpu.enableDelay > 0 {
		cpu.enableDelay--
		if cpu.enableDelay == 0 {
			cpu.InterruptsEnabled = true
		}
	}

	return
}

// ProcessProgram runs the loaded program. In StepMode, a single Tick
// is executed. Otherwise instructions are executed while the CPU is
// running, not halted, and the program counter is inside the image.
func (cpu *Cpu) ProcessProgram() (err error) {
	if cpu.StepMode {
		return cpu.Tick()
	}

	for cpu.Running && !cpu.Halted && int(cpu.Pc) < cpu.programLength {
		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}
