package cpu

import (
	"fmt"
)

// HandleInterrupt requests an interrupt with an RST instruction code.
// The request is ignored while interrupts are disabled. Otherwise the
// program counter is pushed, interrupts are disabled, and the next Tick
// continues at the restart vector.
func (cpu *Cpu) HandleInterrupt(code uint8) {
	if !cpu.InterruptsEnabled {
		if cpu.Verbose {
			log.WithField("code", fmt.Sprintf("%02x", code)).Info("interrupt ignored")
		}
		return
	}

	cpu.Push(cpu.Pc)
	cpu.interruptVector = Code(code).Vector()
	cpu.interruptPending = true
	cpu.InterruptsEnabled = false
	cpu.enableDelay = 0
	cpu.Halted = false
}

// input reads a port through the port handler.
func (cpu *Cpu) input(port uint8) (value uint8, err error) {
	if cpu.port == nil {
		err = fmt.Errorf("%w: in 0x%02x", ErrPortHandlerMissing, port)
		return
	}

	value = cpu.port.InputPort(port)
	return
}

// output writes a port through the port handler.
func (cpu *Cpu) output(port uint8, value uint8) (err error) {
	if cpu.port == nil {
		err = fmt.Errorf("%w: out 0x%02x", ErrPortHandlerMissing, port)
		return
	}

	cpu.port.OutputPort(port, value)
	return
}
