// Package io provides port devices for the 8080 IN and OUT instructions.
// It includes a port Bus that routes ports to devices, the console Tape,
// and the arcade cabinet hardware (Shifter, Inputs, Sound) composed as
// Invaders.
package io

// PortHandler is the device side of the 8080 IN and OUT instructions.
type PortHandler interface {
	// InputPort returns the byte read from port.
	InputPort(port uint8) uint8
	// OutputPort writes value to port. The returned value is advisory,
	// and is ignored by the CPU.
	OutputPort(port uint8, value uint8) uint8
}

// PortNamer is implemented by devices that name their ports, so the
// assembler can refer to them symbolically.
type PortNamer interface {
	// PortName returns the name of port in the given direction,
	// or "" if the device does not use it.
	PortName(port uint8, input bool) string
}
