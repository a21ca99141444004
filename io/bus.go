package io

import (
	"fmt"
	"iter"
	"maps"
)

// Bus routes each of the 256 input and output ports to a device.
// Reads from an unrouted port return 0, writes to one are dropped.
type Bus struct {
	input  map[uint8]PortHandler
	output map[uint8]PortHandler

	// LastOutput holds the most recent value written to each port,
	// whether or not the port is routed.
	LastOutput [256]uint8
}

var _ PortHandler = (*Bus)(nil)

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		input:  map[uint8]PortHandler{},
		output: map[uint8]PortHandler{},
	}
}

// RouteInput sends IN instructions on port to device.
func (bus *Bus) RouteInput(port uint8, device PortHandler) (err error) {
	if _, ok := bus.input[port]; ok {
		err = fmt.Errorf("%w: in %d", ErrPortRouted, port)
		return
	}

	bus.input[port] = device
	return
}

// RouteOutput sends OUT instructions on port to device.
func (bus *Bus) RouteOutput(port uint8, device PortHandler) (err error) {
	if _, ok := bus.output[port]; ok {
		err = fmt.Errorf("%w: out %d", ErrPortRouted, port)
		return
	}

	bus.output[port] = device
	return
}

// Route sends both directions of port to device.
func (bus *Bus) Route(port uint8, device PortHandler) (err error) {
	err = bus.RouteInput(port, device)
	if err != nil {
		return
	}

	err = bus.RouteOutput(port, device)
	return
}

// InputPort reads from the device routed to port.
func (bus *Bus) InputPort(port uint8) uint8 {
	device, ok := bus.input[port]
	if !ok {
		return 0
	}

	return device.InputPort(port)
}

// OutputPort writes to the device routed to port.
func (bus *Bus) OutputPort(port uint8, value uint8) uint8 {
	bus.LastOutput[port] = value

	device, ok := bus.output[port]
	if !ok {
		return 0
	}

	return device.OutputPort(port, value)
}

// Defines returns the port assignments as assembler equates, named by
// the devices that provide them.
func (bus *Bus) Defines() iter.Seq2[string, string] {
	defines := map[string]string{}

	for port, device := range bus.input {
		if named, ok := device.(PortNamer); ok {
			if name := named.PortName(port, true); name != "" {
				defines[name] = fmt.Sprintf("%d", port)
			}
		}
	}

	for port, device := range bus.output {
		if named, ok := device.(PortNamer); ok {
			if name := named.PortName(port, false); name != "" {
				defines[name] = fmt.Sprintf("%d", port)
			}
		}
	}

	return maps.All(defines)
}
