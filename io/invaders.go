package io

import (
	"iter"
)

// Invaders is the port map of the Space Invaders cabinet.
//
//	IN  0, 1, 2  Inputs
//	IN  3        Shifter result
//	OUT 2, 4     Shifter offset and data
//	OUT 3, 5     Sound latches
//	OUT 6        Watchdog
type Invaders struct {
	Bus     *Bus
	Shifter Shifter
	Inputs  Inputs
	Sound   Sound
}

var _ PortHandler = (*Invaders)(nil)

// NewInvaders creates the cabinet hardware, with its devices routed.
func NewInvaders() (inv *Invaders) {
	inv = &Invaders{
		Bus: NewBus(),
	}

	routes := []struct {
		port   uint8
		input  PortHandler
		output PortHandler
	}{
		{PORT_INPUT_0, &inv.Inputs, nil},
		{PORT_INPUT_1, &inv.Inputs, nil},
		{PORT_INPUT_2, &inv.Inputs, &inv.Shifter},
		{PORT_SHIFT_RESULT, &inv.Shifter, &inv.Sound},
		{PORT_SHIFT_DATA, nil, &inv.Shifter},
		{PORT_SOUND_2, nil, &inv.Sound},
		{PORT_WATCHDOG, nil, &inv.Sound},
	}

	for _, route := range routes {
		if route.input != nil {
			if err := inv.Bus.RouteInput(route.port, route.input); err != nil {
				panic(err)
			}
		}
		if route.output != nil {
			if err := inv.Bus.RouteOutput(route.port, route.output); err != nil {
				panic(err)
			}
		}
	}

	return
}

// Reset clears the shifter and sound latches. Switch state is kept.
func (inv *Invaders) Reset() {
	inv.Shifter.Reset()
	inv.Sound = Sound{}
	inv.Bus.LastOutput = [256]uint8{}
}

// Defines returns the port names as assembler equates.
func (inv *Invaders) Defines() iter.Seq2[string, string] {
	return inv.Bus.Defines()
}

// InputPort reads through the cabinet bus.
func (inv *Invaders) InputPort(port uint8) uint8 {
	return inv.Bus.InputPort(port)
}

// OutputPort writes through the cabinet bus.
func (inv *Invaders) OutputPort(port uint8, value uint8) uint8 {
	return inv.Bus.OutputPort(port, value)
}
