package io

// Arcade input ports.
const (
	PORT_INPUT_0 = uint8(0)
	PORT_INPUT_1 = uint8(1)
	PORT_INPUT_2 = uint8(2)
)

// Button is a cabinet switch, encoded as its input port in the high
// byte and its bit mask in the low byte.
type Button uint16

const (
	BUTTON_COIN     = Button(uint16(PORT_INPUT_1)<<8 | 0x01)
	BUTTON_P2_START = Button(uint16(PORT_INPUT_1)<<8 | 0x02)
	BUTTON_P1_START = Button(uint16(PORT_INPUT_1)<<8 | 0x04)
	BUTTON_P1_SHOOT = Button(uint16(PORT_INPUT_1)<<8 | 0x10)
	BUTTON_P1_LEFT  = Button(uint16(PORT_INPUT_1)<<8 | 0x20)
	BUTTON_P1_RIGHT = Button(uint16(PORT_INPUT_1)<<8 | 0x40)
	BUTTON_P2_SHOOT = Button(uint16(PORT_INPUT_2)<<8 | 0x10)
	BUTTON_P2_LEFT  = Button(uint16(PORT_INPUT_2)<<8 | 0x20)
	BUTTON_P2_RIGHT = Button(uint16(PORT_INPUT_2)<<8 | 0x40)
)

var buttonName = map[Button]string{
	BUTTON_COIN:     "coin",
	BUTTON_P2_START: "p2-start",
	BUTTON_P1_START: "p1-start",
	BUTTON_P1_SHOOT: "p1-shoot",
	BUTTON_P1_LEFT:  "p1-left",
	BUTTON_P1_RIGHT: "p1-right",
	BUTTON_P2_SHOOT: "p2-shoot",
	BUTTON_P2_LEFT:  "p2-left",
	BUTTON_P2_RIGHT: "p2-right",
}

func (b Button) String() string {
	name, ok := buttonName[b]
	if !ok {
		return "?"
	}
	return name
}

// Port returns the input port the button is wired to.
func (b Button) Port() uint8 {
	return uint8(b >> 8)
}

// Mask returns the bit of the input port the button drives.
func (b Button) Mask() uint8 {
	return uint8(b)
}

// Bits that always read high.
const (
	INPUT_0_FIXED = uint8(0x0e)
	INPUT_1_FIXED = uint8(0x08)
)

// Inputs latches the cabinet switches for ports 0, 1 and 2.
type Inputs struct {
	Port [3]uint8 // Switch state, active high, without fixed bits.
	Dips uint8    // DIP switches on port 2: bits 0,1 ships, 3 bonus, 7 coin info.
}

var _ PortHandler = (*Inputs)(nil)

// PortName names the input ports.
func (in *Inputs) PortName(port uint8, input bool) string {
	if !input || int(port) >= len(in.Port) {
		return ""
	}
	return [3]string{"INPUT_0", "INPUT_1", "INPUT_2"}[port]
}

// Press closes a switch.
func (in *Inputs) Press(b Button) {
	if int(b.Port()) < len(in.Port) {
		in.Port[b.Port()] |= b.Mask()
	}
}

// Release opens a switch.
func (in *Inputs) Release(b Button) {
	if int(b.Port()) < len(in.Port) {
		in.Port[b.Port()] &^= b.Mask()
	}
}

// Pressed returns true if the switch is closed.
func (in *Inputs) Pressed(b Button) bool {
	if int(b.Port()) >= len(in.Port) {
		return false
	}
	return in.Port[b.Port()]&b.Mask() != 0
}

// InputPort reads the switch state of port.
func (in *Inputs) InputPort(port uint8) uint8 {
	switch port {
	case PORT_INPUT_0:
		return in.Port[0] | INPUT_0_FIXED
	case PORT_INPUT_1:
		return in.Port[1] | INPUT_1_FIXED
	case PORT_INPUT_2:
		return in.Port[2] | (in.Dips & 0x8b)
	}
	return 0
}

// OutputPort ignores writes; the inputs are read only.
func (in *Inputs) OutputPort(port uint8, value uint8) uint8 {
	return 0
}
