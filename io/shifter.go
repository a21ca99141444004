package io

// Arcade shift register ports.
const (
	PORT_SHIFT_OFFSET = uint8(2) // OUT: shift amount, 0..7.
	PORT_SHIFT_RESULT = uint8(3) // IN: shifted byte.
	PORT_SHIFT_DATA   = uint8(4) // OUT: next byte into the register.
)

// Shifter is the arcade's external 16-bit shift register, used by
// the game to draw sprites at arbitrary bit offsets.
type Shifter struct {
	Register uint16 // Two most recently written bytes, newest high.
	Offset   uint8  // Shift amount.
}

var _ PortHandler = (*Shifter)(nil)

// PortName names the shifter ports.
func (sh *Shifter) PortName(port uint8, input bool) string {
	switch {
	case port == PORT_SHIFT_OFFSET && !input:
		return "SHIFT_OFFSET"
	case port == PORT_SHIFT_RESULT && input:
		return "SHIFT_RESULT"
	case port == PORT_SHIFT_DATA && !input:
		return "SHIFT_DATA"
	}
	return ""
}

// Reset clears the register and offset.
func (sh *Shifter) Reset() {
	sh.Register = 0
	sh.Offset = 0
}

// Result returns the byte at the current offset.
func (sh *Shifter) Result() uint8 {
	return uint8(sh.Register >> (8 - sh.Offset))
}

// InputPort reads the result port.
func (sh *Shifter) InputPort(port uint8) uint8 {
	if port != PORT_SHIFT_RESULT {
		return 0
	}
	return sh.Result()
}

// OutputPort writes the offset or data port.
func (sh *Shifter) OutputPort(port uint8, value uint8) uint8 {
	switch port {
	case PORT_SHIFT_OFFSET:
		sh.Offset = value & 7
	case PORT_SHIFT_DATA:
		sh.Register = sh.Register>>8 | uint16(value)<<8
	}
	return value
}
