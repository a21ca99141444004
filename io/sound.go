package io

// Arcade sound and watchdog ports.
const (
	PORT_SOUND_1  = uint8(3)
	PORT_SOUND_2  = uint8(5)
	PORT_WATCHDOG = uint8(6)
)

// Sound records the cabinet's discrete sound latches. A sound starts on
// the rising edge of its bit; Triggered reports and clears those edges.
type Sound struct {
	Latch    [2]uint8 // Last value written to ports 3 and 5.
	Watchdog int      // Number of watchdog resets.

	edges [2]uint8
}

var _ PortHandler = (*Sound)(nil)

// PortName names the sound ports.
func (snd *Sound) PortName(port uint8, input bool) string {
	if input {
		return ""
	}
	switch port {
	case PORT_SOUND_1:
		return "SOUND_1"
	case PORT_SOUND_2:
		return "SOUND_2"
	case PORT_WATCHDOG:
		return "WATCHDOG"
	}
	return ""
}

func (snd *Sound) bank(port uint8) int {
	switch port {
	case PORT_SOUND_1:
		return 0
	case PORT_SOUND_2:
		return 1
	}
	return -1
}

// Triggered returns the bits of port that rose since the last call,
// and clears them.
func (snd *Sound) Triggered(port uint8) (edges uint8) {
	n := snd.bank(port)
	if n < 0 {
		return
	}

	edges = snd.edges[n]
	snd.edges[n] = 0
	return
}

// InputPort reads nothing; the sound latches are write only.
func (snd *Sound) InputPort(port uint8) uint8 {
	return 0
}

// OutputPort latches a sound port, or kicks the watchdog.
func (snd *Sound) OutputPort(port uint8, value uint8) uint8 {
	if port == PORT_WATCHDOG {
		snd.Watchdog++
		return value
	}

	n := snd.bank(port)
	if n < 0 {
		return 0
	}

	snd.edges[n] |= value &^ snd.Latch[n]
	snd.Latch[n] = value
	return value
}
