package io

import (
	"io"
)

// Console tape ports.
const (
	TAPE_PORT_DATA   = uint8(0) // IN: next input byte. OUT: write a byte.
	TAPE_PORT_STATUS = uint8(1) // IN: 1 while input remains, else 0.
)

// Tape provides sequential byte I/O for console programs.
// It wraps an io.Reader for input and io.Writer for output.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	// Err holds the first error from Output, or a non-EOF error from Input.
	Err error

	hasInput  bool
	lastInput byte
	eof       bool
}

var _ PortHandler = (*Tape)(nil)

// PortName names the tape ports.
func (tc *Tape) PortName(port uint8, input bool) string {
	switch port {
	case TAPE_PORT_DATA:
		return "TAPE_DATA"
	case TAPE_PORT_STATUS:
		if input {
			return "TAPE_STATUS"
		}
	}
	return ""
}

// Reset drops any buffered input byte and the recorded error, so the
// tape can be reused with new streams.
func (tc *Tape) Reset() {
	tc.Err = nil
	tc.hasInput = false
	tc.eof = false
}

// fill reads ahead one byte, if none is buffered.
func (tc *Tape) fill() {
	if tc.hasInput || tc.eof || tc.Input == nil {
		return
	}

	var one [1]byte
	n, err := tc.Input.Read(one[:])
	if n == 1 {
		tc.lastInput = one[0]
		tc.hasInput = true
		return
	}

	if err != nil {
		if err != io.EOF && tc.Err == nil {
			tc.Err = err
		}
		tc.eof = true
	}
}

// Ready returns true while input remains.
func (tc *Tape) Ready() bool {
	tc.fill()
	return tc.hasInput
}

// InputPort reads the data or status port.
func (tc *Tape) InputPort(port uint8) (value uint8) {
	switch port {
	case TAPE_PORT_DATA:
		if tc.Ready() {
			value = tc.lastInput
			tc.hasInput = false
		}
	case TAPE_PORT_STATUS:
		if tc.Ready() {
			value = 1
		}
	}

	return
}

// OutputPort writes a byte to the output stream on the data port.
func (tc *Tape) OutputPort(port uint8, value uint8) uint8 {
	if port != TAPE_PORT_DATA || tc.Output == nil {
		return 0
	}

	_, err := tc.Output.Write([]byte{value})
	if err != nil && tc.Err == nil {
		tc.Err = err
	}

	return value
}
