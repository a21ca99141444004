package io

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTape_Input(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: bytes.NewBuffer([]byte{0x55, 0xAA, 0xFF})}

	var got []uint8
	for tape.InputPort(TAPE_PORT_STATUS) == 1 {
		got = append(got, tape.InputPort(TAPE_PORT_DATA))
	}

	assert.Equal([]uint8{0x55, 0xAA, 0xFF}, got)
	assert.Equal(uint8(0), tape.InputPort(TAPE_PORT_DATA))
	assert.Equal(uint8(0), tape.InputPort(TAPE_PORT_STATUS))
	assert.NoError(tape.Err)
}

func TestTape_Input_None(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{}

	assert.False(tape.Ready())
	assert.Equal(uint8(0), tape.InputPort(TAPE_PORT_DATA))
}

func TestTape_Input_ReadError(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: &errorReader{}}

	assert.Equal(uint8(0), tape.InputPort(TAPE_PORT_STATUS))
	assert.True(errors.Is(tape.Err, io.ErrUnexpectedEOF))
}

type errorReader struct{}

func (er *errorReader) Read(p []byte) (n int, err error) {
	return 0, io.ErrUnexpectedEOF
}

func TestTape_Output(t *testing.T) {
	assert := assert.New(t)

	output := &bytes.Buffer{}
	tape := &Tape{Output: output}

	for _, c := range []byte("Hi!") {
		tape.OutputPort(TAPE_PORT_DATA, c)
	}
	// Status port is input only.
	tape.OutputPort(TAPE_PORT_STATUS, 'x')

	assert.Equal("Hi!", output.String())
}

func TestTape_PortName(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{}
	assert.Equal("TAPE_DATA", tape.PortName(TAPE_PORT_DATA, true))
	assert.Equal("TAPE_DATA", tape.PortName(TAPE_PORT_DATA, false))
	assert.Equal("TAPE_STATUS", tape.PortName(TAPE_PORT_STATUS, true))
	assert.Equal("", tape.PortName(TAPE_PORT_STATUS, false))
}

func TestTape_Reset(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: bytes.NewBuffer([]byte{0x01})}
	assert.Equal(uint8(0x01), tape.InputPort(TAPE_PORT_DATA))
	assert.False(tape.Ready())

	tape.Input = bytes.NewBuffer([]byte{0x02})
	assert.False(tape.Ready())

	tape.Reset()
	assert.True(tape.Ready())
	assert.Equal(uint8(0x02), tape.InputPort(TAPE_PORT_DATA))
}
