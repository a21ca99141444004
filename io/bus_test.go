package io

import (
	"errors"
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	in  uint8
	out []uint8
}

func (r *recorder) InputPort(port uint8) uint8 {
	return r.in
}

func (r *recorder) OutputPort(port uint8, value uint8) uint8 {
	r.out = append(r.out, value)
	return value
}

func TestBus_Route(t *testing.T) {
	assert := assert.New(t)

	bus := NewBus()
	dev := &recorder{in: 0x42}

	assert.NoError(bus.Route(7, dev))

	assert.Equal(uint8(0x42), bus.InputPort(7))
	assert.Equal(uint8(0), bus.InputPort(8))

	bus.OutputPort(7, 0x11)
	bus.OutputPort(9, 0x22)
	assert.Equal([]uint8{0x11}, dev.out)
	assert.Equal(uint8(0x11), bus.LastOutput[7])
	assert.Equal(uint8(0x22), bus.LastOutput[9])
}

func TestBus_Route_Duplicate(t *testing.T) {
	assert := assert.New(t)

	bus := NewBus()
	assert.NoError(bus.RouteInput(1, &recorder{}))
	assert.NoError(bus.RouteOutput(1, &recorder{}))

	err := bus.RouteInput(1, &recorder{})
	assert.True(errors.Is(err, ErrPortRouted))

	err = bus.Route(1, &recorder{})
	assert.True(errors.Is(err, ErrPortRouted))
}

func TestBus_Defines(t *testing.T) {
	assert := assert.New(t)

	bus := NewBus()
	tape := &Tape{}
	assert.NoError(bus.Route(TAPE_PORT_DATA, tape))
	assert.NoError(bus.Route(TAPE_PORT_STATUS, tape))
	assert.NoError(bus.Route(9, &recorder{}))

	defines := maps.Collect(bus.Defines())
	assert.Equal(map[string]string{
		"TAPE_DATA":   "0",
		"TAPE_STATUS": "1",
	}, defines)
}
