package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Normalize(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(StatusRegister(0x02), StatusRegister(0x00).Normalize())
	assert.Equal(StatusRegister(0xd7), StatusRegister(0xff).Normalize())
	assert.Equal(StatusRegister(0x83), StatusRegister(0xa9).Normalize())
}

func TestStatus_Set(t *testing.T) {
	assert := assert.New(t)

	sr := STATUS_RESET
	sr.Set(FLAG_ZERO|FLAG_CARRY, true)
	assert.True(sr.Zero())
	assert.True(sr.Carry())
	assert.False(sr.Sign())

	sr.Flip(FLAG_CARRY)
	assert.False(sr.Carry())
	assert.True(sr.Zero())

	sr.Set(FLAG_ZERO, false)
	assert.Equal(STATUS_RESET, sr)
}

func TestStatus_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("sz0a0p1c", STATUS_RESET.String())
	assert.Equal("SZ0A0P1C", StatusRegister(0xff).Normalize().String())
	assert.Equal("Sz0a0p1C", (STATUS_RESET | FLAG_SIGN | FLAG_CARRY).String())
}
