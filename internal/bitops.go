package internal

import (
	"math/bits"
)

// Unsigned is the set of operand widths the bit helpers accept.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32
}

// SetFlag returns value with every bit of flag set.
func SetFlag(value, flag uint8) uint8 {
	return value | flag
}

// ClearFlag returns value with every bit of flag cleared.
func ClearFlag(value, flag uint8) uint8 {
	return value &^ flag
}

// HasFlag returns true if every bit of flag is set in value.
func HasFlag(value, flag uint8) bool {
	return (value & flag) == flag
}

// LowerNibble returns bits 0..3 of value.
func LowerNibble(value uint8) uint8 {
	return value & 0x0f
}

// UpperNibble returns bits 4..7 of value, shifted down.
func UpperNibble(value uint8) uint8 {
	return (value >> 4) & 0x0f
}

// Parity returns true if value has an even number of set bits.
func Parity(value uint8) bool {
	return bits.OnesCount8(value)&1 == 0
}

// HasCarryAtBitIndex returns true if a + b carries out of bit index.
func HasCarryAtBitIndex[T Unsigned](a, b T, index uint) bool {
	return HasCarryAtBitIndexWithCarry(a, b, false, index)
}

// HasCarryAtBitIndexWithCarry returns true if a + b + carry carries out of
// bit index.
//
// The sum is taken at 64 bits, and bit index+1 of the sum is probed: any
// difference from a ^ b at that position was rippled in from below.
func HasCarryAtBitIndexWithCarry[T Unsigned](a, b T, carry bool, index uint) bool {
	wa := uint64(a)
	wb := uint64(b)
	sum := wa + wb
	if carry {
		sum++
	}

	return ((wa^wb^sum)>>(index+1))&1 == 1
}
