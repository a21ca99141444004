package cpu

import (
	"github.com/ezrec/i8080/internal"
)

// StatusRegister is the 8080 flags byte.
//
// Bit 1 always reads as 1, bits 3 and 5 always read as 0.
type StatusRegister uint8

// Status register flag masks.
const (
	FLAG_CARRY     = StatusRegister(1 << 0) // Carry out of bit 7, or borrow.
	FLAG_ONE       = StatusRegister(1 << 1) // Hardware fixed to 1.
	FLAG_PARITY    = StatusRegister(1 << 2) // Even parity of the result.
	FLAG_AUX_CARRY = StatusRegister(1 << 4) // Carry out of bit 3.
	FLAG_ZERO      = StatusRegister(1 << 6) // Result was zero.
	FLAG_SIGN      = StatusRegister(1 << 7) // Bit 7 of the result.

	FLAG_ZERO_MASK = StatusRegister(1<<3 | 1<<5) // Hardware fixed to 0.

	STATUS_RESET = FLAG_ONE
)

// Normalize forces the hardware fixed bits.
func (sr StatusRegister) Normalize() StatusRegister {
	return StatusRegister(internal.ClearFlag(internal.SetFlag(uint8(sr), uint8(FLAG_ONE)), uint8(FLAG_ZERO_MASK)))
}

// Has returns true if all bits in flag are set.
func (sr StatusRegister) Has(flag StatusRegister) bool {
	return internal.HasFlag(uint8(sr), uint8(flag))
}

// Set sets or clears flag.
func (sr *StatusRegister) Set(flag StatusRegister, on bool) {
	if on {
		*sr = StatusRegister(internal.SetFlag(uint8(*sr), uint8(flag)))
	} else {
		*sr = StatusRegister(internal.ClearFlag(uint8(*sr), uint8(flag)))
	}
}

// Flip complements flag.
func (sr *StatusRegister) Flip(flag StatusRegister) {
	sr.Set(flag, !sr.Has(flag))
}

func (sr StatusRegister) Carry() bool    { return sr.Has(FLAG_CARRY) }
func (sr StatusRegister) Parity() bool   { return sr.Has(FLAG_PARITY) }
func (sr StatusRegister) AuxCarry() bool { return sr.Has(FLAG_AUX_CARRY) }
func (sr StatusRegister) Zero() bool     { return sr.Has(FLAG_ZERO) }
func (sr StatusRegister) Sign() bool     { return sr.Has(FLAG_SIGN) }

// String returns the register as a labelled bit pattern, MSB first.
// Set flags are upper case.
func (sr StatusRegister) String() string {
	label := func(flag StatusRegister, set, clear byte) byte {
		if sr.Has(flag) {
			return set
		}
		return clear
	}

	return string([]byte{
		label(FLAG_SIGN, 'S', 's'),
		label(FLAG_ZERO, 'Z', 'z'),
		label(1<<5, '1', '0'),
		label(FLAG_AUX_CARRY, 'A', 'a'),
		label(1<<3, '1', '0'),
		label(FLAG_PARITY, 'P', 'p'),
		label(FLAG_ONE, '1', '0'),
		label(FLAG_CARRY, 'C', 'c'),
	})
}
