package cpu

import (
	"github.com/ezrec/i8080/internal"
)

// setResultFlags updates zero, sign and parity from an 8-bit result.
func (cpu *Cpu) setResultFlags(value uint8) {
	cpu.Status.Set(FLAG_ZERO, value == 0)
	cpu.Status.Set(FLAG_SIGN, value&0x80 != 0)
	cpu.Status.Set(FLAG_PARITY, internal.Parity(value))
}

// add returns a + value + carry, setting all flags.
func (cpu *Cpu) add(a, value uint8, carry bool) (result uint8) {
	result = a + value
	if carry {
		result++
	}

	cpu.Status.Set(FLAG_CARRY, internal.HasCarryAtBitIndexWithCarry(a, value, carry, 7))
	cpu.Status.Set(FLAG_AUX_CARRY, internal.HasCarryAtBitIndexWithCarry(a, value, carry, 3))
	cpu.setResultFlags(result)

	return
}

// subtract returns a - value - borrow, setting all flags.
//
// The subtraction is performed as a + ^value + !borrow. Carry is the
// complement of that addition's carry out, so it reads as a borrow.
func (cpu *Cpu) subtract(a, value uint8, borrow bool) (result uint8) {
	result = cpu.add(a, ^value, !borrow)
	cpu.Status.Flip(FLAG_CARRY)
	return
}

// alu performs an accumulator operation with value as the operand.
func (cpu *Cpu) alu(op AluOp, value uint8) {
	a := cpu.Register[REG_A]

	switch op {
	case ALU_OP_ADD:
		a = cpu.add(a, value, false)
	case ALU_OP_ADC:
		a = cpu.add(a, value, cpu.Status.Carry())
	case ALU_OP_SUB:
		a = cpu.subtract(a, value, false)
	case ALU_OP_SBB:
		a = cpu.subtract(a, value, cpu.Status.Carry())
	case ALU_OP_ANA:
		// 8080 ANA sets auxiliary carry from bit 3 of either operand.
		cpu.Status.Set(FLAG_AUX_CARRY, (a|value)&0x08 != 0)
		a &= value
		cpu.Status.Set(FLAG_CARRY, false)
		cpu.setResultFlags(a)
	case ALU_OP_XRA:
		a ^= value
		cpu.Status.Set(FLAG_CARRY|FLAG_AUX_CARRY, false)
		cpu.setResultFlags(a)
	case ALU_OP_ORA:
		a |= value
		cpu.Status.Set(FLAG_CARRY|FLAG_AUX_CARRY, false)
		cpu.setResultFlags(a)
	case ALU_OP_CMP:
		cpu.subtract(a, value, false)
	}

	cpu.Register[REG_A] = a
}

// increment adds one to a register or M. Carry is not affected.
func (cpu *Cpu) increment(reg Register) {
	value := cpu.Reg(reg)
	result := value + 1

	cpu.Status.Set(FLAG_AUX_CARRY, internal.HasCarryAtBitIndex(value, 1, 3))
	cpu.setResultFlags(result)
	cpu.SetReg(reg, result)
}

// decrement subtracts one from a register or M. Carry is not affected.
func (cpu *Cpu) decrement(reg Register) {
	value := cpu.Reg(reg)
	result := value - 1

	// value + 0xff, the two's complement of 1.
	cpu.Status.Set(FLAG_AUX_CARRY, internal.HasCarryAtBitIndex(value, 0xff, 3))
	cpu.setResultFlags(result)
	cpu.SetReg(reg, result)
}

// addPair adds a register pair (or SP) to HL. Only carry is affected.
func (cpu *Cpu) addPair(pair RegisterPair) {
	hl := cpu.Pair(PAIR_HL)
	value := cpu.Pair(pair)

	cpu.Status.Set(FLAG_CARRY, internal.HasCarryAtBitIndex(hl, value, 15))
	cpu.SetPair(PAIR_HL, hl+value)
}

// rotateLeft is RLC: bit 7 moves to bit 0 and to carry.
func (cpu *Cpu) rotateLeft() {
	a := cpu.Register[REG_A]
	out := a >> 7
	cpu.Register[REG_A] = a<<1 | out
	cpu.Status.Set(FLAG_CARRY, out == 1)
}

// rotateRight is RRC: bit 0 moves to bit 7 and to carry.
func (cpu *Cpu) rotateRight() {
	a := cpu.Register[REG_A]
	out := a & 1
	cpu.Register[REG_A] = a>>1 | out<<7
	cpu.Status.Set(FLAG_CARRY, out == 1)
}

// rotateLeftCarry is RAL: the prior carry enters bit 0, bit 7 leaves to carry.
func (cpu *Cpu) rotateLeftCarry() {
	a := cpu.Register[REG_A]
	var in uint8
	if cpu.Status.Carry() {
		in = 1
	}
	cpu.Register[REG_A] = a<<1 | in
	cpu.Status.Set(FLAG_CARRY, a&0x80 != 0)
}

// rotateRightCarry is RAR: the prior carry enters bit 7, bit 0 leaves to carry.
func (cpu *Cpu) rotateRightCarry() {
	a := cpu.Register[REG_A]
	var in uint8
	if cpu.Status.Carry() {
		in = 0x80
	}
	cpu.Register[REG_A] = a>>1 | in
	cpu.Status.Set(FLAG_CARRY, a&1 != 0)
}

// decimalAdjust is DAA, correcting A to two packed BCD digits after an
// addition. When the high digit is corrected, carry is taken from that
// correction.
func (cpu *Cpu) decimalAdjust() {
	a := cpu.Register[REG_A]

	if internal.LowerNibble(a) > 9 || cpu.Status.AuxCarry() {
		cpu.Status.Set(FLAG_AUX_CARRY, internal.HasCarryAtBitIndex(a, 6, 3))
		a += 6
	}

	high := internal.UpperNibble(a)
	if high > 9 || cpu.Status.Carry() {
		cpu.Status.Set(FLAG_CARRY, internal.HasCarryAtBitIndex(high, 6, 3))
		high = internal.LowerNibble(high + 6)
	}

	a = high<<4 | internal.LowerNibble(a)
	cpu.Register[REG_A] = a
	cpu.setResultFlags(a)
}
