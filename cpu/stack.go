package cpu

const (
	STACK_EMPTY = uint32(0x10000) // Reset stack pointer, one past the top of memory.
)

// wrapSp reduces a stack pointer modulo 65536, except for the exact
// STACK_EMPTY value produced by incrementing past 0xffff.
func wrapSp(sp uint32) uint32 {
	if sp == STACK_EMPTY {
		return sp
	}
	return sp & 0xffff
}

// Push writes value below the stack pointer, high byte first, and
// moves the stack pointer down by two.
func (cpu *Cpu) Push(value uint16) {
	cpu.Memory.Write(uint16(cpu.Sp-1), uint8(value>>8))
	cpu.Memory.Write(uint16(cpu.Sp-2), uint8(value))
	cpu.Sp = wrapSp(cpu.Sp - 2)
}

// Pop reads the word at the stack pointer and moves the stack pointer up by two.
func (cpu *Cpu) Pop() (value uint16) {
	value = cpu.Peek()
	cpu.Sp = wrapSp(cpu.Sp + 2)
	return
}

// Peek reads the word at the stack pointer.
func (cpu *Cpu) Peek() (value uint16) {
	lo := cpu.Memory.Read(uint16(cpu.Sp))
	hi := cpu.Memory.Read(uint16(cpu.Sp + 1))
	return uint16(hi)<<8 | uint16(lo)
}

// pushPair pushes a register pair; PAIR_PSW pushes A and the status register.
func (cpu *Cpu) pushPair(pair RegisterPair) {
	cpu.Push(cpu.Pair(pair))
}

// popPair pops a register pair; PAIR_PSW normalizes the status register.
func (cpu *Cpu) popPair(pair RegisterPair) {
	cpu.SetPair(pair, cpu.Pop())
}

// exchangeStack swaps HL with the word at the top of the stack.
func (cpu *Cpu) exchangeStack() {
	sp := uint16(cpu.Sp)
	top := cpu.Memory.Read16(sp)
	cpu.Memory.Write16(sp, cpu.Pair(PAIR_HL))
	cpu.SetPair(PAIR_HL, top)
}

// stepPair increments or decrements a register pair. The stack pointer
// keeps STACK_EMPTY when incremented from 0xffff.
func (cpu *Cpu) stepPair(pair RegisterPair, delta int) {
	if pair == PAIR_SP {
		cpu.Sp = wrapSp(uint32(int64(cpu.Sp) + int64(delta)))
		return
	}
	cpu.SetPair(pair, cpu.Pair(pair)+uint16(delta))
}
