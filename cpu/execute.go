package cpu

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Execute executes the instruction code, fetching its operands from
// the bytes following the program counter. On error the program counter
// is not advanced.
func (cpu *Cpu) Execute(code Code) (err error) {
	if cpu.Verbose {
		log.WithFields(logrus.Fields{
			"pc": fmt.Sprintf("%04x", cpu.Pc),
			"op": code.String(),
			"sp": fmt.Sprintf("%05x", cpu.Sp),
			"af": fmt.Sprintf("%04x", cpu.Pair(PAIR_PSW)),
		}).Info("execute")
	}

	next := cpu.Pc + uint16(code.Length())
	cycles := uint64(code.Cycles())

	switch code.Class() {
	case CLASS_BYTE:
		cpu.executeByte(code)
	case CLASS_IMMEDIATE8:
		err = cpu.executeImmediate8(code, cpu.Memory.Read(cpu.Pc+1))
	case CLASS_IMMEDIATE16:
		cpu.executeImmediate16(code, cpu.Memory.Read16(cpu.Pc+1))
	case CLASS_BRANCH:
		var taken bool
		next, taken = cpu.executeBranch(code, next, cpu.Memory.Read16(cpu.Pc+1))
		if taken && (code&0xc7 == OP_CCC || code&0xc7 == OP_RCC) {
			cycles += CYCLES_BRANCH_TAKEN
		}
	default:
		err = ErrOpcode{Code: code, Address: cpu.Pc}
	}

	if err != nil {
		return
	}

	cpu.Pc = next
	cpu.cycles += cycles

	return
}

// executeByte executes a single byte instruction.
func (cpu *Cpu) executeByte(code Code) {
	switch code {
	case OP_NOP:
	case OP_QUIT:
		cpu.Running = false
	case OP_HLT:
		cpu.Halted = true
	case OP_RLC:
		cpu.rotateLeft()
	case OP_RRC:
		cpu.rotateRight()
	case OP_RAL:
		cpu.rotateLeftCarry()
	case OP_RAR:
		cpu.rotateRightCarry()
	case OP_DAA:
		cpu.decimalAdjust()
	case OP_CMA:
		cpu.Register[REG_A] = ^cpu.Register[REG_A]
	case OP_STC:
		cpu.Status.Set(FLAG_CARRY, true)
	case OP_CMC:
		cpu.Status.Flip(FLAG_CARRY)
	case OP_XTHL:
		cpu.exchangeStack()
	case OP_XCHG:
		de := cpu.Pair(PAIR_DE)
		cpu.SetPair(PAIR_DE, cpu.Pair(PAIR_HL))
		cpu.SetPair(PAIR_HL, de)
	case OP_SPHL:
		cpu.SetPair(PAIR_SP, cpu.Pair(PAIR_HL))
	case OP_DI:
		cpu.InterruptsEnabled = false
		cpu.enableDelay = 0
	case OP_EI:
		if !cpu.InterruptsEnabled {
			cpu.enableDelay = eiDelay
		}
	default:
		switch code & 0xcf {
		case OP_STAX:
			cpu.Memory.Write(cpu.Pair(code.Pair(false)), cpu.Register[REG_A])
			return
		case OP_LDAX:
			cpu.Register[REG_A] = cpu.Memory.Read(cpu.Pair(code.Pair(false)))
			return
		case OP_INX:
			cpu.stepPair(code.Pair(false), 1)
			return
		case OP_DCX:
			cpu.stepPair(code.Pair(false), -1)
			return
		case OP_DAD:
			cpu.addPair(code.Pair(false))
			return
		case OP_PUSH:
			cpu.pushPair(code.Pair(true))
			return
		case OP_POP:
			cpu.popPair(code.Pair(true))
			return
		}

		switch code & 0xc7 {
		case OP_INR:
			cpu.increment(code.Dst())
			return
		case OP_DCR:
			cpu.decrement(code.Dst())
			return
		}

		switch code & 0xc0 {
		case OP_MOV:
			cpu.SetReg(code.Dst(), cpu.Reg(code.Src()))
		case OP_ALU:
			cpu.alu(code.AluOp(), cpu.Reg(code.Src()))
		}
	}
}

// executeImmediate8 executes an instruction with a one byte operand.
func (cpu *Cpu) executeImmediate8(code Code, value uint8) (err error) {
	switch code {
	case OP_IN:
		value, err = cpu.input(value)
		if err != nil {
			return
		}
		cpu.Register[REG_A] = value
		return
	case OP_OUT:
		return cpu.output(value, cpu.Register[REG_A])
	}

	switch code & 0xc7 {
	case OP_MVI:
		cpu.SetReg(code.Dst(), value)
	case OP_ALUI:
		cpu.alu(code.AluOp(), value)
	}

	return
}

// executeImmediate16 executes an instruction with a two byte operand.
func (cpu *Cpu) executeImmediate16(code Code, value uint16) {
	switch code {
	case OP_SHLD:
		cpu.Memory.Write16(value, cpu.Pair(PAIR_HL))
	case OP_LHLD:
		cpu.SetPair(PAIR_HL, cpu.Memory.Read16(value))
	case OP_STA:
		cpu.Memory.Write(value, cpu.Register[REG_A])
	case OP_LDA:
		cpu.Register[REG_A] = cpu.Memory.Read(value)
	default:
		// LXI
		cpu.SetPair(code.Pair(false), value)
	}
}

// executeBranch executes a jump, call, return or restart. It returns
// the address of the next instruction, and whether a conditional
// branch was taken.
func (cpu *Cpu) executeBranch(code Code, next uint16, address uint16) (target uint16, taken bool) {
	target = next

	switch code {
	case OP_JMP:
		target = address
		return
	case OP_CALL:
		cpu.Push(next)
		target = address
		return
	case OP_RET:
		target = cpu.Pop()
		return
	case OP_PCHL:
		target = cpu.Pair(PAIR_HL)
		return
	}

	switch code & 0xc7 {
	case OP_RST:
		cpu.Push(next)
		target = code.Vector()
	case OP_JCC:
		if code.Cond().Holds(cpu.Status) {
			target = address
			taken = true
		}
	case OP_CCC:
		if code.Cond().Holds(cpu.Status) {
			cpu.Push(next)
			target = address
			taken = true
		}
	case OP_RCC:
		if code.Cond().Holds(cpu.Status) {
			target = cpu.Pop()
			taken = true
		}
	}

	return
}
