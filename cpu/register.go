package cpu

// Reg returns the value of a register. REG_M reads the memory
// byte addressed by HL.
func (cpu *Cpu) Reg(reg Register) uint8 {
	if reg == REG_M {
		return cpu.Memory.Read(cpu.Pair(PAIR_HL))
	}
	return cpu.Register[reg&7]
}

// SetReg sets the value of a register. REG_M writes the memory
// byte addressed by HL.
func (cpu *Cpu) SetReg(reg Register, value uint8) {
	if reg == REG_M {
		cpu.Memory.Write(cpu.Pair(PAIR_HL), value)
		return
	}
	cpu.Register[reg&7] = value
}

// pairRegs maps a pair to its high and low registers.
var pairRegs = [3][2]Register{
	PAIR_BC: {REG_B, REG_C},
	PAIR_DE: {REG_D, REG_E},
	PAIR_HL: {REG_H, REG_L},
}

// Pair returns the 16-bit value of a register pair. PAIR_SP returns the
// stack pointer modulo 65536, PAIR_PSW the accumulator and status register.
func (cpu *Cpu) Pair(pair RegisterPair) uint16 {
	switch pair {
	case PAIR_SP:
		return uint16(cpu.Sp)
	case PAIR_PSW:
		return uint16(cpu.Register[REG_A])<<8 | uint16(cpu.Status)
	}

	regs := pairRegs[pair]
	return uint16(cpu.Register[regs[0]])<<8 | uint16(cpu.Register[regs[1]])
}

// SetPair sets the 16-bit value of a register pair. Setting PAIR_PSW
// normalizes the hardware fixed status bits.
func (cpu *Cpu) SetPair(pair RegisterPair, value uint16) {
	switch pair {
	case PAIR_SP:
		cpu.Sp = uint32(value)
		return
	case PAIR_PSW:
		cpu.Register[REG_A] = uint8(value >> 8)
		cpu.SetStatus(uint8(value))
		return
	}

	regs := pairRegs[pair]
	cpu.Register[regs[0]] = uint8(value >> 8)
	cpu.Register[regs[1]] = uint8(value)
}

// SetStatus replaces the status register, forcing the fixed bits.
func (cpu *Cpu) SetStatus(value uint8) {
	cpu.Status = StatusRegister(value).Normalize()
}
