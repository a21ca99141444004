package cpu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fuzzPorts echoes the port number back on input.
type fuzzPorts struct {
	out []uint8
}

func (fp *fuzzPorts) InputPort(port uint8) uint8 {
	return port
}

func (fp *fuzzPorts) OutputPort(port uint8, value uint8) uint8 {
	fp.out = append(fp.out, port, value)
	return value
}

func FuzzCpu(f *testing.F) {
	for n := range 256 {
		f.Add(uint8(n), uint8(0x5a), uint8(0x00), uint16(0x2000), uint16(0x3000), uint16(0x1234))
		f.Add(uint8(n), uint8(0xff), uint8(0xff), uint16(0xffff), uint16(0x0000), uint16(0xfffe))
	}

	f.Fuzz(func(t *testing.T, opcode uint8, a uint8, status uint8, hl uint16, sp uint16, operand uint16) {
		assert := assert.New(t)

		code := Code(opcode)

		cpu := NewCpu()
		ports := &fuzzPorts{}
		cpu.SetPortHandler(ports)

		const origin = uint16(0x0100)
		cpu.Register[REG_A] = a
		cpu.Register[REG_B] = 0x12
		cpu.Register[REG_C] = 0x34
		cpu.Register[REG_D] = 0x56
		cpu.Register[REG_E] = 0x78
		cpu.SetPair(PAIR_HL, hl)
		cpu.SetStatus(status)
		cpu.Sp = uint32(sp)
		cpu.Pc = origin
		cpu.Memory.Write(origin, opcode)
		cpu.Memory.Write16(origin+1, operand)

		pre := *cpu

		code_str := fmt.Sprintf("0x%02x (%v) a:%02x f:%02x hl:%04x sp:%04x operand:%04x\ncpu:%v",
			opcode, code, a, status, hl, sp, operand, cpu.String())

		err := cpu.Tick()

		if !code.Valid() {
			assert.True(errors.Is(err, ErrOpcode{}), code_str)
			var eo ErrOpcode
			if assert.True(errors.As(err, &eo), code_str) {
				assert.Equal(code, eo.Code, code_str)
				assert.Equal(origin, eo.Address, code_str)
			}
			assert.Equal(origin, cpu.Pc, code_str)
			assert.Equal(uint64(0), cpu.Cycles(), code_str)
			return
		}

		if !assert.NoError(err, code_str) {
			return
		}

		// Fixed bits of the status register survive every instruction.
		assert.Equal(cpu.Status.Normalize(), cpu.Status, code_str)
		assert.LessOrEqual(cpu.Sp, STACK_EMPTY, code_str)

		// Cost is the base cost, plus the taken penalty for Ccc and Rcc.
		cycles := uint64(code.Cycles())
		switch code & 0xc7 {
		case OP_CCC, OP_RCC:
			if code.Cond().Holds(pre.Status) {
				cycles += CYCLES_BRANCH_TAKEN
			}
		}
		assert.Equal(cycles, cpu.Cycles(), code_str)

		if code.Class() != CLASS_BRANCH {
			assert.Equal(origin+uint16(code.Length()), cpu.Pc, code_str)
		}

		switch code & 0xc7 {
		case OP_INR, OP_DCR:
			assert.Equal(pre.Status.Carry(), cpu.Status.Carry(), code_str)
		}

		switch code & 0xcf {
		case OP_DAD:
			mask := FLAG_ZERO | FLAG_SIGN | FLAG_PARITY | FLAG_AUX_CARRY
			assert.Equal(pre.Status&mask, cpu.Status&mask, code_str)
			assert.Equal(pre.Register[REG_A], cpu.Register[REG_A], code_str)
		}

		switch code & 0xc0 {
		case OP_MOV:
			if code != OP_HLT {
				assert.Equal(pre.Status, cpu.Status, code_str)
			}
		}

		switch code {
		case OP_HLT:
			assert.True(cpu.Halted, code_str)
		case OP_QUIT:
			assert.False(cpu.Running, code_str)
		case OP_OUT:
			assert.Equal([]uint8{uint8(operand), a}, ports.out, code_str)
		case OP_IN:
			assert.Equal(uint8(operand), cpu.Register[REG_A], code_str)
		case OP_CALL:
			assert.Equal(operand, cpu.Pc, code_str)
			assert.Equal(origin+3, cpu.Peek(), code_str)
		case OP_JMP:
			assert.Equal(operand, cpu.Pc, code_str)
		}
	})
}
