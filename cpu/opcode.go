package cpu

import (
	"fmt"
)

// Register is the 3-bit register field of an opcode.
type Register int

const (
	REG_B = Register(0) // b
	REG_C = Register(1) // c
	REG_D = Register(2) // d
	REG_E = Register(3) // e
	REG_H = Register(4) // h
	REG_L = Register(5) // l
	REG_M = Register(6) // m (memory at HL)
	REG_A = Register(7) // a
)

var registerName = [8]string{"b", "c", "d", "e", "h", "l", "m", "a"}

func (r Register) String() string {
	if r < 0 || int(r) >= len(registerName) {
		return "?"
	}
	return registerName[r]
}

// RegisterPair is the 2-bit register pair field of an opcode.
// The fourth encoding is PAIR_SP for LXI, INX, DCX and DAD,
// and PAIR_PSW for PUSH and POP.
type RegisterPair int

const (
	PAIR_BC  = RegisterPair(0) // b
	PAIR_DE  = RegisterPair(1) // d
	PAIR_HL  = RegisterPair(2) // h
	PAIR_SP  = RegisterPair(3) // sp
	PAIR_PSW = RegisterPair(4) // psw
)

var pairName = [5]string{"b", "d", "h", "sp", "psw"}

func (p RegisterPair) String() string {
	if p < 0 || int(p) >= len(pairName) {
		return "?"
	}
	return pairName[p]
}

// field returns the 2-bit opcode encoding of the pair.
func (p RegisterPair) field() Code {
	if p == PAIR_PSW {
		return 3
	}
	return Code(p) & 3
}

// Condition is the 3-bit condition field of Jcc, Ccc and Rcc.
type Condition int

const (
	COND_NZ = Condition(0) // nz
	COND_Z  = Condition(1) // z
	COND_NC = Condition(2) // nc
	COND_C  = Condition(3) // c
	COND_PO = Condition(4) // po
	COND_PE = Condition(5) // pe
	COND_P  = Condition(6) // p
	COND_M  = Condition(7) // m
)

var conditionName = [8]string{"nz", "z", "nc", "c", "po", "pe", "p", "m"}

func (cond Condition) String() string {
	if cond < 0 || int(cond) >= len(conditionName) {
		return "?"
	}
	return conditionName[cond]
}

// Holds returns true if the condition is satisfied by the status register.
func (cond Condition) Holds(sr StatusRegister) bool {
	switch cond {
	case COND_NZ:
		return !sr.Zero()
	case COND_Z:
		return sr.Zero()
	case COND_NC:
		return !sr.Carry()
	case COND_C:
		return sr.Carry()
	case COND_PO:
		return !sr.Parity()
	case COND_PE:
		return sr.Parity()
	case COND_P:
		return !sr.Sign()
	case COND_M:
		return sr.Sign()
	}
	return false
}

// AluOp is the 3-bit accumulator operation field.
type AluOp int

const (
	ALU_OP_ADD = AluOp(0) // add
	ALU_OP_ADC = AluOp(1) // adc
	ALU_OP_SUB = AluOp(2) // sub
	ALU_OP_SBB = AluOp(3) // sbb
	ALU_OP_ANA = AluOp(4) // ana
	ALU_OP_XRA = AluOp(5) // xra
	ALU_OP_ORA = AluOp(6) // ora
	ALU_OP_CMP = AluOp(7) // cmp
)

var aluName = [8]string{"add", "adc", "sub", "sbb", "ana", "xra", "ora", "cmp"}
var aluImmediateName = [8]string{"adi", "aci", "sui", "sbi", "ani", "xri", "ori", "cpi"}

func (op AluOp) String() string {
	if op < 0 || int(op) >= len(aluName) {
		return "?"
	}
	return aluName[op]
}

// Code is a single opcode byte.
type Code uint8

// Opcodes. Entries marked with a field take it OR-ed in,
// see the MakeCode* helpers.
const (
	OP_NOP  = Code(0x00)
	OP_LXI  = Code(0x01) // | pair << 4
	OP_STAX = Code(0x02) // | pair << 4 (BC, DE)
	OP_INX  = Code(0x03) // | pair << 4
	OP_INR  = Code(0x04) // | reg << 3
	OP_DCR  = Code(0x05) // | reg << 3
	OP_MVI  = Code(0x06) // | reg << 3
	OP_RLC  = Code(0x07)
	OP_QUIT = Code(0x08) // Emulator run-stop, an unused 8080 slot.
	OP_DAD  = Code(0x09) // | pair << 4
	OP_LDAX = Code(0x0a) // | pair << 4 (BC, DE)
	OP_DCX  = Code(0x0b) // | pair << 4
	OP_RRC  = Code(0x0f)
	OP_RAL  = Code(0x17)
	OP_RAR  = Code(0x1f)
	OP_SHLD = Code(0x22)
	OP_DAA  = Code(0x27)
	OP_LHLD = Code(0x2a)
	OP_CMA  = Code(0x2f)
	OP_STA  = Code(0x32)
	OP_STC  = Code(0x37)
	OP_LDA  = Code(0x3a)
	OP_CMC  = Code(0x3f)
	OP_MOV  = Code(0x40) // | dst << 3 | src
	OP_HLT  = Code(0x76) // The MOV M,M slot.
	OP_ALU  = Code(0x80) // | op << 3 | src
	OP_RCC  = Code(0xc0) // | cond << 3
	OP_POP  = Code(0xc1) // | pair << 4
	OP_JCC  = Code(0xc2) // | cond << 3
	OP_JMP  = Code(0xc3)
	OP_CCC  = Code(0xc4) // | cond << 3
	OP_PUSH = Code(0xc5) // | pair << 4
	OP_ALUI = Code(0xc6) // | op << 3
	OP_RST  = Code(0xc7) // | vector << 3
	OP_RET  = Code(0xc9)
	OP_CALL = Code(0xcd)
	OP_OUT  = Code(0xd3)
	OP_IN   = Code(0xdb)
	OP_XTHL = Code(0xe3)
	OP_PCHL = Code(0xe9)
	OP_XCHG = Code(0xeb)
	OP_DI   = Code(0xf3)
	OP_SPHL = Code(0xf9)
	OP_EI   = Code(0xfb)
)

// MakeCodeMov creates a MOV dst,src instruction.
func MakeCodeMov(dst, src Register) Code {
	return OP_MOV | Code(dst&7)<<3 | Code(src&7)
}

// MakeCodeAlu creates an accumulator operation with a register or M operand.
func MakeCodeAlu(op AluOp, src Register) Code {
	return OP_ALU | Code(op&7)<<3 | Code(src&7)
}

// MakeCodeAluImmediate creates an accumulator operation with an immediate operand.
func MakeCodeAluImmediate(op AluOp) Code {
	return OP_ALUI | Code(op&7)<<3
}

// MakeCodeReg creates one of the INR, DCR or MVI instructions for a register.
func MakeCodeReg(base Code, reg Register) Code {
	return base | Code(reg&7)<<3
}

// MakeCodePair creates one of the LXI, STAX, INX, DAD, LDAX, DCX, POP or PUSH
// instructions for a register pair.
func MakeCodePair(base Code, pair RegisterPair) Code {
	return base | pair.field()<<4
}

// MakeCodeCond creates one of the Rcc, Jcc or Ccc instructions for a condition.
func MakeCodeCond(base Code, cond Condition) Code {
	return base | Code(cond&7)<<3
}

// MakeCodeRst creates the RST instruction for vector n (0-7).
func MakeCodeRst(n int) Code {
	return OP_RST | Code(n&7)<<3
}

// Dst returns the destination register field (bits 3-5).
func (code Code) Dst() Register {
	return Register((code >> 3) & 7)
}

// Src returns the source register field (bits 0-2).
func (code Code) Src() Register {
	return Register(code & 7)
}

// Pair returns the register pair field (bits 4-5). When stack is set the
// fourth encoding decodes as PAIR_PSW, otherwise as PAIR_SP.
func (code Code) Pair(stack bool) RegisterPair {
	pair := RegisterPair((code >> 4) & 3)
	if pair == PAIR_SP && stack {
		pair = PAIR_PSW
	}
	return pair
}

// Cond returns the condition field (bits 3-5).
func (code Code) Cond() Condition {
	return Condition((code >> 3) & 7)
}

// AluOp returns the accumulator operation field (bits 3-5).
func (code Code) AluOp() AluOp {
	return AluOp((code >> 3) & 7)
}

// Vector returns the restart address of an RST instruction.
func (code Code) Vector() uint16 {
	return uint16(code & 0x38)
}

// CodeClass is the instruction length group an opcode decodes to.
type CodeClass int

const (
	CLASS_INVALID     = CodeClass(0) // invalid
	CLASS_BYTE        = CodeClass(1) // byte
	CLASS_IMMEDIATE8  = CodeClass(2) // imm8
	CLASS_IMMEDIATE16 = CodeClass(3) // imm16
	CLASS_BRANCH      = CodeClass(4) // branch
)

var className = [5]string{"invalid", "byte", "imm8", "imm16", "branch"}

func (class CodeClass) String() string {
	if class < 0 || int(class) >= len(className) {
		return "?"
	}
	return className[class]
}

type codeInfo struct {
	class  CodeClass
	length uint8
}

var codeTable = makeCodeTable()

func makeCodeTable() (codeTable [256]codeInfo) {
	for n := range codeTable {
		code := Code(n)
		info := codeInfo{class: CLASS_BYTE, length: 1}
		switch {
		case code == 0x10, code == 0x18, code == 0x20, code == 0x28, code == 0x30, code == 0x38,
			code == 0xcb, code == 0xd9, code == 0xdd, code == 0xed, code == 0xfd:
			info = codeInfo{class: CLASS_INVALID}
		case code == OP_JMP, code == OP_CALL,
			code&0xc7 == OP_JCC, code&0xc7 == OP_CCC:
			info = codeInfo{class: CLASS_BRANCH, length: 3}
		case code == OP_RET, code == OP_PCHL,
			code&0xc7 == OP_RCC, code&0xc7 == OP_RST:
			info = codeInfo{class: CLASS_BRANCH, length: 1}
		case code&0xc7 == OP_MVI, code&0xc7 == OP_ALUI, code == OP_IN, code == OP_OUT:
			info = codeInfo{class: CLASS_IMMEDIATE8, length: 2}
		case code&0xcf == OP_LXI, code == OP_SHLD, code == OP_LHLD, code == OP_STA, code == OP_LDA:
			info = codeInfo{class: CLASS_IMMEDIATE16, length: 3}
		}
		codeTable[n] = info
	}

	return
}

// Class returns the instruction group of the opcode.
func (code Code) Class() CodeClass {
	return codeTable[code].class
}

// Valid returns true if the opcode has a defined operation.
func (code Code) Valid() bool {
	return code.Class() != CLASS_INVALID
}

// Length returns the instruction length in bytes, including operands.
func (code Code) Length() int {
	return int(codeTable[code].length)
}

// Additional cost of a taken conditional CALL or RET.
const CYCLES_BRANCH_TAKEN = 6

// Cost of an instruction in T-states. Conditional CALL and RET list the
// not-taken cost.
var codeCycles = [256]uint8{
	4, 10, 7, 5, 5, 5, 7, 4, 4, 10, 7, 5, 5, 5, 7, 4,
	4, 10, 7, 5, 5, 5, 7, 4, 4, 10, 7, 5, 5, 5, 7, 4,
	4, 10, 16, 5, 5, 5, 7, 4, 4, 10, 16, 5, 5, 5, 7, 4,
	4, 10, 13, 5, 10, 10, 10, 4, 4, 10, 13, 5, 5, 5, 7, 4,
	5, 5, 5, 5, 5, 5, 7, 5, 5, 5, 5, 5, 5, 5, 7, 5,
	5, 5, 5, 5, 5, 5, 7, 5, 5, 5, 5, 5, 5, 5, 7, 5,
	5, 5, 5, 5, 5, 5, 7, 5, 5, 5, 5, 5, 5, 5, 7, 5,
	7, 7, 7, 7, 7, 7, 7, 7, 5, 5, 5, 5, 5, 5, 7, 5,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4,
	5, 10, 10, 10, 11, 11, 7, 11, 5, 10, 10, 10, 11, 17, 7, 11,
	5, 10, 10, 10, 11, 11, 7, 11, 5, 10, 10, 10, 11, 17, 7, 11,
	5, 10, 10, 18, 11, 11, 7, 11, 5, 5, 10, 4, 11, 17, 7, 11,
	5, 10, 10, 4, 11, 11, 7, 11, 5, 5, 10, 4, 11, 17, 7, 11,
}

// Cycles returns the base cost of the opcode in T-states.
func (code Code) Cycles() int {
	return int(codeCycles[code])
}

var codeName = map[Code]string{
	OP_NOP:  "nop",
	OP_RLC:  "rlc",
	OP_QUIT: "quit",
	OP_RRC:  "rrc",
	OP_RAL:  "ral",
	OP_RAR:  "rar",
	OP_SHLD: "shld",
	OP_DAA:  "daa",
	OP_LHLD: "lhld",
	OP_CMA:  "cma",
	OP_STA:  "sta",
	OP_STC:  "stc",
	OP_LDA:  "lda",
	OP_CMC:  "cmc",
	OP_HLT:  "hlt",
	OP_JMP:  "jmp",
	OP_RET:  "ret",
	OP_CALL: "call",
	OP_OUT:  "out",
	OP_IN:   "in",
	OP_XTHL: "xthl",
	OP_PCHL: "pchl",
	OP_XCHG: "xchg",
	OP_DI:   "di",
	OP_SPHL: "sphl",
	OP_EI:   "ei",
}

// String returns the mnemonic and register operands of the opcode.
// Immediate operands are not part of the opcode, and are omitted.
func (code Code) String() string {
	if !code.Valid() {
		return fmt.Sprintf("?%02x", uint8(code))
	}

	if name, ok := codeName[code]; ok {
		return name
	}

	switch code & 0xcf {
	case OP_LXI:
		return "lxi " + code.Pair(false).String()
	case OP_STAX:
		return "stax " + code.Pair(false).String()
	case OP_INX:
		return "inx " + code.Pair(false).String()
	case OP_DAD:
		return "dad " + code.Pair(false).String()
	case OP_LDAX:
		return "ldax " + code.Pair(false).String()
	case OP_DCX:
		return "dcx " + code.Pair(false).String()
	case OP_POP:
		return "pop " + code.Pair(true).String()
	case OP_PUSH:
		return "push " + code.Pair(true).String()
	}

	switch code & 0xc7 {
	case OP_INR:
		return "inr " + code.Dst().String()
	case OP_DCR:
		return "dcr " + code.Dst().String()
	case OP_MVI:
		return "mvi " + code.Dst().String()
	case OP_RCC:
		return "r" + code.Cond().String()
	case OP_JCC:
		return "j" + code.Cond().String()
	case OP_CCC:
		return "c" + code.Cond().String()
	case OP_ALUI:
		return aluImmediateName[code.AluOp()]
	case OP_RST:
		return fmt.Sprintf("rst %d", code.Vector()>>3)
	}

	switch code & 0xc0 {
	case OP_MOV:
		return "mov " + code.Dst().String() + "," + code.Src().String()
	case OP_ALU:
		return code.AluOp().String() + " " + code.Src().String()
	}

	return fmt.Sprintf("?%02x", uint8(code))
}
