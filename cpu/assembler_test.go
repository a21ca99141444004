package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Opcodes))

	assert.Equal("0", asm.Equate["LINENO"])
}

func opEqual(t *testing.T, expected, opcodes []Opcode) {
	assert := assert.New(t)

	assert.Equal(len(expected), len(opcodes))
	if len(expected) == len(opcodes) {
		for n := range len(expected) {
			assert.Equal(expected[n], opcodes[n])
		}
	}
}

func TestAssemblerInstructions(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"mvi a, 0x12",
		"mov b, a",
		"lxi sp, 0",
		"add m",
		"push psw",
		"rst 7",
		"quit",
		"MOV A,B",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	expected := []Opcode{
		{1, 0, []string{"mvi", "a", "0x12"}, []byte{0x3e, 0x12}, nil},
		{2, 2, []string{"mov", "b", "a"}, []byte{0x47}, nil},
		{3, 3, []string{"lxi", "sp", "0"}, []byte{0x31, 0x00, 0x00}, nil},
		{4, 6, []string{"add", "m"}, []byte{0x86}, nil},
		{5, 7, []string{"push", "psw"}, []byte{0xf5}, nil},
		{6, 8, []string{"rst", "7"}, []byte{0xff}, nil},
		{7, 9, []string{"quit"}, []byte{byte(OP_QUIT)}, nil},
		{8, 10, []string{"MOV", "A", "B"}, []byte{0x78}, nil},
	}

	opEqual(t, expected, prog.Opcodes)
}

func TestAssemblerEveryOpcode(t *testing.T) {
	assert := assert.New(t)

	// Every defined opcode assembles from its own mnemonic.
	for n := range 256 {
		code := Code(n)
		if !code.Valid() {
			continue
		}

		line := code.String()
		switch code.Length() {
		case 2:
			line += ", 0x5a"
		case 3:
			line += ", 0x1234"
		}

		asm := &Assembler{}
		prog, err := asm.Parse(strings.NewReader(line))
		if !assert.NoError(err, line) {
			continue
		}

		bin := prog.Binary()
		assert.Equal(code.Length(), len(bin), line)
		assert.Equal(byte(code), bin[0], line)
	}
}

func TestAssemblerEqu(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("BASE", "0x2400")

	program := []string{
		".equ PORT 3",
		"out PORT",
		"mvi c, $(PORT * 2 + 1)",
		"in $(PORT)",
		"lxi h, BASE",
		"lxi d, $(BASE + LINENO)",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	expected := []Opcode{
		{2, 0, []string{"out", "3"}, []byte{0xd3, 0x03}, nil},
		{3, 2, []string{"mvi", "c", "7"}, []byte{0x0e, 0x07}, nil},
		{4, 4, []string{"in", "3"}, []byte{0xdb, 0x03}, nil},
		{5, 6, []string{"lxi", "h", "0x2400"}, []byte{0x21, 0x00, 0x24}, nil},
		{6, 9, []string{"lxi", "d", "9222"}, []byte{0x11, 0x06, 0x24}, nil},
	}

	opEqual(t, expected, prog.Opcodes)
}

func TestAssemblerLabel(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		"start: jmp end",
		"loop: dcr b",
		"jnz loop",
		"end: call loop",
		"dw start, end, 0x1234",
		"hlt",
		"self: jmp $",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	expected := []Opcode{
		{1, 0, []string{"jmp", "end"}, []byte{0xc3, 0x07, 0x00}, []Link{{1, "end"}}},
		{2, 3, []string{"dcr", "b"}, []byte{0x05}, nil},
		{3, 4, []string{"jnz", "loop"}, []byte{0xc2, 0x03, 0x00}, []Link{{1, "loop"}}},
		{4, 7, []string{"call", "loop"}, []byte{0xcd, 0x03, 0x00}, []Link{{1, "loop"}}},
		{5, 10, []string{"dw", "start", "end", "0x1234"}, []byte{0x00, 0x00, 0x07, 0x00, 0x34, 0x12}, []Link{{0, "start"}, {2, "end"}}},
		{6, 16, []string{"hlt"}, []byte{0x76}, nil},
		{7, 17, []string{"jmp", "17"}, []byte{0xc3, 0x11, 0x00}, nil},
	}

	opEqual(t, expected, prog.Opcodes)

	assert.Equal(map[string]int{"start": 0, "loop": 3, "end": 7, "self": 17}, asm.Label)
}

func TestAssemblerMacro(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		".macro ADDTWO r, v",
		"mvi r, v",
		"@x: inr r",
		"jnz @x",
		".endm",
		"ADDTWO a, 5",
		"ADDTWO b, 6",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	expected := []Opcode{
		{2, 0, []string{"mvi", "a", "5"}, []byte{0x3e, 0x05}, nil},
		{3, 2, []string{"inr", "a"}, []byte{0x3c}, nil},
		{4, 3, []string{"jnz", "ADDTWO_1_x"}, []byte{0xc2, 0x02, 0x00}, []Link{{1, "ADDTWO_1_x"}}},
		{2, 6, []string{"mvi", "b", "6"}, []byte{0x06, 0x06}, nil},
		{3, 8, []string{"inr", "b"}, []byte{0x04}, nil},
		{4, 9, []string{"jnz", "ADDTWO_2_x"}, []byte{0xc2, 0x08, 0x00}, []Link{{1, "ADDTWO_2_x"}}},
	}

	opEqual(t, expected, prog.Opcodes)

	// Macro arguments do not leak out of the expansion.
	_, ok := asm.Equate["r"]
	assert.False(ok)
}

func TestAssemblerData(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		"db 'A', \"hi\", 0ffh, '\\n'",
		"ds 2",
		".org 0x10",
		"here: dw $",
		"lxi h, $(HERE + 2)",
		"mvi a, -1",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	expected := []Opcode{
		{1, 0x00, []string{"db", "65", "104", "105", "0ffh", "10"}, []byte{'A', 'h', 'i', 0xff, '\n'}, nil},
		{2, 0x05, []string{"ds", "2"}, []byte{0, 0}, nil},
		{4, 0x10, []string{"dw", "16"}, []byte{0x10, 0x00}, nil},
		{5, 0x12, []string{"lxi", "h", "20"}, []byte{0x21, 0x14, 0x00}, nil},
		{6, 0x15, []string{"mvi", "a", "-1"}, []byte{0x3e, 0xff}, nil},
	}

	opEqual(t, expected, prog.Opcodes)
}

func TestAssemblerErrSyntax(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	// Various syntax errors
	table := [](struct {
		prog string
		line int
		err  error
	}){
		{"DUP:\nDUP:\n", 2, ErrLabelDuplicate},
		{"1abc: nop", 1, nil},
		{"mov a", 1, ErrOpcodeMissing},
		{"mov a, q", 1, ErrRegisterInvalid},
		{"mov m, m", 1, ErrRegisterInvalid},
		{"lxi q, 0", 1, ErrPairInvalid},
		{"push sp", 1, ErrPairInvalid},
		{"mvi a", 1, ErrOpcodeMissing},
		{"mvi a, 256", 1, ErrValueRange},
		{"mvi a, nothing", 1, nil},
		{"lxi h, 0x10000", 1, ErrValueRange},
		{"jmp nowhere", 1, nil},
		{"nop\nnop\njmp missing\n", 3, nil},
		{"jmp 1 2", 1, ErrOpcodeExtraArgs},
		{"nop bad", 1, ErrOpcodeExtraArgs},
		{"bogus", 1, ErrInstructionInvalid},
		{"mvi a, $(\"aaa\")", 1, nil},
		{"mvi a, $(more(1))", 1, nil},
		{".equ", 1, ErrEquateSyntax},
		{".equ A", 1, ErrEquateSyntax},
		{".equ A 1\n.equ A 2\n", 2, ErrEquateDuplicate},
		{".macro A B C\n.endm\nA 1\n", 3, ErrMacroSyntax},
		{".macro A B\nmvi a, B\n.endm\nA 1\nA 300\n", 5, ErrValueRange},
		{".macro A B\n.macro C\n.endm\n.endm", 2, ErrMacroNesting},
		{".macro A B\n.endm\n.macro A\n.endm\n", 3, ErrMacroDuplicate},
		{".macro A B\n.endm\n.endm\n", 3, ErrMacroLonelyEndm},
		{".macro A\nnop\n", 2, ErrMacroLonely},
		{".macro\n", 1, ErrMacroSyntax},
		{".org", 1, ErrOrgSyntax},
		{".org 0x10000", 1, ErrValueRange},
		{"rst 8", 1, ErrValueRange},
		{"ds", 1, ErrOpcodeMissing},
		{"ds 1 2", 1, ErrOpcodeExtraArgs},
		{"db", 1, ErrOpcodeMissing},
		{"db 300", 1, ErrValueRange},
		{".org 0xffff\nlxi h, 0", 2, ErrValueRange},
	}

	for _, entry := range table {
		_, err := asm.Parse(strings.NewReader(entry.prog))
		var se ErrSyntax
		assert.NotNil(err, entry.prog)
		if err != nil {
			assert.True(errors.As(err, &se), entry.prog)
			assert.Equal(entry.line, se.LineNo, entry.prog)
			if entry.err != nil {
				assert.ErrorIs(err, entry.err, entry.prog)
			}
		}
	}
}

func TestAssemblerErrLabelMissing(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader("nop\ncall there\n"))

	var missing ErrLabelMissing
	assert.True(errors.As(err, &missing))
	assert.Equal(ErrLabelMissing("there"), missing)

	var se ErrSyntax
	assert.True(errors.As(err, &se))
	assert.Equal("call there", se.Line)
}
