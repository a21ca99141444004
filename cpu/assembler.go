// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass macro assembler for the 8080.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	address    int // Address of the next emitted byte.
	expansions int // Count of macro expansions, for local labels.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// mnemonicTable maps a mnemonic and its register operands, as rendered
// by Code.String, to the opcode.
var mnemonicTable, mnemonicRegs = makeMnemonicTables()

func makeMnemonicTables() (table map[string]Code, regs map[string]int) {
	table = map[string]Code{}
	regs = map[string]int{}

	for n := range 256 {
		code := Code(n)
		if !code.Valid() {
			continue
		}
		text := code.String()
		table[text] = code

		name, operands, _ := strings.Cut(text, " ")
		if len(operands) == 0 {
			regs[name] = 0
		} else {
			regs[name] = strings.Count(operands, ",") + 1
		}
	}

	return
}

// Mnemonics whose register operand is a register pair.
var pairMnemonic = map[string]bool{
	"lxi": true, "stax": true, "inx": true, "dad": true,
	"ldax": true, "dcx": true, "push": true, "pop": true,
}

var (
	charRegexp   = regexp.MustCompile(`'\\?[^']'`)
	stringRegexp = regexp.MustCompile(`"[^"]*"`)
	parenRegexp  = regexp.MustCompile(`\$\([^\$]*\)`)
	labelRegexp  = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)
)

// valueOf returns the value of a simple word. Numbers may be in any
// Go integer syntax, or hexadecimal with an 'h' suffix.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	if len(word) == 0 {
		err = ErrParseNumber(word)
		return
	}

	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
	}
	if len(word) > 0 && word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(strings.Trim(word, "'"))
		return
	}

	text := word
	base := 0
	if len(text) > 1 && (text[len(text)-1] == 'h' || text[len(text)-1] == 'H') && unicode.IsDigit(rune(text[0])) {
		text = text[:len(text)-1]
		base = 16
	}

	value, err = strconv.ParseInt(text, base, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if invert {
		value = ^value
	}

	return
}

// byteOf returns the value of a word as an 8-bit operand.
func (asm *Assembler) byteOf(word string) (value uint8, err error) {
	v64, err := asm.valueOf(word)
	if err != nil {
		return
	}

	if v64 < -0x80 || v64 > 0xff {
		err = fmt.Errorf("%w: %v", ErrValueRange, word)
		return
	}

	value = uint8(v64)
	return
}

// addWord appends a 16-bit operand to op. Labels are linked after the
// whole source is read.
func (asm *Assembler) addWord(op *Opcode, word string) (err error) {
	v64, err := asm.valueOf(word)
	if err != nil {
		if !labelRegexp.MatchString(word) {
			return
		}
		err = nil
		op.Links = append(op.Links, Link{Offset: len(op.Bytes), Label: word})
		op.Bytes = append(op.Bytes, 0, 0)
		return
	}

	if v64 < -0x8000 || v64 > 0xffff {
		err = fmt.Errorf("%w: %v", ErrValueRange, word)
		return
	}

	op.Bytes = append(op.Bytes, uint8(v64), uint8(v64>>8))
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v64 int64
		v64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	for label, address := range asm.Label {
		if _, ok := pred[label]; !ok {
			pred[label] = starlark.MakeInt(address)
		}
	}
	pred["HERE"] = starlark.MakeInt(asm.address)
	err = nil

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrParseExpression(expr), err)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// unescape returns the byte for a quoted character.
func unescape(str string) (value byte, ok bool) {
	if str[0] != '\\' {
		return str[0], len(str) == 1
	}

	switch str[1:] {
	case "\\":
		value = '\\'
	case "n":
		value = '\n'
	case "r":
		value = '\r'
	case "t":
		value = '\t'
	case "0":
		value = 0
	case "e":
		value = '\033'
	default:
		return
	}

	ok = true
	return
}

// parseLine parses a single line into words, expanding macros.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do "string" expansion into byte lists.
	line = stringRegexp.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		values := make([]string, 0, len(str))
		for n := range len(str) {
			values = append(values, fmt.Sprintf("%v", str[n]))
		}
		return strings.Join(values, ",")
	})

	// Do 'x' evaluations
	line = charRegexp.ReplaceAllStringFunc(line, func(word string) string {
		value, ok := unescape(word[1 : len(word)-1])
		if !ok {
			return word
		}
		return fmt.Sprintf("%v", value)
	})

	// Do $() evaluations
	line = parenRegexp.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.FieldsFunc(line, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if strings.ToLower(words[0]) == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		} else if word == "$" {
			words[n] = fmt.Sprintf("%d", asm.address)
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !labelRegexp.MatchString(label) {
			err = ErrLabelInvalid(label)
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.address
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = args[n]
		}
		defer func() { asm.Equate = old_equate }()

		asm.expansions++
		local := fmt.Sprintf("%v_%v_", name, asm.expansions)

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}
	asm.address = 0
	asm.expansions = 0

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.WithField("line", lineno).Info(text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && strings.ToLower(words[0]) == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = strings.FieldsFunc(strings.Join(words[2:], " "), func(r rune) bool {
					return unicode.IsSpace(r) || r == ','
				})
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && strings.ToLower(words[0]) == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		for _, link := range op.Links {
			address, ok := asm.Label[link.Label]
			if !ok {
				lineno = op.LineNo
				line = strings.Join(op.Words, " ")
				err = ErrLabelMissing(link.Label)
				return
			}
			op.Bytes[link.Offset] = uint8(address)
			op.Bytes[link.Offset+1] = uint8(address >> 8)
		}
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// emit appends an assembled line at the current address.
func (asm *Assembler) emit(op Opcode) (err error) {
	if len(op.Bytes) == 0 {
		return
	}

	if asm.address+len(op.Bytes) > MEMORY_SIZE {
		err = fmt.Errorf("%w: address 0x%x", ErrValueRange, asm.address)
		return
	}

	op.Address = uint16(asm.address)
	asm.Opcode = append(asm.Opcode, op)
	asm.address += len(op.Bytes)

	if asm.Verbose {
		log.WithFields(logrus.Fields{
			"line":    op.LineNo,
			"address": fmt.Sprintf("%04x", op.Address),
			"bytes":   fmt.Sprintf("% 02x", op.Bytes),
		}).Info("emit")
	}

	return
}

// parseInstruction assembles an 8080 instruction into op.
func (asm *Assembler) parseInstruction(op *Opcode, mnemonic string, args []string) (err error) {
	regs, ok := mnemonicRegs[mnemonic]
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	if len(args) < regs {
		err = ErrOpcodeMissing
		return
	}

	fields := make([]string, regs)
	for n := range regs {
		fields[n] = strings.ToLower(args[n])
	}

	if mnemonic == "rst" {
		var vector int64
		vector, err = asm.valueOf(args[0])
		if err != nil {
			return
		}
		if vector < 0 || vector > 7 {
			err = fmt.Errorf("%w: rst %v", ErrValueRange, args[0])
			return
		}
		fields[0] = strconv.Itoa(int(vector))
	}

	key := mnemonic
	if regs > 0 {
		key += " " + strings.Join(fields, ",")
	}

	code, ok := mnemonicTable[key]
	if !ok {
		if pairMnemonic[mnemonic] {
			err = ErrPairInvalid
		} else {
			err = ErrRegisterInvalid
		}
		return
	}

	rest := args[regs:]
	need := 0
	if code.Length() > 1 {
		need = 1
	}
	if len(rest) < need {
		err = ErrOpcodeMissing
		return
	}
	if len(rest) > need {
		err = ErrOpcodeExtraArgs
		return
	}

	op.Bytes = append(op.Bytes, uint8(code))

	switch code.Length() {
	case 2:
		var value uint8
		value, err = asm.byteOf(rest[0])
		if err != nil {
			return
		}
		op.Bytes = append(op.Bytes, value)
	case 3:
		err = asm.addWord(op, rest[0])
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	op := Opcode{LineNo: lineno, Words: slices.Clone(words)}
	mnemonic := strings.ToLower(words[0])
	args := words[1:]

	switch mnemonic {
	case ".org", "org":
		if len(args) != 1 {
			err = ErrOrgSyntax
			return
		}
		var address int64
		address, err = asm.valueOf(args[0])
		if err != nil {
			return
		}
		if address < 0 || address >= MEMORY_SIZE {
			err = fmt.Errorf("%w: .org %v", ErrValueRange, args[0])
			return
		}
		asm.address = int(address)
		return
	case "db", ".db":
		if len(args) == 0 {
			err = ErrOpcodeMissing
			return
		}
		for _, arg := range args {
			var value uint8
			value, err = asm.byteOf(arg)
			if err != nil {
				return
			}
			op.Bytes = append(op.Bytes, value)
		}
	case "dw", ".dw":
		if len(args) == 0 {
			err = ErrOpcodeMissing
			return
		}
		for _, arg := range args {
			err = asm.addWord(&op, arg)
			if err != nil {
				return
			}
		}
	case "ds", ".ds":
		if len(args) == 0 {
			err = ErrOpcodeMissing
			return
		}
		if len(args) > 1 {
			err = ErrOpcodeExtraArgs
			return
		}
		var size int64
		size, err = asm.valueOf(args[0])
		if err != nil {
			return
		}
		if size < 0 || size > MEMORY_SIZE {
			err = fmt.Errorf("%w: ds %v", ErrValueRange, args[0])
			return
		}
		op.Bytes = make([]byte, size)
	default:
		err = asm.parseInstruction(&op, mnemonic, args)
		if err != nil {
			return
		}
	}

	err = asm.emit(op)
	return
}
