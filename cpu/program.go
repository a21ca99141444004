package cpu

import (
	"iter"
)

// Link is a 16-bit operand to be patched with a label's address.
type Link struct {
	Offset int    // Offset of the little-endian word in Bytes.
	Label  string // Label to resolve.
}

// Opcode is a single assembled source line.
type Opcode struct {
	LineNo  int      // Source line number.
	Address uint16   // Address of the first byte.
	Words   []string // Source words, after expansion.
	Bytes   []byte   // Machine code or data.
	Links   []Link   // Label references in Bytes.
}

// Program is the output of the assembler.
type Program struct {
	Opcodes []Opcode
}

// Debug maps an address back to the source line that generated it.
type Debug struct {
	*Opcode
	Index int // Offset of the address into Opcode.Bytes.
}

// Debug returns the opcode that contains address. Opcode is nil if
// no source line generated the address.
func (prog *Program) Debug(address uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(address) >= int(op.Address) && int(address) < int(op.Address)+len(op.Bytes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(address - op.Address),
			}
			break
		}
	}

	return
}

// Binary returns the memory image of the program, from address 0 to
// the highest assembled byte. Gaps are zero filled.
func (prog *Program) Binary() (bin []byte) {
	var size int
	for _, op := range prog.Opcodes {
		size = max(size, int(op.Address)+len(op.Bytes))
	}

	bin = make([]byte, size)
	for address, value := range prog.Bytes() {
		bin[address] = value
	}

	return
}

// Bytes iterates over every assembled byte, in source order.
func (prog *Program) Bytes() iter.Seq2[uint16, byte] {
	return func(yield func(address uint16, value byte) bool) {
		for _, op := range prog.Opcodes {
			for n, value := range op.Bytes {
				if !yield(op.Address+uint16(n), value) {
					return
				}
			}
		}
	}
}
