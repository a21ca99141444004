// Package cpu implements an Intel 8080 class microprocessor and a macro
// assembler for its instruction set.
//
// The CPU consists of seven 8-bit registers (A, B, C, D, E, H, L) addressed
// in pairs for 16-bit work, a status register, a 16-bit program counter, a
// stack pointer, 64KiB of flat memory, a single level interrupt latch, and a
// port handler for the IN and OUT instructions.
//
// Execution is synchronous: Tick runs exactly one instruction, and
// ProcessProgram either steps once (StepMode) or runs until the loaded image
// is exhausted, the CPU halts, or a QUIT opcode executes.
//
// The assembler accepts the standard 8080 mnemonics, supporting macros,
// labels, equates, data directives, and compile-time expression evaluation.
package cpu
