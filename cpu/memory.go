package cpu

// Size of the flat address space.
const MEMORY_SIZE = 0x10000

// Memory is the flat, byte addressable 8080 address space.
type Memory [MEMORY_SIZE]uint8

// Read returns the byte at address.
func (mem *Memory) Read(address uint16) uint8 {
	return mem[address]
}

// Write stores a byte at address.
func (mem *Memory) Write(address uint16, value uint8) {
	mem[address] = value
}

// Read16 returns the little-endian word at address. The high byte
// address wraps at the top of memory.
func (mem *Memory) Read16(address uint16) uint16 {
	return uint16(mem[address]) | uint16(mem[address+1])<<8
}

// Write16 stores a little-endian word at address.
func (mem *Memory) Write16(address uint16, value uint16) {
	mem[address] = uint8(value)
	mem[address+1] = uint8(value >> 8)
}

// Load copies data into memory starting at address, returning the
// number of bytes copied. Data past the top of memory is dropped.
func (mem *Memory) Load(address uint16, data []byte) int {
	return copy(mem[address:], data)
}
