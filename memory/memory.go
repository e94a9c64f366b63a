// Package memory defines the bus interface the CPU core uses to reach
// the 16-bit NES address space and provides a flat RAM-backed
// implementation suitable for tests and simple hosts.
package memory

// Bus is the byte-level interface the CPU core uses for all memory
// access. Implementations must be synchronous and infallible; errors
// (missing mappers, out-of-range carts, etc.) are out of model and are
// the host's responsibility to avoid before handing a Bus to the CPU.
type Bus interface {
	// Read returns the byte stored at addr.
	Read(addr uint16) uint8
	// Write stores val at addr. Writes to ROM-backed addresses are
	// implementation defined (commonly a silent no-op).
	Write(addr uint16, val uint8)
}

// Read16 reads a little-endian 16-bit value starting at addr (low byte
// first, high byte second). This is the only multi-byte primitive the
// interpreter needs; everything else is single-byte Read/Write.
func Read16(b Bus, addr uint16) uint16 {
	lo := uint16(b.Read(addr))
	hi := uint16(b.Read(addr + 1))
	return (hi << 8) | lo
}

// RAM implements Bus as a flat, fully addressable 64KiB array. It's the
// reference bus used by the core's own tests and is adequate for any
// host that doesn't need bank switching (the CLI in cmd/nesrun loads
// PRG banks directly into one of these).
type RAM struct {
	mem [65536]uint8
}

// NewRAM returns a zeroed 64KiB RAM bank.
func NewRAM() *RAM {
	return &RAM{}
}

// Read implements Bus.
func (r *RAM) Read(addr uint16) uint8 {
	return r.mem[addr]
}

// Write implements Bus.
func (r *RAM) Write(addr uint16, val uint8) {
	r.mem[addr] = val
}

// LoadAt copies data into the bank starting at addr, wrapping modulo
// 65536 if data would run past the end of the address space.
func (r *RAM) LoadAt(addr uint16, data []uint8) {
	for i, b := range data {
		r.mem[(int(addr)+i)%65536] = b
	}
}
